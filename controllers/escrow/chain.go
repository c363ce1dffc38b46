package escrowControllers

import (
	"context"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

const rpcTimeout = 8 * time.Second

// ChainClient is the slice of the RPC surface the escrow flow needs.
// Handlers take it as an interface so tests can run without a validator.
type ChainClient interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
}

type rpcChain struct {
	client *rpc.Client
}

// NewRPCChain connects to SOLANA_RPC_URL, defaulting to devnet.
func NewRPCChain() ChainClient {
	endpoint := os.Getenv("SOLANA_RPC_URL")
	if endpoint == "" {
		endpoint = rpc.DevNet_RPC
	}
	return &rpcChain{client: rpc.New(endpoint)}
}

func retryPolicy(ctx context.Context) backoff.BackOff {
	return backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
}

func (r *rpcChain) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	var hash solana.Hash
	err := backoff.Retry(func() error {
		out, err := r.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
		if err != nil {
			return err
		}
		hash = out.Value.Blockhash
		return nil
	}, retryPolicy(ctx))

	return hash, err
}

func (r *rpcChain) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	var lamports uint64
	err := backoff.Retry(func() error {
		out, err := r.client.GetBalance(ctx, account, rpc.CommitmentConfirmed)
		if err != nil {
			return err
		}
		lamports = out.Value
		return nil
	}, retryPolicy(ctx))

	return lamports, err
}
