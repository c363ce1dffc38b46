package escrowControllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/PrasannaGadalGIT/ecom-blink/models"
	"gorm.io/gorm"
)

// Fixed USD price of SOL used for checkout conversion.
const solPriceInUSD = 129.350

const defaultSellerAddress = "47EiJZWwj917wKwhzEYRmQSVkbfLTcsPTPsiMC9BPWjy"

// ConvertUsdToSol converts a USD price to SOL at the fixed rate.
func ConvertUsdToSol(usdAmount float64) (float64, error) {
	if usdAmount <= 0 {
		return 0, errors.New("USD amount must be greater than 0")
	}
	return usdAmount / solPriceInUSD, nil
}

func sellerAddress() (solana.PublicKey, error) {
	addr := os.Getenv("SELLER_ADDRESS")
	if addr == "" {
		addr = defaultSellerAddress
	}
	return validatePublicKey(addr, "seller address")
}

func validatePublicKey(key, fieldName string) (solana.PublicKey, error) {
	pub, err := solana.PublicKeyFromBase58(key)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %s", fieldName, key)
	}
	return pub, nil
}

// buildTransfer assembles an unsigned system transfer with the given fee
// payer and a fresh blockhash already fetched by the caller.
func buildTransfer(lamports uint64, from, to, feePayer solana.PublicKey, blockhash solana.Hash) (*solana.Transaction, error) {
	return solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, to).Build(),
		},
		blockhash,
		solana.TransactionPayer(feePayer),
	)
}

type actionPostRequest struct {
	Account string `json:"account"`
}

// parseAmount reads the SOL amount from the query string.
func parseAmount(c *gin.Context) (float64, error) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		return 0, errors.New("amount must be a number")
	}
	if amount <= 0 {
		return 0, errors.New("amount must be greater than 0")
	}
	return amount, nil
}

// POST ?method=transfer — unsigned buyer→seller transfer.
func handleTransfer(chain ChainClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body actionPostRequest
		if err := c.ShouldBindJSON(&body); err != nil || body.Account == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to initiate direct transfer", "details": "missing account"})
			return
		}

		amount, err := parseAmount(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to initiate direct transfer", "details": err.Error()})
			return
		}

		buyer, err := validatePublicKey(body.Account, "buyer public key")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to initiate direct transfer", "details": err.Error()})
			return
		}

		seller, err := sellerAddress()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate direct transfer", "details": err.Error()})
			return
		}

		blockhash, err := chain.LatestBlockhash(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to initiate direct transfer", "details": err.Error()})
			return
		}

		lamports := uint64(math.Floor(amount * float64(solana.LAMPORTS_PER_SOL)))
		tx, err := buildTransfer(lamports, buyer, seller, buyer, blockhash)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate direct transfer", "details": err.Error()})
			return
		}

		serialized, err := tx.ToBase64()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate direct transfer", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"transaction": serialized,
			"message":     fmt.Sprintf("Transfer of %v SOL (%d lamports) to the seller initiated.", amount, lamports),
		})
	}
}

// POST ?method=create — fund a fresh escrow holder account.
//
// The holder record (with its sealed private key) is persisted before the
// transaction leaves the server. If the write fails the buyer is never
// handed a transaction, so funds cannot be sent to an account nobody can
// sign for.
func handleCreate(db *gorm.DB, chain ChainClient, keys *Keystore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body actionPostRequest
		if err := c.ShouldBindJSON(&body); err != nil || body.Account == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create escrow", "details": "missing account"})
			return
		}

		amount, err := parseAmount(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create escrow", "details": err.Error()})
			return
		}

		buyer, err := validatePublicKey(body.Account, "buyer public key")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create escrow", "details": err.Error()})
			return
		}

		seller, err := sellerAddress()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create escrow", "details": err.Error()})
			return
		}

		holder := solana.NewWallet()
		sealedKey, err := keys.Seal(holder.PrivateKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create escrow", "details": err.Error()})
			return
		}

		lamports := uint64(math.Floor(amount * float64(solana.LAMPORTS_PER_SOL)))
		record := models.EscrowRecord{
			Reference:          uuid.NewString(),
			HolderAddress:      holder.PublicKey().String(),
			BuyerAddress:       buyer.String(),
			SellerAddress:      seller.String(),
			Lamports:           lamports,
			Status:             models.EscrowStatusPending,
			EncryptedHolderKey: sealedKey,
		}
		if err := db.Create(&record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create escrow", "details": err.Error()})
			return
		}

		// No transaction references the holder yet, so a failure from
		// here on discards the record instead of leaving an orphan
		// pending row behind.
		discard := func() { db.Delete(&record) }

		blockhash, err := chain.LatestBlockhash(c.Request.Context())
		if err != nil {
			discard()
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create escrow", "details": err.Error()})
			return
		}

		tx, err := buildTransfer(lamports, buyer, holder.PublicKey(), buyer, blockhash)
		if err != nil {
			discard()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create escrow", "details": err.Error()})
			return
		}

		serialized, err := tx.ToBase64()
		if err != nil {
			discard()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create escrow", "details": err.Error()})
			return
		}

		broadcastEscrowUpdate(record)

		c.JSON(http.StatusOK, gin.H{
			"transaction":         serialized,
			"escrowAccountHolder": record.HolderAddress,
			"reference":           record.Reference,
			"message":             fmt.Sprintf("Escrow of %v SOL (%d lamports) created. Funds release on delivery confirmation.", amount, lamports),
		})
	}
}

// POST ?method=confirm — release the escrowed balance to the seller.
//
// The transfer moves out of the holder account, so the holder must sign.
// The server co-signs with the persisted custodial key; the buyer only
// pays the fee and countersigns in their wallet. The pending→completed
// flip is a versioned single-row update, so a concurrent confirm for the
// same escrow loses cleanly instead of issuing a second release.
func handleConfirm(db *gorm.DB, chain ChainClient, keys *Keystore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body actionPostRequest
		if err := c.ShouldBindJSON(&body); err != nil || body.Account == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to confirm delivery", "details": "missing account"})
			return
		}

		holderParam := c.Query("escrowAccount")
		if holderParam == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to confirm delivery", "details": "missing escrowAccount"})
			return
		}

		buyer, err := validatePublicKey(body.Account, "buyer public key")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to confirm delivery", "details": err.Error()})
			return
		}

		var record models.EscrowRecord
		if err := db.Where("holder_address = ?", holderParam).First(&record).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Failed to confirm delivery", "details": "unknown escrow account"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm delivery", "details": err.Error()})
			return
		}

		if record.Status == models.EscrowStatusCompleted {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to confirm delivery", "details": "escrow already completed"})
			return
		}

		holderKeyBytes, err := keys.Open(record.EncryptedHolderKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm delivery", "details": "cannot unseal holder key"})
			return
		}
		holderKey := solana.PrivateKey(holderKeyBytes)
		holderPub := holderKey.PublicKey()

		seller, err := validatePublicKey(record.SellerAddress, "seller address")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm delivery", "details": err.Error()})
			return
		}

		balance, err := chain.Balance(c.Request.Context(), holderPub)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to confirm delivery", "details": err.Error()})
			return
		}
		if balance == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to confirm delivery", "details": "escrow account has no funds"})
			return
		}

		blockhash, err := chain.LatestBlockhash(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to confirm delivery", "details": err.Error()})
			return
		}

		tx, err := buildTransfer(balance, holderPub, seller, buyer, blockhash)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm delivery", "details": err.Error()})
			return
		}

		if _, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(holderPub) {
				return &holderKey
			}
			return nil
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm delivery", "details": err.Error()})
			return
		}

		serialized, err := tx.ToBase64()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm delivery", "details": err.Error()})
			return
		}

		result := db.Model(&models.EscrowRecord{}).
			Where("id = ? AND version = ? AND status = ?", record.ID, record.Version, models.EscrowStatusPending).
			Updates(map[string]interface{}{
				"status":  models.EscrowStatusCompleted,
				"version": record.Version + 1,
			})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm delivery", "details": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to confirm delivery", "details": "escrow already completed"})
			return
		}

		record.Status = models.EscrowStatusCompleted
		record.Version++
		broadcastEscrowUpdate(record)

		c.JSON(http.StatusOK, gin.H{
			"transaction": serialized,
			"message":     fmt.Sprintf("Release of %d lamports to the seller initiated.", balance),
		})
	}
}
