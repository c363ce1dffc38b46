package chatControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
)

const recommenderTimeout = 10 * time.Second

type RecommendRequest struct {
	Query     string  `json:"query" binding:"required"`
	K         int     `json:"k"`
	MaxPrice  float64 `json:"max_price"`
	MinRating float64 `json:"min_rating"`
}

type RecommendedProduct struct {
	ProductName string  `json:"productName"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageURL"`
	Price       float64 `json:"price"`
}

type recommenderResponse struct {
	Response []RecommendedProduct `json:"response"`
}

func recommenderURL() string {
	if url := os.Getenv("RECOMMENDER_URL"); url != "" {
		return url
	}
	return "http://127.0.0.1:5000"
}

// FetchRecommendations calls the external recommendation service. The
// service is a separate deployment and occasionally slow to answer while
// its model warms up, so the call carries a deadline and a couple of
// retries with exponential backoff.
func FetchRecommendations(ctx context.Context, req RecommendRequest) ([]RecommendedProduct, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var products []RecommendedProduct

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, "POST",
			recommenderURL()+"/generate", bytes.NewBuffer(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("failed to reach recommender: %v", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("recommender error (%d): %s", resp.StatusCode, string(body))
		}

		var parsed recommenderResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to parse recommender response: %v", err))
		}

		products = parsed.Response
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return products, nil
}

// POST /recommend
func Recommend() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RecommendRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), recommenderTimeout)
		defer cancel()

		products, err := FetchRecommendations(ctx, input)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Recommendation service unavailable", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"response": products})
	}
}
