package escrowControllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Devnet CAIP-2 chain id, required by wallet action clients.
const blockchainIDDevnet = "solana:EtWTRABZaYq6iMfeYKouRu166VU2xqa1"

type actionLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Type  string `json:"type"`
}

type actionLinks struct {
	Actions []actionLink `json:"actions"`
}

// ActionGetResponse is the discovery payload a wallet-action-aware client
// renders as a purchase card.
type ActionGetResponse struct {
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Icon        string      `json:"icon"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Links       actionLinks `json:"links"`
}

func setActionHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Content-Encoding, Accept-Encoding")
	c.Header("X-Action-Version", "2.1.3")
	c.Header("X-Blockchain-Ids", blockchainIDDevnet)
}

// GET /api/actions/escrow
func GetAction() gin.HandlerFunc {
	return func(c *gin.Context) {
		setActionHeaders(c)

		title := c.DefaultQuery("title", "Product")
		imageURL := c.DefaultQuery("imageUrl", "/api/placeholder/200/200")
		description := c.DefaultQuery("description", "Product Description")

		price, err := strconv.ParseFloat(c.DefaultQuery("price", "10"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price", "details": err.Error()})
			return
		}

		amount, err := ConvertUsdToSol(price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price", "details": err.Error()})
			return
		}

		href := fmt.Sprintf("/api/actions/escrow?method=transfer&amount=%v&title=%s&imageUrl=%s&description=%s&price=%v",
			amount, url.QueryEscape(title), url.QueryEscape(imageURL), url.QueryEscape(description), price)

		c.JSON(http.StatusOK, ActionGetResponse{
			Type:        "action",
			Title:       title,
			Icon:        imageURL,
			Label:       "Secure Purchase",
			Description: fmt.Sprintf("Purchase %s with Solana escrow protection", title),
			Links: actionLinks{
				Actions: []actionLink{
					{Label: "Buy Now", Href: href, Type: "message"},
				},
			},
		})
	}
}

// OPTIONS /api/actions/escrow
func OptionsAction() gin.HandlerFunc {
	return func(c *gin.Context) {
		setActionHeaders(c)
		c.Status(http.StatusNoContent)
	}
}

// POST /api/actions/escrow?method=transfer|create|confirm
func PostAction(db *gorm.DB, chain ChainClient, keys *Keystore) gin.HandlerFunc {
	transfer := handleTransfer(chain)
	create := handleCreate(db, chain, keys)
	confirm := handleConfirm(db, chain, keys)

	return func(c *gin.Context) {
		setActionHeaders(c)

		switch c.DefaultQuery("method", "transfer") {
		case "transfer":
			transfer(c)
		case "create":
			create(c)
		case "confirm":
			confirm(c)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid method specified"})
		}
	}
}
