package chatControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/PrasannaGadalGIT/ecom-blink/models"
	"gorm.io/gorm"
)

type SuggestionInput struct {
	ProductName string  `json:"productName"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageURL"`
	Price       float64 `json:"price"`
}

type CreateChatInput struct {
	UserID    uint              `json:"userId"`
	Query     string            `json:"query"`
	Responses []SuggestionInput `json:"responses"`
}

type AddResponsesInput struct {
	ChatID    uint              `json:"chatId"`
	Responses []SuggestionInput `json:"responses"`
}

// POST /chats
//
// The chat row and any provided suggestions are written in one
// transaction, so a chat never appears with half its suggestions.
func CreateChat(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateChatInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.UserID == 0 || input.Query == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "Missing required fields",
				"requiredFields": []string{"query", "userId"},
			})
			return
		}

		var user models.User
		if err := db.First(&user, input.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		chat := models.Chat{
			UserID: input.UserID,
			Query:  input.Query,
		}
		for _, resp := range input.Responses {
			chat.Responses = append(chat.Responses, models.Response{
				ProductName: resp.ProductName,
				Description: resp.Description,
				ImageURL:    resp.ImageURL,
				Price:       resp.Price,
			})
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&chat).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Chat created successfully",
			"chat":    chat,
		})
	}
}

// GET /chats?userId=
func GetChats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Responses").Order("id desc")

		if userID := c.Query("userId"); userID != "" {
			id, err := strconv.Atoi(userID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId format"})
				return
			}
			query = query.Where("user_id = ?", id)
		}

		chats := []models.Chat{}
		if err := query.Find(&chats).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
			return
		}

		c.JSON(http.StatusOK, chats)
	}
}

// GET /chats/:userId
func GetChatsByUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		// id desc, like GetChats: insertion order is recency and ties in
		// created_at cannot reorder the list
		chats := []models.Chat{}
		if err := db.Preload("Responses").
			Where("user_id = ?", user.ID).
			Order("id desc").
			Find(&chats).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching chats"})
			return
		}

		c.JSON(http.StatusOK, chats)
	}
}

// POST /responses
//
// Appends suggestions to an existing chat.
func AddResponses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddResponsesInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.ChatID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing chat ID"})
			return
		}
		if len(input.Responses) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No responses provided"})
			return
		}

		var chat models.Chat
		if err := db.First(&chat, input.ChatID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return
		}

		responses := make([]models.Response, 0, len(input.Responses))
		for _, resp := range input.Responses {
			responses = append(responses, models.Response{
				ChatID:      chat.ID,
				ProductName: resp.ProductName,
				Description: resp.Description,
				ImageURL:    resp.ImageURL,
				Price:       resp.Price,
			})
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&responses).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add responses", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "Responses added successfully",
			"responses": responses,
		})
	}
}
