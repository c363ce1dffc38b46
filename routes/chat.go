package routes

import (
	"github.com/gin-gonic/gin"
	chatControllers "github.com/PrasannaGadalGIT/ecom-blink/controllers/chat"
	"gorm.io/gorm"
)

// SetupChatRoutes registers chat persistence and the recommendation proxy.
func SetupChatRoutes(r *gin.Engine, db *gorm.DB) {
	r.POST("/chats", chatControllers.CreateChat(db))
	r.GET("/chats", chatControllers.GetChats(db))
	r.GET("/chats/:userId", chatControllers.GetChatsByUser(db))
	r.POST("/responses", chatControllers.AddResponses(db))
	r.POST("/recommend", chatControllers.Recommend())
}
