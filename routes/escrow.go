package routes

import (
	"github.com/gin-gonic/gin"
	escrowControllers "github.com/PrasannaGadalGIT/ecom-blink/controllers/escrow"
	"github.com/PrasannaGadalGIT/ecom-blink/middleware"
	"gorm.io/gorm"
)

// SetupEscrowRoutes registers the wallet-action endpoints, the status
// feed and the API-key-protected admin surface.
func SetupEscrowRoutes(r *gin.Engine, db *gorm.DB, chain escrowControllers.ChainClient, keys *escrowControllers.Keystore) {
	actions := r.Group("/api/actions")
	{
		actions.GET("/escrow", escrowControllers.GetAction())
		actions.OPTIONS("/escrow", escrowControllers.OptionsAction())
		actions.POST("/escrow", escrowControllers.PostAction(db, chain, keys))
	}

	r.GET("/escrow/ws", escrowControllers.EscrowWebSocketHandler)

	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey)
	{
		admin.GET("/escrows", escrowControllers.ListEscrows(db))
		admin.GET("/escrows/export", escrowControllers.ExportEscrowsToExcel(db))
	}
}
