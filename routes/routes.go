package routes

import (
	"github.com/gin-gonic/gin"
	escrowControllers "github.com/PrasannaGadalGIT/ecom-blink/controllers/escrow"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry‐point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, chain escrowControllers.ChainClient, keys *escrowControllers.Keystore) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// User directory
	SetupUserRoutes(r, db)

	// Cart CRUD
	SetupCartRoutes(r, db)

	// Chats + recommendation proxy
	SetupChatRoutes(r, db)

	// Escrow / checkout actions
	SetupEscrowRoutes(r, db, chain, keys)
}
