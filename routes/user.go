package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/PrasannaGadalGIT/ecom-blink/controllers/user"
	"github.com/PrasannaGadalGIT/ecom-blink/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers the user directory endpoints.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/users", userControllers.GetUsers(db))        // GET /users?email=
	r.GET("/users/:id", userControllers.GetUserByID(db)) // GET /users/:id

	// Current-user profile, requires the JWT issued at login
	r.GET("/me", middleware.ValidateToken, userControllers.GetCurrentUser(db))
}
