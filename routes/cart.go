package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/PrasannaGadalGIT/ecom-blink/controllers/cart"
	"gorm.io/gorm"
)

// SetupCartRoutes registers all “/cart/*” endpoints.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cartGroup := r.Group("/cart")
	{
		cartGroup.POST("/add", cartControllers.AddCartItem(db))                                   // POST /cart/add
		cartGroup.GET("/get/:userId", cartControllers.GetCart(db))                                // GET /cart/get/:userId
		// gin requires the same wildcard name at a shared position, so the
		// first segment is :id for both variants: a row id alone, or a
		// user id when a product name follows.
		cartGroup.DELETE("/remove/:id", cartControllers.RemoveCartItemByID(db))              // DELETE /cart/remove/:id
		cartGroup.DELETE("/remove/:id/:productName", cartControllers.RemoveCartItemByProduct(db)) // DELETE /cart/remove/:userId/:productName
		cartGroup.DELETE("/clear/:userId", cartControllers.ClearCart(db))                         // DELETE /cart/clear/:userId
	}
}
