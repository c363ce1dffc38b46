package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/PrasannaGadalGIT/ecom-blink/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddCartItemInput struct {
	UserID      uint    `json:"userId"`
	ProductName string  `json:"productName"`
	Title       string  `json:"title"` // alias accepted from the chat widget
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageURL"`
	ImageURLAlt string  `json:"image_url"`
}

// POST /cart/add
//
// Adding a product the user already has in the cart accumulates quantity
// instead of inserting a second row. The existence check takes a FOR
// UPDATE row lock so a concurrent add of the same (user, product)
// serializes on the increment path. Two concurrent first adds both see
// not-found and no lock can order them, so the loser's insert hits the
// composite unique index; that is retried into the increment path rather
// than surfaced as an error.
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		productName := input.ProductName
		if productName == "" {
			productName = input.Title
		}
		imageURL := input.ImageURL
		if imageURL == "" {
			imageURL = input.ImageURLAlt
		}

		if input.UserID == 0 || productName == "" || input.Price == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: userId, productName, price"})
			return
		}
		if input.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be greater than 0"})
			return
		}
		if input.Quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
			return
		}
		quantity := input.Quantity
		if quantity == 0 {
			quantity = 1
		}

		var item models.CartItem
		status := http.StatusCreated

		attempt := func() error {
			return db.Transaction(func(tx *gorm.DB) error {
				var existing models.CartItem
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("user_id = ? AND product_name = ?", input.UserID, productName).
					First(&existing).Error

				if err == gorm.ErrRecordNotFound {
					item = models.CartItem{
						UserID:      input.UserID,
						ProductName: productName,
						Description: input.Description,
						Price:       input.Price,
						Quantity:    quantity,
						ImageURL:    imageURL,
					}
					return tx.Create(&item).Error
				}
				if err != nil {
					return err
				}

				status = http.StatusOK
				if err := tx.Model(&models.CartItem{}).
					Where("id = ?", existing.ID).
					Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
					return err
				}
				return tx.First(&item, existing.ID).Error
			})
		}

		err := attempt()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a first-insert race: the row exists now, so the rerun
			// locks it and increments.
			err = attempt()
		}

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart", "details": err.Error()})
			return
		}

		c.JSON(status, item)
	}
}

// GET /cart/get/:userId
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("userId"))
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		items := []models.CartItem{}
		if err := db.Where("user_id = ?", userID).
			Order("updated_at desc").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// DELETE /cart/remove/:id
func RemoveCartItemByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
			return
		}

		result := db.Delete(&models.CartItem{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /cart/remove/:userId/:productName
//
// The first segment is bound as "id" to share the wildcard with the
// remove-by-row-id route; here it is the user id.
func RemoveCartItemByProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("id"))
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		productName := c.Param("productName")

		result := db.Where("user_id = ? AND product_name = ?", userID, productName).
			Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /cart/clear/:userId
//
// Called by the client after a confirmed checkout.
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("userId"))
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		if err := db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
