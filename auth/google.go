package auth

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/PrasannaGadalGIT/ecom-blink/models"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// POST /auth/google
//
// Verifies a Google ID token, creates the user on first login and
// returns an app JWT. The Google account's email is the identity key.
func GoogleLoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken"`
		}

		if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google ID token"})
			return
		}

		email, _ := payload.Claims["email"].(string)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has no email claim"})
			return
		}
		name, _ := payload.Claims["name"].(string)
		if name == "" {
			name = strings.Split(email, "@")[0]
		}

		var user models.User
		err = db.Where("email = ?", email).First(&user).Error

		if err == gorm.ErrRecordNotFound {
			user = models.User{
				Email:    email,
				Username: name,
				Provider: "google",
			}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    user,
			"token":   IssueJWT(user),
		})
	}
}
