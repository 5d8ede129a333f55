package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rasoihub/recipeops/internal/models"
)

// OperatorHeader carries the operator's email on admin requests. The admin
// panel populates it from its stored operator identity; the value must match
// an admin account.
const OperatorHeader = "X-Operator-Email"

// RequireOperator creates a middleware that gates admin routes behind the
// operator email header.
func RequireOperator(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(OperatorHeader))
		if email == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing operator email header"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("email = ? AND is_admin = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "operator not recognized"})
			c.Abort()
			return
		}

		c.Set("operator_email", user.Email)
		c.Next()
	}
}
