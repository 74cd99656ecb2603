package middleware

import (
	"github.com/brandonopened/aitaskanalysis/internal/constants"
	"github.com/brandonopened/aitaskanalysis/internal/database"
	apierrors "github.com/brandonopened/aitaskanalysis/internal/errors"
	"github.com/brandonopened/aitaskanalysis/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireAdmin loads the authenticated user and rejects non-admins. Runs after
// RequireAuth. The loaded user is stored in context for the handler.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyCurrentUser, user)
		c.Next()
	}
}

// GetCurrentUser retrieves the user loaded by RequireAdmin from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(models.User)
	if !ok {
		return nil, false
	}
	return &user, true
}
