package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/dinehall/restaurant-pos/utils"
)

// WebSocketAuthMiddleware authenticates ws upgrades; browsers cannot set
// an Authorization header on the handshake, so the token rides the query.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("role", claims.Role)
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}
