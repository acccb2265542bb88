package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/craffles/raffle-backend/internal/config"
	"github.com/craffles/raffle-backend/internal/utils"
)

// JWTAuthMiddleware is a middleware for JWT authentication. On success it
// sets the organizer's id, email and identity address in the context.
func JWTAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			c.Abort()
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("organizerID", sub)
		}
		if email, ok := claims["email"].(string); ok {
			c.Set("organizerEmail", email)
		}
		if address, ok := claims["address"].(string); ok {
			c.Set("organizerAddress", address)
		}
		c.Next()
	}
}
