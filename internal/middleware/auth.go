package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"apparel_store/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// RequireAuth validates the Bearer token and stores userID and role on the
// request context.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authorization token is required"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token claims"})
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil || userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "user id not found in token"})
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)

		c.Set("userID", uint(userID))
		c.Set("role", role)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get("role"); role != string(models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORS opens the API to the storefront and admin frontends.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// UserID pulls the authenticated user out of the context.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
