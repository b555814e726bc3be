package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const voterCookieName = "voter_key"

// AuthMiddleware validates the Bearer token and exposes the caller's
// user id to downstream handlers as "user_id".
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		rawID, ok := claims["user_id"].(float64)
		if !ok || rawID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token payload"})
			return
		}

		c.Set("user_id", uint(rawID))
		c.Next()
	}
}

// VoterKeyMiddleware gives every caller a stable opaque voter key.
// Cookie-capable clients get a uuid cookie on first contact; clients
// that never return it are deduplicated by network origin instead.
func VoterKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(voterCookieName)
		if err != nil || key == "" {
			key = uuid.NewString()
			c.SetCookie(voterCookieName, key, 365*24*3600, "/", "", false, true)
		}
		c.Set("voter_key", key)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// VoterKey returns the caller's voter key, falling back to client IP.
func VoterKey(c *gin.Context) string {
	if v, exists := c.Get("voter_key"); exists {
		if key, ok := v.(string); ok && key != "" {
			return key
		}
	}
	return c.ClientIP()
}
