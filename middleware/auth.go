package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitquest-app/server/cache"
	"github.com/fitquest-app/server/config"
)

const AccountIDKey = "account_id"

const cacheTimeout = 2 * time.Second

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	return token, ok && token != ""
}

// Auth requires a valid Bearer JWT whose session is still live in the
// cache. A token outlives its session on logout, so both checks matter.
func Auth(sec config.SecurityConfig, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := ParseToken(token, sec.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cacheTimeout)
		defer cancel()
		live, err := store.Exists(ctx, "session:"+token)
		if err != nil || !live {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set(AccountIDKey, claims.AccountID)
		c.Next()
	}
}

// GetAccountID returns the authenticated account ID, or 0 outside Auth.
func GetAccountID(c *gin.Context) int64 {
	id, _ := c.Value(AccountIDKey).(int64)
	return id
}
