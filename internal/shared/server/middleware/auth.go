package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"growth-intel/internal/shared/auth"
	"growth-intel/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	isGuestKey   = "isGuest"

	guestPrefix = "guest:"
)

// Auth resolves the caller from a bearer JWT or, failing that, an X-Guest-Id
// header. Guest identities are namespaced as "guest:<id>" and are refused in
// production, where only signed tokens are accepted.
func Auth(env string) gin.HandlerFunc {
	allowGuests := env != "production"
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			token, ok := bearerToken(header)
			if !ok {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Set(userIDKey, claims.Subject)
			if claims.Email != "" {
				c.Set(userEmailKey, claims.Email)
			}
			c.Set(isGuestKey, false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}
		if !allowGuests {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "guest access is disabled", nil)
			return
		}
		c.Set(userIDKey, guestPrefix+guestID)
		c.Set(isGuestKey, true)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// UserIDFromContext fetches the user ID set by Auth.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// UserEmailFromContext fetches the email claim set by Auth, if any.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	s, _ := val.(string)
	return s
}
