package middleware

import (
	"strings"
	"unicode"

	"go-leave/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

const maxUserIDLength = 128

// ExtractUserID publishes the token subject under ContextUserIDValidated
// once it is known to be a usable identifier. Handlers and the idempotency
// key read only the validated value.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextUserID)
		if !exists {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		userID, ok := normalizeUserID(raw)
		if !ok {
			abortWith(c, ErrInvalidToken)
			return
		}

		c.Set(ContextUserIDValidated, userID)
		c.Next()
	}
}

func normalizeUserID(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxUserIDLength {
		return "", false
	}
	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return "", false
	}
	return s, true
}
