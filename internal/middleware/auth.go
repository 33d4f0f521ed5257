package middleware

import (
	"errors"
	"fmt"
	"strings"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ContextUserID          = "user_id"
	ContextUserIDValidated = "user_id_validated"
	ContextRole            = "role"
)

// AuthMiddleware resolves the caller from an HMAC-signed JWT carried in the
// Authorization header or the access_token cookie.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return key, nil
		})

		if err != nil || !token.Valid {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || strings.TrimSpace(userID) == "" {
			abortWith(c, ErrInvalidToken)
			return
		}

		role, _ := claims["role"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Request = c.Request.WithContext(contextutil.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// ResolveCaller returns the authenticated user id or an unauthorized error.
func ResolveCaller(c *gin.Context) (string, error) {
	if uid := c.GetString(ContextUserIDValidated); uid != "" {
		return uid, nil
	}
	if uid := c.GetString(ContextUserID); uid != "" {
		return uid, nil
	}
	return "", apperror.ErrUnauthorized
}

// Authenticated is the chain every protected group installs.
func Authenticated(secret string, logger *zap.Logger) gin.HandlersChain {
	return gin.HandlersChain{
		AuthMiddleware(secret),
		ExtractUserID(),
		ContextLogger(logger),
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Abort(c, err.HTTPStatus, err.Code, err.Message)
}
