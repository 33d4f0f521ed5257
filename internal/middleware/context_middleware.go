package middleware

import (
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a logger tagged with request and user ids to the
// request context, so services pick it up through contextutil.GetLogger.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}

	return func(c *gin.Context) {
		rid := c.GetString(ContextRequestID)
		if rid == "" {
			rid = uuid.NewString()
			c.Header(HeaderRequestID, rid)
		}

		md := contextutil.Metadata{
			RequestID: rid,
			UserID:    c.GetString(ContextUserIDValidated),
		}

		ctx := contextutil.WithMetadata(c.Request.Context(), md)
		ctx = contextutil.WithLogger(ctx, logger.With(md.Fields()...))

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
