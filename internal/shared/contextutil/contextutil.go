// Package contextutil carries request metadata and the request-scoped logger
// across layers.
package contextutil

import (
	"context"

	"go.uber.org/zap"
)

type metadataKey struct{}

type loggerKey struct{}

// Metadata identifies the request a unit of work belongs to. It travels from
// the HTTP edge into outbox rows and back out through kafka headers.
type Metadata struct {
	RequestID string
	UserID    string
}

// Fields returns the non-empty metadata as zap fields.
func (m Metadata) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if m.RequestID != "" {
		fields = append(fields, zap.String("request_id", m.RequestID))
	}
	if m.UserID != "" {
		fields = append(fields, zap.String("user_id", m.UserID))
	}
	return fields
}

func WithMetadata(ctx context.Context, md Metadata) context.Context {
	return context.WithValue(ctx, metadataKey{}, md)
}

func ExtractMetadata(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	md, _ := ctx.Value(metadataKey{}).(Metadata)
	return md
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	md := ExtractMetadata(ctx)
	md.RequestID = rid
	return WithMetadata(ctx, md)
}

func GetRequestID(ctx context.Context) string {
	return ExtractMetadata(ctx).RequestID
}

func WithUserID(ctx context.Context, uid string) context.Context {
	md := ExtractMetadata(ctx)
	md.UserID = uid
	return WithMetadata(ctx, md)
}

func GetUserID(ctx context.Context) string {
	return ExtractMetadata(ctx).UserID
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the request-scoped logger, then fallback, then a no-op
// logger. It never returns nil.
func GetLogger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}
