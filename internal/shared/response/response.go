package response

import (
	"github.com/gin-gonic/gin"
)

type PaginationMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

// NewPaginationMeta derives the page count; a zero page size yields zero pages.
func NewPaginationMeta(total int64, page, pageSize int) PaginationMeta {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginationMeta{Total: total, TotalPages: pages, Page: page, PageSize: pageSize}
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the body of every API response.
type Envelope struct {
	Ok    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Meta  *PaginationMeta `json:"meta,omitempty"`
	Error *ErrorBody      `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data any, meta *PaginationMeta) {
	c.JSON(status, Envelope{Ok: true, Data: data, Meta: meta})
}

// Paginated writes a page of items. A nil slice is rendered as [] so
// clients can always iterate data.
func Paginated[T any](c *gin.Context, status int, items []T, total int64, page, pageSize int) {
	if items == nil {
		items = []T{}
	}
	meta := NewPaginationMeta(total, page, pageSize)
	Success(c, status, items, &meta)
}

func Error(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, Envelope{
		Ok:    false,
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, status int, code, message string) {
	Error(c, status, code, message, nil)
	c.Abort()
}
