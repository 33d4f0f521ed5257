package leave

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go-leave/internal/domain"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     redis.Cmdable
	logger  *zap.Logger
}

func NewHandler(service Service, rdb redis.Cmdable, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	log := contextutil.GetLogger(c.Request.Context(), h.logger)
	if httpErr.Status >= http.StatusInternalServerError {
		log.Error("leave request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	} else {
		log.Warn("leave request rejected",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
			zap.String("message", httpErr.Message),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// caller writes the error response itself when no identity is present.
func (h *Handler) caller(c *gin.Context) (string, bool) {
	actorID, err := middleware.ResolveCaller(c)
	if err != nil {
		h.writeServiceError(c, err)
		return "", false
	}
	return actorID, true
}

func (h *Handler) Submit(c *gin.Context) {
	defer middleware.ReleaseIdempotencyLock(c, h.rdb)

	actorID, ok := h.caller(c)
	if !ok {
		return
	}

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	middleware.RememberResponse(c, h.rdb, http.StatusCreated, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	actorID, ok := h.caller(c)
	if !ok {
		return
	}

	var req EditLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Edit(c.Request.Context(), actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actorID, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *Handler) Reverse(c *gin.Context) {
	h.decide(c, h.service.Reverse)
}

type decisionFunc func(ctx context.Context, actorID, id, comment string) (LeaveResponse, error)

func (h *Handler) decide(c *gin.Context, fn decisionFunc) {
	actorID, ok := h.caller(c)
	if !ok {
		return
	}

	// The body is optional; an empty one, chunked or not, means no comment.
	var req DecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := fn(c.Request.Context(), actorID, c.Param("id"), req.Comment)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	actorID, ok := h.caller(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	h.list(c, h.service.List)
}

func (h *Handler) ListApprovals(c *gin.Context) {
	h.list(c, h.service.ListPendingApprovals)
}

type listFunc func(ctx context.Context, actorID string, q ListLeavesQuery) (ListResult, error)

func (h *Handler) list(c *gin.Context, fn listFunc) {
	actorID, ok := h.caller(c)
	if !ok {
		return
	}

	var q ListLeavesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	result, err := fn(c.Request.Context(), actorID, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, result.Items, result.Total, result.Page, result.PageSize)
}

func (h *Handler) GetApprovalStats(c *gin.Context) {
	actorID, ok := h.caller(c)
	if !ok {
		return
	}

	resp, err := h.service.GetApprovalStats(c.Request.Context(), actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListLeaveTypes(c *gin.Context) {
	types := domain.AllLeaveTypes()
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = LeaveTypeResponse{Value: string(lt), Label: lt.DisplayName()}
	}
	response.Success(c, http.StatusOK, resp, nil)
}
