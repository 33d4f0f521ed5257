package ledger

import (
	"net/http"

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

// NewHandler builds the balance handler. rdb may be nil, in which case grants
// are not cached for idempotent replay.
func NewHandler(service Service, rdb redis.Cmdable, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("ledger.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	log := contextutil.GetLogger(c.Request.Context(), h.logger)
	if httpErr.Status >= http.StatusInternalServerError {
		log.Error("ledger request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	} else {
		log.Warn("ledger request rejected",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetMyBalance(c *gin.Context) {
	userID, err := middleware.ResolveCaller(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeBalance(c, userID)
}

func (h *Handler) GetUserBalance(c *gin.Context) {
	h.writeBalance(c, c.Param("user_id"))
}

func (h *Handler) writeBalance(c *gin.Context, userID string) {
	resp, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMyEntries(c *gin.Context) {
	userID, err := middleware.ResolveCaller(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ListEntries(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Grant(c *gin.Context) {
	defer middleware.ReleaseIdempotencyLock(c, h.rdb)

	actorID, err := middleware.ResolveCaller(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Grant(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	middleware.RememberResponse(c, h.rdb, http.StatusCreated, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}
