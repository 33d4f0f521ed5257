package rbac

import (
	"net/http"
	"strings"

	"go-leave/internal/domain"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Handler{service: service, logger: l.Named("rbac.handler")}
}

func (h *Handler) fail(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		contextutil.GetLogger(c.Request.Context(), h.logger).Error("rbac request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Enforce answers a single permission question. Asking about someone else
// needs leave:read_all.
func (h *Handler) Enforce(c *gin.Context) {
	callerID, err := middleware.ResolveCaller(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req domain.EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperror.MapValidationError(err))
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)
	if req.Resource == "" || req.Action == "" {
		h.fail(c, apperror.New(apperror.CodeValidation, "resource and action are required", http.StatusBadRequest))
		return
	}

	if req.UserID == "" {
		req.UserID = callerID
	}
	if req.UserID != callerID {
		readAll, err := h.service.CanReadAll(c.Request.Context(), callerID)
		if err != nil {
			h.fail(c, err)
			return
		}
		if !readAll {
			h.fail(c, apperror.ErrForbidden)
			return
		}
	}

	allowed, err := h.service.Enforce(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{Allowed: allowed}, nil)
}

// Me reports the leave capabilities of the caller.
func (h *Handler) Me(c *gin.Context) {
	callerID, err := middleware.ResolveCaller(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	approver, err := h.service.IsApprover(ctx, callerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	readAll, err := h.service.CanReadAll(ctx, callerID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, domain.CallerPermissions{
		UserID:   callerID,
		Approver: approver,
		ReadAll:  readAll,
	}, nil)
}
