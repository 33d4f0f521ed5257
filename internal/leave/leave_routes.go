package leave

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Mutating routes share a per-user budget of 5 requests per second with a
// burst of 10.
const (
	mutationRate  = rate.Limit(5)
	mutationBurst = 10
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb redis.Cmdable,
	auth gin.HandlersChain,
) {
	limit := middleware.RateLimitByUser(mutationRate, mutationBurst)

	leaves := r.Group("/leaves")
	leaves.Use(auth...)
	{
		leaves.GET("", handler.List)
		leaves.GET("/approvals", handler.ListApprovals)
		leaves.GET("/approvals/stats", handler.GetApprovalStats)
		leaves.GET("/:id", handler.GetByID)

		submit := []gin.HandlerFunc{limit}
		if rdb != nil {
			submit = append(submit, middleware.Idempotency(rdb))
		}
		submit = append(submit, handler.Submit)
		leaves.POST("", submit...)

		leaves.PUT("/:id", limit, handler.Edit)
		leaves.DELETE("/:id", limit, handler.Delete)
		leaves.PUT("/:id/approve", limit, handler.Approve)
		leaves.PUT("/:id/reject", limit, handler.Reject)
		leaves.POST("/:id/reversal",
			limit,
			middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionReverse),
			handler.Reverse,
		)
	}

	leaveTypes := r.Group("/leave-types")
	leaveTypes.Use(auth...)
	{
		leaveTypes.GET("", handler.ListLeaveTypes)
	}
}
