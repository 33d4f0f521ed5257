package ledger

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb redis.Cmdable,
	auth gin.HandlersChain,
) {
	balances := r.Group("/leave-balances")
	balances.Use(auth...)
	{
		balances.GET("/me", handler.GetMyBalance)
		balances.GET("/me/entries", handler.ListMyEntries)
		balances.GET("/:user_id",
			middleware.RBACAuthorize(rbacService, domain.ResourceLeaveBalance, domain.ActionRead),
			handler.GetUserBalance,
		)

		grant := []gin.HandlerFunc{
			middleware.RBACAuthorize(rbacService, domain.ResourceLeaveBalance, domain.ActionGrant),
		}
		if rdb != nil {
			grant = append(grant, middleware.Idempotency(rdb))
		}
		grant = append(grant, handler.Grant)
		balances.POST("/grants", grant...)
	}
}
