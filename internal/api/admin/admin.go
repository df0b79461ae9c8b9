package admin

import (
	"context"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsService interface {
	GetSystemStats(ctx context.Context, p *policy.Principal) (*service.SystemStats, error)
}

// ErrorCounter 按错误码累计的错误次数
type ErrorCounter interface {
	GetErrorCounts() map[errors.ErrorCode]int
}

// AdminHandler 管理后台的统计接口
type AdminHandler struct {
	statsService StatsService
	errorCounter ErrorCounter
}

// NewAdminHandler 创建一个新的 AdminHandler 实例
func NewAdminHandler(statsService StatsService, errorCounter ErrorCounter) *AdminHandler {
	return &AdminHandler{statsService, errorCounter}
}

func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":           stats.TotalUsers,
		"total_sellers":         stats.TotalSellers,
		"pending_sellers":       stats.PendingSellers,
		"shops_by_status":       stats.ShopsByStatus,
		"products_by_status":    stats.ProductsByStatus,
		"payouts_by_status":     stats.PayoutsByStatus,
		"pending_payout_amount": stats.PendingPayoutAmount.StringFixed(2),
		"total_payment_amount":  stats.TotalPaymentAmount.StringFixed(2),
	})
}

// GetErrorStats 进程启动以来各错误码的次数
func (h *AdminHandler) GetErrorStats(c *gin.Context) {
	counts := h.errorCounter.GetErrorCounts()

	total := 0
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"counts": counts,
	})
}
