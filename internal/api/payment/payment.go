package payment

import (
	"context"
	"marketplace-backend/internal/api"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/presenter"
	"marketplace-backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentService 支付和提现接口依赖的业务方法
type PaymentService interface {
	ListPayments(ctx context.Context, p *policy.Principal) ([]*model.Payment, error)
	ListPayouts(ctx context.Context, p *policy.Principal) ([]*model.Payout, error)
	MyPayouts(ctx context.Context, p *policy.Principal) ([]*model.Payout, error)
	CreatePayout(ctx context.Context, p *policy.Principal, in service.CreatePayoutInput) (*model.Payout, error)
	ApprovePayout(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error)
	RejectPayout(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error)
	CancelMyPayout(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error)
	ConfirmMyPayout(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error)
}

type PaymentHandler struct {
	paymentService PaymentService
}

func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// createPayoutRequest 只校验格式，业务规则在 service 中判断
type createPayoutRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Method string           `json:"method" binding:"required,payout_method"`

	BankName      string `json:"bank_name" binding:"max=100"`
	AccountNumber string `json:"account_number" binding:"max=64"`
	RoutingNumber string `json:"routing_number" binding:"max=64"`
	HolderName    string `json:"holder_name" binding:"max=100"`

	MobileProvider     string `json:"mobile_provider" binding:"max=50"`
	MobileWalletNumber string `json:"mobile_wallet_number" binding:"max=64"`

	CardBrand string `json:"card_brand" binding:"max=20"`
	CardLast4 string `json:"card_last4" binding:"card_last4"`
}

// ListPayments 管理员看到全部，其他人得到空列表
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": presenter.Payments(payments)})
}

func (h *PaymentHandler) ListPayouts(c *gin.Context) {
	payouts, err := h.paymentService.ListPayouts(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": presenter.Payouts(payouts)})
}

func (h *PaymentHandler) MyPayouts(c *gin.Context) {
	payouts, err := h.paymentService.MyPayouts(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": presenter.Payouts(payouts)})
}

func (h *PaymentHandler) CreatePayout(c *gin.Context) {
	var req createPayoutRequest
	if err := api.BindJSON(c, &req); err != nil {
		errors.HandleError(c, err)
		return
	}

	payout, err := h.paymentService.CreatePayout(c.Request.Context(), middleware.CurrentPrincipal(c), service.CreatePayoutInput{
		Amount:             *req.Amount,
		Method:             req.Method,
		BankName:           req.BankName,
		AccountNumber:      req.AccountNumber,
		RoutingNumber:      req.RoutingNumber,
		HolderName:         req.HolderName,
		MobileProvider:     req.MobileProvider,
		MobileWalletNumber: req.MobileWalletNumber,
		CardBrand:          req.CardBrand,
		CardLast4:          req.CardLast4,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenter.Payout(payout))
}

func (h *PaymentHandler) ApprovePayout(c *gin.Context) {
	h.transition(c, h.paymentService.ApprovePayout)
}

func (h *PaymentHandler) RejectPayout(c *gin.Context) {
	h.transition(c, h.paymentService.RejectPayout)
}

func (h *PaymentHandler) CancelMyPayout(c *gin.Context) {
	h.transition(c, h.paymentService.CancelMyPayout)
}

func (h *PaymentHandler) ConfirmMyPayout(c *gin.Context) {
	h.transition(c, h.paymentService.ConfirmMyPayout)
}

type payoutAction func(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error)

// transition 成功时返回更新后的提现申请
func (h *PaymentHandler) transition(c *gin.Context, action payoutAction) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	payout, err := action(c.Request.Context(), middleware.CurrentPrincipal(c), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.Payout(payout))
}
