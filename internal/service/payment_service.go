package service

import (
	"context"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/lifecycle"
	"marketplace-backend/internal/metrics"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/repository/interfaces"
	"marketplace-backend/internal/util"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService 支付记录和卖家提现
type PaymentService struct {
	paymentRepo interfaces.PaymentRepository
	now         func() time.Time
}

// NewPaymentService 创建一个新的 PaymentService 实例
func NewPaymentService(paymentRepo interfaces.PaymentRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// CreatePayoutInput 卖家提交的提现申请，收款信息只保留所选方式对应的字段
type CreatePayoutInput struct {
	Amount decimal.Decimal
	Method string

	BankName      string
	AccountNumber string
	RoutingNumber string
	HolderName    string

	MobileProvider     string
	MobileWalletNumber string

	CardBrand string
	CardLast4 string
}

var payoutNotFound = policy.NotFound(errors.ErrPayoutNotFound, "Not found")

// ListPayments 管理员看到全部；匿名或普通用户得到空列表而不是错误
func (s *PaymentService) ListPayments(ctx context.Context, p *policy.Principal) ([]*model.Payment, error) {
	if !policy.CanListAll(p) {
		return []*model.Payment{}, nil
	}
	payments, err := s.paymentRepo.FindAllPayments(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取支付记录失败", err)
	}
	return payments, nil
}

// ListPayouts 同 ListPayments
func (s *PaymentService) ListPayouts(ctx context.Context, p *policy.Principal) ([]*model.Payout, error) {
	if !policy.CanListAll(p) {
		return []*model.Payout{}, nil
	}
	payouts, err := s.paymentRepo.FindAllPayouts(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取提现列表失败", err)
	}
	return payouts, nil
}

// MyPayouts 当前卖家的提现申请
func (s *PaymentService) MyPayouts(ctx context.Context, p *policy.Principal) ([]*model.Payout, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	payouts, err := s.paymentRepo.FindPayoutsBySeller(ctx, p.UserID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取提现列表失败", err)
	}
	return payouts, nil
}

// CreatePayout 创建提现申请，状态总是 Pending
func (s *PaymentService) CreatePayout(ctx context.Context, p *policy.Principal, in CreatePayoutInput) (*model.Payout, error) {
	if err := policy.RequireSeller(p); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, errors.New(errors.ErrValidation, "amount must be greater than zero")
	}

	payout := &model.Payout{
		SellerID: p.UserID,
		Amount:   in.Amount,
		Method:   in.Method,
		Status:   model.PayoutStatusPending,
	}
	switch in.Method {
	case model.PayoutMethodBank:
		payout.BankName = in.BankName
		payout.AccountNumber = in.AccountNumber
		payout.RoutingNumber = in.RoutingNumber
		payout.HolderName = in.HolderName
	case model.PayoutMethodMobile:
		payout.MobileProvider = in.MobileProvider
		payout.MobileWalletNumber = in.MobileWalletNumber
	case model.PayoutMethodCard:
		payout.CardBrand = in.CardBrand
		payout.CardLast4 = in.CardLast4
	default:
		return nil, errors.New(errors.ErrValidation, "method must be one of BANK, MOBILE, CARD")
	}

	if err := s.paymentRepo.CreatePayout(ctx, payout); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建提现申请失败", err)
	}

	// 重新读取以带上卖家信息
	created, err := s.paymentRepo.FindPayoutByID(ctx, payout.ID)
	if err != nil || created == nil {
		util.Logger.Warn("读取新建提现申请失败，返回提交的数据", zap.Int("payout_id", payout.ID), zap.Error(err))
		return payout, nil
	}
	return created, nil
}

// ApprovePayout 管理员审批通过
func (s *PaymentService) ApprovePayout(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error) {
	if err := policy.RequireStaff(p); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, 0, lifecycle.PayoutApprove)
}

// RejectPayout 管理员驳回
func (s *PaymentService) RejectPayout(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error) {
	if err := policy.RequireStaff(p); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, 0, lifecycle.PayoutReject)
}

// CancelMyPayout 卖家撤回自己的待审核申请，别人的申请按不存在处理
func (s *PaymentService) CancelMyPayout(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, p.UserID, lifecycle.PayoutCancel)
}

// ConfirmMyPayout 卖家确认收款，Approved -> Paid
func (s *PaymentService) ConfirmMyPayout(ctx context.Context, p *policy.Principal, id int) (*model.Payout, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, p.UserID, lifecycle.PayoutConfirm)
}

// transition 先按状态表判定，再用条件更新写入。
// sellerID > 0 时只在该卖家的申请中查找。
// 条件更新没有命中时按最新状态重新判定并重试一次。
func (s *PaymentService) transition(ctx context.Context, id, sellerID int, action lifecycle.PayoutAction) (*model.Payout, error) {
	payout, err := s.findPayout(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		next, err := lifecycle.NextPayoutStatus(payout.Status, action)
		if err != nil {
			util.Logger.Info("提现状态流转被拒绝",
				zap.Int("payout_id", id),
				zap.String("status", payout.Status),
				zap.String("action", string(action)))
			metrics.RecordTransition("payout", string(action), metrics.ResultRejected)
			return nil, err
		}

		now := s.now()
		ok, err := s.paymentRepo.TransitionPayout(ctx, id, sellerID, lifecycle.PayoutSources(action), next, now)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "更新提现状态失败", err)
		}
		if ok {
			metrics.RecordTransition("payout", string(action), metrics.ResultApplied)
			util.Logger.Info("提现状态已更新",
				zap.Int("payout_id", id),
				zap.String("from", payout.Status),
				zap.String("to", next))

			payout.Status = next
			payout.ProcessedAt = &now
			return payout, nil
		}

		// 读取之后被并发请求改掉了
		metrics.RecordTransition("payout", string(action), metrics.ResultConflict)
		if attempt > 0 {
			util.Logger.Warn("提现状态重试后仍然冲突", zap.Int("payout_id", id), zap.String("action", string(action)))
			return nil, errors.New(errors.ErrResourceConflict, "Payout was modified concurrently, please retry")
		}
		if payout, err = s.findPayout(ctx, id, sellerID); err != nil {
			return nil, err
		}
	}
}

func (s *PaymentService) findPayout(ctx context.Context, id, sellerID int) (*model.Payout, error) {
	var (
		payout *model.Payout
		err    error
	)
	if sellerID > 0 {
		payout, err = s.paymentRepo.FindPayoutBySeller(ctx, id, sellerID)
	} else {
		payout, err = s.paymentRepo.FindPayoutByID(ctx, id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询提现申请失败", err)
	}
	if payout == nil {
		return nil, payoutNotFound()
	}
	return payout, nil
}
