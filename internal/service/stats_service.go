package service

import (
	"context"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/repository/interfaces"

	"github.com/shopspring/decimal"
)

type StatsService struct {
	userRepo    interfaces.UserRepository
	shopRepo    interfaces.ShopRepository
	productRepo interfaces.ProductRepository
	paymentRepo interfaces.PaymentRepository
}

func NewStatsService(
	userRepo interfaces.UserRepository,
	shopRepo interfaces.ShopRepository,
	productRepo interfaces.ProductRepository,
	paymentRepo interfaces.PaymentRepository,
) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
	}
}

// SystemStats 管理后台首页的汇总数据
type SystemStats struct {
	TotalUsers          int             `json:"total_users"`
	TotalSellers        int             `json:"total_sellers"`
	PendingSellers      int             `json:"pending_sellers"`
	ShopsByStatus       map[string]int  `json:"shops_by_status"`
	ProductsByStatus    map[string]int  `json:"products_by_status"`
	PayoutsByStatus     map[string]int  `json:"payouts_by_status"`
	PendingPayoutAmount decimal.Decimal `json:"pending_payout_amount"`
	TotalPaymentAmount  decimal.Decimal `json:"total_payment_amount"`
}

func (s *StatsService) GetSystemStats(ctx context.Context, p *policy.Principal) (*SystemStats, error) {
	if err := policy.RequireStaff(p); err != nil {
		return nil, err
	}

	stats := &SystemStats{
		ShopsByStatus:    make(map[string]int, len(model.ShopStatuses)),
		ProductsByStatus: make(map[string]int, len(model.ProductStatuses)),
		PayoutsByStatus:  make(map[string]int),
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计用户失败", err)
	}
	stats.TotalUsers = len(users)
	for _, u := range users {
		if !u.IsSeller {
			continue
		}
		stats.TotalSellers++
		if !u.IsActive {
			stats.PendingSellers++
		}
	}

	// 每个状态都输出，数量为 0 也保留
	for _, status := range model.ShopStatuses {
		stats.ShopsByStatus[status] = 0
	}
	shops, err := s.shopRepo.FindByStatus(ctx, "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计店铺失败", err)
	}
	for _, shop := range shops {
		stats.ShopsByStatus[shop.Status]++
	}

	for _, status := range model.ProductStatuses {
		stats.ProductsByStatus[status] = 0
	}
	products, err := s.productRepo.FindByStatus(ctx, "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计商品失败", err)
	}
	for _, product := range products {
		stats.ProductsByStatus[product.Status]++
	}

	payouts, err := s.paymentRepo.FindAllPayouts(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计提现失败", err)
	}
	for _, payout := range payouts {
		stats.PayoutsByStatus[payout.Status]++
		if payout.Status == model.PayoutStatusPending {
			stats.PendingPayoutAmount = stats.PendingPayoutAmount.Add(payout.Amount)
		}
	}

	payments, err := s.paymentRepo.FindAllPayments(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "统计支付失败", err)
	}
	for _, payment := range payments {
		stats.TotalPaymentAmount = stats.TotalPaymentAmount.Add(payment.Amount)
	}

	return stats, nil
}
