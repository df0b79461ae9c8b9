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

	"go.uber.org/zap"
)

type OrderService struct {
	orderRepo interfaces.OrderRepository
	policy    *lifecycle.OrderPolicy
}

func NewOrderService(orderRepo interfaces.OrderRepository, orderPolicy *lifecycle.OrderPolicy) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		policy:    orderPolicy,
	}
}

var orderNotFound = policy.NotFound(errors.ErrOrderNotFound, "not found")

// ListOrders 管理员看到全部订单，其他用户只看到自己的
func (s *OrderService) ListOrders(ctx context.Context, p *policy.Principal) ([]*model.Order, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	var (
		orders []*model.Order
		err    error
	)
	if p.Staff() {
		orders, err = s.orderRepo.FindAll(ctx)
	} else {
		orders, err = s.orderRepo.FindByCustomer(ctx, p.UserID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取订单列表失败", err)
	}
	return orders, nil
}

// GetOrder 订单详情，仅下单用户本人或管理员可见
func (s *OrderService) GetOrder(ctx context.Context, p *policy.Principal, id int) (*model.Order, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取订单失败", err)
	}
	if order == nil {
		return nil, orderNotFound()
	}
	if err := policy.OwnerOrStaff(p, order.CustomerID, orderNotFound); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus 管理员修改订单状态。
// 默认不校验流转，任何非空状态直接写入；配置白名单或流转校验后才拦截。
func (s *OrderService) UpdateStatus(ctx context.Context, p *policy.Principal, id int, status string) error {
	if err := policy.RequireStaff(p); err != nil {
		return err
	}
	if id <= 0 {
		return errors.New(errors.ErrValidation, "id and status required")
	}
	if err := s.policy.ValidateTarget(status); err != nil {
		return err
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "获取订单失败", err)
	}
	if order == nil {
		return orderNotFound()
	}

	if err := s.policy.Check(order.Status, status); err != nil {
		metrics.RecordTransition("order", "update_status", metrics.ResultRejected)
		return err
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, id, status, s.policy.Sources(status), p.Username)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新订单状态失败", err)
	}
	if !ok {
		metrics.RecordTransition("order", "update_status", metrics.ResultConflict)
		if s.policy.Sources(status) == nil {
			// 无条件更新仍然没有命中，说明订单已不存在
			return orderNotFound()
		}
		return errors.New(errors.ErrIllegalTransition, "Invalid status transition")
	}

	metrics.RecordTransition("order", "update_status", metrics.ResultApplied)
	util.Logger.Info("订单状态已更新",
		zap.Int("order_id", id),
		zap.String("from", order.Status),
		zap.String("to", status),
		zap.String("changed_by", p.Username))
	return nil
}
