package service

import (
	"context"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/lifecycle"
	"marketplace-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_UpdateStatus_Permissive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, lifecycle.NewOrderPolicy(nil, false))

	// 默认不校验流转，已发货的订单也可以改回 pending
	repo.On("FindByID", ctx, 8).Return(&model.Order{ID: 8, Status: model.OrderStatusShipped}, nil)
	repo.On("UpdateStatus", ctx, 8, model.OrderStatusPending, []string(nil), "admin").Return(true, nil)

	err := svc.UpdateStatus(ctx, staff, 8, model.OrderStatusPending)
	require.NoError(t, err)

	// 任意非空状态
	repo.On("UpdateStatus", ctx, 8, "on_hold", []string(nil), "admin").Return(true, nil)
	require.NoError(t, svc.UpdateStatus(ctx, staff, 8, "on_hold"))
	repo.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		id       int
		status   string
		setup    func(repo *MockOrderRepository)
		wantCode errors.ErrorCode
	}{
		{
			name:     "缺少状态",
			id:       8,
			status:   "",
			wantCode: errors.ErrValidation,
		},
		{
			name:     "缺少ID",
			id:       0,
			status:   model.OrderStatusShipped,
			wantCode: errors.ErrValidation,
		},
		{
			name:   "订单不存在",
			id:     99,
			status: model.OrderStatusShipped,
			setup: func(repo *MockOrderRepository) {
				repo.On("FindByID", ctx, 99).Return(nil, nil)
			},
			wantCode: errors.ErrOrderNotFound,
		},
		{
			name:   "更新时订单已被删除",
			id:     8,
			status: model.OrderStatusShipped,
			setup: func(repo *MockOrderRepository) {
				repo.On("FindByID", ctx, 8).Return(&model.Order{ID: 8, Status: model.OrderStatusPending}, nil)
				repo.On("UpdateStatus", ctx, 8, model.OrderStatusShipped, []string(nil), "admin").Return(false, nil)
			},
			wantCode: errors.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			if tt.setup != nil {
				tt.setup(repo)
			}
			svc := NewOrderService(repo, lifecycle.NewOrderPolicy(nil, false))
			err := svc.UpdateStatus(ctx, staff, tt.id, tt.status)
			assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestOrderService_UpdateStatus_RequiresStaff(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, lifecycle.NewOrderPolicy(nil, false))

	assert.True(t, errors.Is(svc.UpdateStatus(ctx, nil, 1, "shipped"), errors.ErrUnauthorized))
	assert.True(t, errors.Is(svc.UpdateStatus(ctx, buyer, 1, "shipped"), errors.ErrForbidden))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_Enforced(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, lifecycle.NewOrderPolicy(nil, true))

	repo.On("FindByID", ctx, 8).Return(&model.Order{ID: 8, Status: model.OrderStatusShipped}, nil)

	// shipped -> pending 不在流转表中
	err := svc.UpdateStatus(ctx, staff, 8, model.OrderStatusPending)
	assert.True(t, errors.Is(err, errors.ErrIllegalTransition))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	repo.On("UpdateStatus", ctx, 8, model.OrderStatusDelivered, []string{model.OrderStatusShipped}, "admin").Return(true, nil)
	require.NoError(t, svc.UpdateStatus(ctx, staff, 8, model.OrderStatusDelivered))
}

func TestOrderService_UpdateStatus_Allowlist(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, lifecycle.NewOrderPolicy([]string{"pending", "shipped"}, false))

	err := svc.UpdateStatus(ctx, staff, 8, "on_hold")
	assert.True(t, errors.Is(err, errors.ErrValidation))
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestOrderService_ListAndGet(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := NewOrderService(repo, lifecycle.NewOrderPolicy(nil, false))

	repo.On("FindAll", ctx).Return([]*model.Order{{ID: 1}, {ID: 2}}, nil)
	repo.On("FindByCustomer", ctx, buyer.UserID).Return([]*model.Order{{ID: 2, CustomerID: buyer.UserID}}, nil)

	all, err := svc.ListOrders(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListOrders(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListOrders(ctx, nil)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	// 别人的订单按不存在处理
	repo.On("FindByID", ctx, 5).Return(&model.Order{ID: 5, CustomerID: 100}, nil)
	_, err = svc.GetOrder(ctx, buyer, 5)
	assert.True(t, errors.Is(err, errors.ErrOrderNotFound))

	order, err := svc.GetOrder(ctx, staff, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, order.ID)
}
