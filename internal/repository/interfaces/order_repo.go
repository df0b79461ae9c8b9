package interfaces

import (
	"context"
	"marketplace-backend/internal/model"
)

type OrderRepository interface {
	FindAll(ctx context.Context) ([]*model.Order, error)
	FindByCustomer(ctx context.Context, customerID int) ([]*model.Order, error)
	FindByID(ctx context.Context, id int) (*model.Order, error)
	// UpdateStatus 写入状态并追加状态历史。
	// sources 非空时只有当前状态在 sources 中才更新；返回是否有记录被更新。
	UpdateStatus(ctx context.Context, id int, status string, sources []string, changedBy string) (bool, error)
}
