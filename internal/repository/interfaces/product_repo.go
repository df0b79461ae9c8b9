package interfaces

import (
	"context"
	"marketplace-backend/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id int) (*model.Product, error)
	// status 为空时返回全部
	FindByStatus(ctx context.Context, status string) ([]*model.Product, error)
	FindByOwner(ctx context.Context, ownerID int) ([]*model.Product, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	FindCategoryByID(ctx context.Context, id int) (*model.Category, error)
}
