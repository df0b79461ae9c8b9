package interfaces

import (
	"context"
	"marketplace-backend/internal/model"
)

type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	FindByID(ctx context.Context, id int) (*model.Shop, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID int) (*model.Shop, error)
	// status 为空时返回全部
	FindByStatus(ctx context.Context, status string) ([]*model.Shop, error)
	FindByOwner(ctx context.Context, ownerID int) ([]*model.Shop, error)
	UpdateStatus(ctx context.Context, id int, status, approvedBy string) error
	CreateDocument(ctx context.Context, doc *model.ShopDocument) error
	CreateAttachment(ctx context.Context, att *model.ShopAttachment) error
}
