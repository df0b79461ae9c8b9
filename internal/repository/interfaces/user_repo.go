package interfaces

import (
	"context"
	"marketplace-backend/internal/model"
)

// UserRepository 找不到记录时返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	FindSellers(ctx context.Context) ([]*model.User, error)
	SetActive(ctx context.Context, id int, active bool) error
	UpdateLastLogin(ctx context.Context, id int) error
}
