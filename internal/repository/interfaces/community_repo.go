package interfaces

import (
	"context"
	"marketplace-backend/internal/model"
)

type ReportRepository interface {
	FindAll(ctx context.Context) ([]*model.Report, error)
}

type SupportRepository interface {
	Create(ctx context.Context, ticket *model.SupportTicket) error
	FindAll(ctx context.Context) ([]*model.SupportTicket, error)
	FindByUser(ctx context.Context, userID int) ([]*model.SupportTicket, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *model.SellerMessage) error
	FindAll(ctx context.Context) ([]*model.SellerMessage, error)
	// FindByParticipant 用户发出或收到的消息
	FindByParticipant(ctx context.Context, userID int) ([]*model.SellerMessage, error)
}
