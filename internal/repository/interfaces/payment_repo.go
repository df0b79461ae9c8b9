package interfaces

import (
	"context"
	"marketplace-backend/internal/model"
	"time"
)

type PaymentRepository interface {
	FindAllPayments(ctx context.Context) ([]*model.Payment, error)

	CreatePayout(ctx context.Context, payout *model.Payout) error
	FindPayoutByID(ctx context.Context, id int) (*model.Payout, error)
	FindPayoutBySeller(ctx context.Context, id, sellerID int) (*model.Payout, error)
	FindAllPayouts(ctx context.Context) ([]*model.Payout, error)
	FindPayoutsBySeller(ctx context.Context, sellerID int) ([]*model.Payout, error)
	// TransitionPayout 条件更新：仅当状态属于 from（且 sellerID>0 时属于该卖家）才写入 to。
	// 返回是否有记录被更新。
	TransitionPayout(ctx context.Context, id, sellerID int, from []string, to string, processedAt time.Time) (bool, error)
}
