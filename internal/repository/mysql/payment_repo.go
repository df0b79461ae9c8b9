package mysql

import (
	"context"
	"database/sql"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db}
}

func (r *PaymentRepository) FindAllPayments(ctx context.Context) ([]*model.Payment, error) {
	query := `SELECT p.id, p.user_id, p.amount, p.status, p.created_at, p.updated_at, ` + userColumns + `
		FROM payments p
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		util.Logger.Error("查询支付记录失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var (
			p                model.Payment
			uid              *int
			username, fn, ln *string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&uid, &username, &fn, &ln); err != nil {
			return nil, err
		}
		p.User = optionalUser(uid, username, fn, ln)
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

const payoutSelect = `SELECT p.id, p.seller_id, p.amount, p.method,
		p.bank_name, p.account_number, p.routing_number, p.holder_name,
		p.mobile_provider, p.mobile_wallet_number, p.card_brand, p.card_last4,
		p.status, p.requested_at, p.processed_at, ` + userColumns + `
	FROM payouts p
	LEFT JOIN users u ON u.id = p.seller_id`

func scanPayout(row scanner) (*model.Payout, error) {
	var (
		p                model.Payout
		uid              *int
		username, fn, ln *string
	)
	err := row.Scan(&p.ID, &p.SellerID, &p.Amount, &p.Method,
		&p.BankName, &p.AccountNumber, &p.RoutingNumber, &p.HolderName,
		&p.MobileProvider, &p.MobileWalletNumber, &p.CardBrand, &p.CardLast4,
		&p.Status, &p.RequestedAt, &p.ProcessedAt,
		&uid, &username, &fn, &ln)
	if err != nil {
		return nil, err
	}
	p.Seller = optionalUser(uid, username, fn, ln)
	return &p, nil
}

// CreatePayout 创建提现申请
func (r *PaymentRepository) CreatePayout(ctx context.Context, payout *model.Payout) error {
	util.Logger.Info("开始创建提现申请",
		zap.Int("seller_id", payout.SellerID),
		zap.String("amount", payout.Amount.String()),
		zap.String("method", payout.Method),
		zap.String("status", payout.Status))

	payout.RequestedAt = time.Now()

	query := `INSERT INTO payouts (seller_id, amount, method,
			bank_name, account_number, routing_number, holder_name,
			mobile_provider, mobile_wallet_number, card_brand, card_last4,
			status, requested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		payout.SellerID, payout.Amount, payout.Method,
		payout.BankName, payout.AccountNumber, payout.RoutingNumber, payout.HolderName,
		payout.MobileProvider, payout.MobileWalletNumber, payout.CardBrand, payout.CardLast4,
		payout.Status, payout.RequestedAt)
	if err != nil {
		util.Logger.Error("创建提现申请失败", zap.Error(err), zap.Int("seller_id", payout.SellerID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取提现申请ID失败", zap.Error(err))
		return err
	}
	payout.ID = int(id)
	util.Logger.Info("提现申请创建成功", zap.Int("payout_id", payout.ID))
	return nil
}

func (r *PaymentRepository) FindPayoutByID(ctx context.Context, id int) (*model.Payout, error) {
	payout, err := scanPayout(r.db.QueryRowContext(ctx, payoutSelect+" WHERE p.id = ?", id))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询提现申请失败", zap.Error(err), zap.Int("payout_id", id))
		return nil, err
	}
	return payout, nil
}

// FindPayoutBySeller 按卖家归属查找，别人的申请与不存在一样返回 nil
func (r *PaymentRepository) FindPayoutBySeller(ctx context.Context, id, sellerID int) (*model.Payout, error) {
	payout, err := scanPayout(r.db.QueryRowContext(ctx, payoutSelect+" WHERE p.id = ? AND p.seller_id = ?", id, sellerID))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("按卖家查询提现申请失败", zap.Error(err), zap.Int("payout_id", id), zap.Int("seller_id", sellerID))
		return nil, err
	}
	return payout, nil
}

func (r *PaymentRepository) FindAllPayouts(ctx context.Context) ([]*model.Payout, error) {
	return r.queryPayouts(ctx, payoutSelect+" ORDER BY p.requested_at DESC")
}

func (r *PaymentRepository) FindPayoutsBySeller(ctx context.Context, sellerID int) ([]*model.Payout, error) {
	return r.queryPayouts(ctx, payoutSelect+" WHERE p.seller_id = ? ORDER BY p.requested_at DESC", sellerID)
}

func (r *PaymentRepository) queryPayouts(ctx context.Context, query string, args ...interface{}) ([]*model.Payout, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("查询提现列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payouts []*model.Payout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}

// TransitionPayout 单条条件 UPDATE 完成检查和写入，并发请求只有一个能成功
func (r *PaymentRepository) TransitionPayout(ctx context.Context, id, sellerID int, from []string, to string, processedAt time.Time) (bool, error) {
	util.Logger.Info("提现状态流转",
		zap.Int("payout_id", id),
		zap.Int("seller_id", sellerID),
		zap.Strings("from", from),
		zap.String("to", to))

	if len(from) == 0 {
		return false, nil
	}

	query := "UPDATE payouts SET status = ?, processed_at = ? WHERE id = ?"
	args := []interface{}{to, processedAt, id}
	if sellerID > 0 {
		query += " AND seller_id = ?"
		args = append(args, sellerID)
	}
	query += " AND status IN (" + placeholders(len(from)) + ")"
	args = append(args, stringArgs(from)...)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("更新提现状态失败", zap.Error(err), zap.Int("payout_id", id))
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
