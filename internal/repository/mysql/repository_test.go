package mysql

import (
	"context"
	"database/sql"
	"errors"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository/interfaces"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var payoutColumns = []string{"id", "seller_id", "amount", "method",
	"bank_name", "account_number", "routing_number", "holder_name",
	"mobile_provider", "mobile_wallet_number", "card_brand", "card_last4",
	"status", "requested_at", "processed_at",
	"u.id", "u.username", "u.first_name", "u.last_name"}

func TestPaymentRepository_TransitionPayout(t *testing.T) {
	testCases := []struct {
		name     string
		sellerID int
		from     []string
		mock     func(mock sqlmock.Sqlmock)
		want     bool
		wantErr  bool
	}{
		{
			name:     "卖家撤回成功",
			sellerID: 7,
			from:     []string{model.PayoutStatusPending},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE payouts SET status = \?, processed_at = \? WHERE id = \? AND seller_id = \? AND status IN \(\?\)`).
					WithArgs(model.PayoutStatusCancelled, sqlmock.AnyArg(), 3, 7, model.PayoutStatusPending).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			want: true,
		},
		{
			name: "管理员审批不限卖家",
			from: []string{model.PayoutStatusPending, model.PayoutStatusRejected},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE payouts SET status = \?, processed_at = \? WHERE id = \? AND status IN \(\?, \?\)`).
					WithArgs(model.PayoutStatusCancelled, sqlmock.AnyArg(), 3, model.PayoutStatusPending, model.PayoutStatusRejected).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			want: true,
		},
		{
			name:     "状态已变化",
			sellerID: 7,
			from:     []string{model.PayoutStatusPending},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE payouts SET status`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			want: false,
		},
		{
			name: "数据库错误",
			from: []string{model.PayoutStatusPending},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE payouts SET status`).
					WillReturnError(errors.New("数据库错误"))
			},
			wantErr: true,
		},
		{
			name: "没有合法来源状态",
			mock: func(mock sqlmock.Sqlmock) {},
			want: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			tc.mock(mock)

			repo := NewPaymentRepository(db)
			ok, err := repo.TransitionPayout(context.Background(), 3, tc.sellerID, tc.from, model.PayoutStatusCancelled, time.Now())
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPaymentRepository_FindPayoutBySeller(t *testing.T) {
	db, mock := newMock(t)
	requested := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(payoutColumns).
		AddRow(3, 7, "150.00", model.PayoutMethodMobile,
			"", "", "", "",
			"bKash", "01700000000", "", "",
			model.PayoutStatusPending, requested, nil,
			nil, nil, nil, nil)
	mock.ExpectQuery(`FROM payouts p\s+LEFT JOIN users u ON u.id = p.seller_id WHERE p.id = \? AND p.seller_id = \?`).
		WithArgs(3, 7).
		WillReturnRows(rows)

	repo := NewPaymentRepository(db)
	payout, err := repo.FindPayoutBySeller(context.Background(), 3, 7)
	require.NoError(t, err)
	require.NotNil(t, payout)
	assert.True(t, decimal.NewFromInt(150).Equal(payout.Amount))
	assert.Equal(t, "bKash", payout.MobileProvider)
	assert.Nil(t, payout.ProcessedAt)
	// 卖家账号已删除时不应报错
	assert.Nil(t, payout.Seller)
}

func TestPaymentRepository_FindPayoutByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM payouts p`).WithArgs(99).WillReturnError(sql.ErrNoRows)

	payout, err := NewPaymentRepository(db).FindPayoutByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, payout)
}

func TestPaymentRepository_CreatePayout(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO payouts`).
		WillReturnResult(sqlmock.NewResult(12, 1))

	payout := &model.Payout{
		SellerID:  7,
		Amount:    decimal.NewFromInt(80),
		Method:    model.PayoutMethodCard,
		CardBrand: "VISA",
		CardLast4: "4242",
		Status:    model.PayoutStatusPending,
	}
	err := NewPaymentRepository(db).CreatePayout(context.Background(), payout)
	require.NoError(t, err)
	assert.Equal(t, 12, payout.ID)
	assert.False(t, payout.RequestedAt.IsZero())
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	testCases := []struct {
		name    string
		status  string
		sources []string
		mock    func(mock sqlmock.Sqlmock)
		want    bool
	}{
		{
			name:   "写入状态和历史",
			status: model.OrderStatusShipped,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE orders SET status = \?, updated_at = \?, shipped_date = \? WHERE id = \?$`).
					WithArgs(model.OrderStatusShipped, sqlmock.AnyArg(), sqlmock.AnyArg(), 5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO order_status_history`).
					WithArgs(5, model.OrderStatusShipped, "admin", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			want: true,
		},
		{
			name:    "来源状态不匹配",
			status:  model.OrderStatusDelivered,
			sources: []string{model.OrderStatusShipped},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE orders SET .* WHERE id = \? AND status IN \(\?\)`).
					WithArgs(model.OrderStatusDelivered, sqlmock.AnyArg(), sqlmock.AnyArg(), 5, model.OrderStatusShipped).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			want: false,
		},
		{
			name:   "自定义状态不记录日期",
			status: "on-hold",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE orders SET status = \?, updated_at = \? WHERE id = \?$`).
					WithArgs("on-hold", sqlmock.AnyArg(), 5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO order_status_history`).
					WillReturnResult(sqlmock.NewResult(2, 1))
				mock.ExpectCommit()
			},
			want: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			tc.mock(mock)

			ok, err := NewOrderRepository(db).UpdateStatus(context.Background(), 5, tc.status, tc.sources, "admin")
			assert.NoError(t, err)
			assert.Equal(t, tc.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOrderRepository_FindByCustomerLoadsItems(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	orderRows := sqlmock.NewRows([]string{"id", "order_number", "customer_id", "status",
		"subtotal", "tax_amount", "shipping_amount", "discount_amount", "total_amount", "currency",
		"order_date", "shipped_date", "delivered_date", "cancelled_date", "notes", "updated_at",
		"u.id", "u.username", "u.first_name", "u.last_name"}).
		AddRow(1, "ORD-0001", 4, "pending", "10", "0", "0", "0", "10", "USD", now, nil, nil, nil, "", now, 4, "bob", "Bob", "Lee").
		AddRow(2, "ORD-0002", 4, "shipped", "20", "0", "0", "0", "20", "USD", now, now, nil, nil, "", now, 4, "bob", "Bob", "Lee")
	mock.ExpectQuery(`FROM orders o\s+LEFT JOIN users u ON u.id = o.customer_id WHERE o.customer_id = \?`).
		WithArgs(4).
		WillReturnRows(orderRows)

	itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "variant_id", "shop_id", "quantity",
		"unit_price", "total_price", "commission_rate", "commission_amount", "status", "created_at",
		"p.name", "s.name"}).
		AddRow(10, 1, 3, nil, 2, 2, "5", "10", "10", "1", "pending", now, "Scarf", "Knit Co").
		AddRow(11, 2, 9, nil, 2, 1, "20", "20", "10", "2", "pending", now, nil, nil)
	mock.ExpectQuery(`FROM order_items i.* WHERE i.order_id IN \(\?, \?\)`).
		WithArgs(1, 2).
		WillReturnRows(itemRows)

	orders, err := NewOrderRepository(db).FindByCustomer(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Scarf", *orders[0].Items[0].ProductName)
	assert.Nil(t, orders[1].Items[0].ProductName)
	assert.Equal(t, "bob", orders[0].Customer.Username)
	assert.NotNil(t, orders[1].ShippedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByIDWithoutRelations(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "shop_id", "category_id", "name", "description", "price", "status",
		"created_at", "updated_at", "s.name", "c.id", "c.name", "c.slug", "c.description"}).
		AddRow(8, 2, nil, "Hat", "", "12.50", model.ProductStatusPending, now, now, nil, nil, nil, nil, nil)
	mock.ExpectQuery(`FROM products p.* WHERE p.id = \?`).WithArgs(8).WillReturnRows(rows)

	product, err := NewProductRepository(db).FindByID(context.Background(), 8)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Nil(t, product.ShopName)
	assert.Nil(t, product.Category)
	assert.Nil(t, product.CategoryID)
	assert.Equal(t, "12.5", product.Price.String())
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062})

	err := NewUserRepository(db).Create(context.Background(), &model.User{Username: "alice"})
	assert.ErrorIs(t, err, interfaces.ErrDuplicate)
}

func TestShopRepository_UpdateStatusStampsApproval(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`UPDATE shops SET status = \?, approval_date = \?, approved_by = \?, updated_at = \? WHERE id = \?`).
		WithArgs(model.ShopStatusApproved, sqlmock.AnyArg(), "admin", sqlmock.AnyArg(), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE shops SET status = \?, updated_at = \? WHERE id = \?`).
		WithArgs(model.ShopStatusRejected, sqlmock.AnyArg(), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewShopRepository(db)
	require.NoError(t, repo.UpdateStatus(context.Background(), 4, model.ShopStatusApproved, "admin"))
	require.NoError(t, repo.UpdateStatus(context.Background(), 4, model.ShopStatusRejected, "admin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_FindByParticipant(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "message", "created_at",
		"s.id", "s.username", "s.first_name", "s.last_name",
		"r.id", "r.username", "r.first_name", "r.last_name"}).
		AddRow(1, 3, 4, "hi", now, 3, "alice", "Alice", "Smith", nil, nil, nil, nil)
	mock.ExpectQuery(`WHERE m.sender_id = \? OR m.receiver_id = \?`).WithArgs(3, 3).WillReturnRows(rows)

	msgs, err := NewMessageRepository(db).FindByParticipant(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Alice Smith", msgs[0].Sender.FullName())
	assert.Nil(t, msgs[0].Receiver)
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)
	for range statements(schema) {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatements(t *testing.T) {
	stmts := statements("CREATE TABLE a (id INT);\n\n CREATE TABLE b (id INT);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"}, stmts)
}
