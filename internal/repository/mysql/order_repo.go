package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

const orderSelect = `SELECT o.id, o.order_number, o.customer_id, o.status,
		o.subtotal, o.tax_amount, o.shipping_amount, o.discount_amount, o.total_amount, o.currency,
		o.order_date, o.shipped_date, o.delivered_date, o.cancelled_date, COALESCE(o.notes, ''), o.updated_at,
		u.id, u.username, u.first_name, u.last_name
	FROM orders o
	LEFT JOIN users u ON u.id = o.customer_id`

const orderItemSelect = `SELECT i.id, i.order_id, i.product_id, i.variant_id, i.shop_id, i.quantity,
		i.unit_price, i.total_price, i.commission_rate, i.commission_amount, i.status, i.created_at,
		p.name, s.name
	FROM order_items i
	LEFT JOIN products p ON p.id = i.product_id
	LEFT JOIN shops s ON s.id = i.shop_id`

// orderDateColumns 进入这些状态时同时记录对应的时间
var orderDateColumns = map[string]string{
	model.OrderStatusShipped:   "shipped_date",
	model.OrderStatusDelivered: "delivered_date",
	model.OrderStatusCancelled: "cancelled_date",
}

func scanOrder(row scanner) (*model.Order, error) {
	var (
		o                model.Order
		custID           *int
		username, fn, ln *string
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.ShippingAmount, &o.DiscountAmount, &o.TotalAmount, &o.Currency,
		&o.OrderDate, &o.ShippedDate, &o.DeliveredDate, &o.CancelledDate, &o.Notes, &o.UpdatedAt,
		&custID, &username, &fn, &ln)
	if err != nil {
		return nil, err
	}
	o.Customer = optionalUser(custID, username, fn, ln)
	return &o, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*model.Order, error) {
	return r.query(ctx, orderSelect+" ORDER BY o.order_date DESC")
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID int) ([]*model.Order, error) {
	return r.query(ctx, orderSelect+" WHERE o.customer_id = ? ORDER BY o.order_date DESC", customerID)
}

func (r *OrderRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("查询订单列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var (
		orders []*model.Order
		ids    []int
	)
	byID := make(map[int]*model.Order)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
		byID[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.findItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return orders, nil
}

// FindByID 订单详情，包含订单项和状态历史
func (r *OrderRepository) FindByID(ctx context.Context, id int) (*model.Order, error) {
	util.Logger.Info("开始获取订单详情", zap.Int("order_id", id))

	order, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+" WHERE o.id = ?", id))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询订单失败", zap.Error(err), zap.Int("order_id", id))
		return nil, err
	}

	if order.Items, err = r.findItems(ctx, []int{id}); err != nil {
		return nil, err
	}
	if order.History, err = r.findHistory(ctx, id); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) findItems(ctx context.Context, orderIDs []int) ([]*model.OrderItem, error) {
	query := orderItemSelect + " WHERE i.order_id IN (" + placeholders(len(orderIDs)) + ") ORDER BY i.id"
	rows, err := r.db.QueryContext(ctx, query, intArgs(orderIDs)...)
	if err != nil {
		util.Logger.Error("查询订单项失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.ShopID, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice, &it.CommissionRate, &it.CommissionAmount, &it.Status, &it.CreatedAt,
			&it.ProductName, &it.ShopName); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *OrderRepository) findHistory(ctx context.Context, orderID int) ([]*model.OrderStatusHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, status, COALESCE(changed_by, ''), changed_at, COALESCE(notes, '')
		FROM order_status_history WHERE order_id = ? ORDER BY changed_at, id`, orderID)
	if err != nil {
		util.Logger.Error("查询订单状态历史失败", zap.Error(err), zap.Int("order_id", orderID))
		return nil, err
	}
	defer rows.Close()

	var history []*model.OrderStatusHistory
	for rows.Next() {
		var h model.OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.ChangedBy, &h.ChangedAt, &h.Notes); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

// UpdateStatus 在同一事务中更新订单状态并写入状态历史
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status string, sources []string, changedBy string) (bool, error) {
	util.Logger.Info("更新订单状态",
		zap.Int("order_id", id),
		zap.String("status", status),
		zap.Strings("sources", sources),
		zap.String("changed_by", changedBy))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	now := time.Now()
	set := "status = ?, updated_at = ?"
	args := []interface{}{status, now}
	if col, ok := orderDateColumns[status]; ok {
		set += fmt.Sprintf(", %s = ?", col)
		args = append(args, now)
	}
	query := "UPDATE orders SET " + set + " WHERE id = ?"
	args = append(args, id)
	if len(sources) > 0 {
		query += " AND status IN (" + placeholders(len(sources)) + ")"
		args = append(args, stringArgs(sources)...)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("更新订单状态失败", zap.Error(err), zap.Int("order_id", id))
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		util.Logger.Warn("订单状态未更新", zap.Int("order_id", id), zap.String("status", status))
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_status_history (order_id, status, changed_by, changed_at, notification_sent)
		VALUES (?, ?, ?, ?, 0)`,
		id, status, changedBy, now)
	if err != nil {
		util.Logger.Error("写入订单状态历史失败", zap.Error(err), zap.Int("order_id", id))
		return false, err
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return false, err
	}
	return true, nil
}
