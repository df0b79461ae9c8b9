package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 订单状态
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Order 订单模型
type Order struct {
	ID             int             `json:"id"`
	OrderNumber    string          `json:"order_number"`
	CustomerID     int             `json:"customer_id"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Currency       string          `json:"currency"`
	OrderDate      time.Time       `json:"order_date"`
	ShippedDate    *time.Time      `json:"shipped_date,omitempty"`
	DeliveredDate  *time.Time      `json:"delivered_date,omitempty"`
	CancelledDate  *time.Time      `json:"cancelled_date,omitempty"`
	Notes          string          `json:"notes"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Customer *User                 `json:"-"`
	Items    []*OrderItem          `json:"-"`
	History  []*OrderStatusHistory `json:"-"`
}

// OrderItem 订单项，商品/店铺只是引用，订单不拥有其生命周期
type OrderItem struct {
	ID               int             `json:"id"`
	OrderID          int             `json:"order_id"`
	ProductID        int             `json:"product_id"`
	VariantID        *int            `json:"variant_id,omitempty"`
	ShopID           int             `json:"shop_id"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`

	// 关联的商品/店铺可能已不存在
	ProductName *string `json:"-"`
	ShopName    *string `json:"-"`
}

// OrderStatusHistory 订单状态变更记录
type OrderStatusHistory struct {
	ID        int       `json:"id"`
	OrderID   int       `json:"order_id"`
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
	Notes     string    `json:"notes"`
}
