package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品审核状态
const (
	ProductStatusPending      = "pending"
	ProductStatusApproved     = "approved"
	ProductStatusRejected     = "rejected"
	ProductStatusFlagged      = "flagged"
	ProductStatusModification = "modification"
)

// ProductStatuses 管理后台分组展示的顺序
var ProductStatuses = []string{
	ProductStatusPending,
	ProductStatusApproved,
	ProductStatusRejected,
	ProductStatusFlagged,
	ProductStatusModification,
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type Product struct {
	ID          int             `json:"id"`
	ShopID      int             `json:"shop_id"`
	CategoryID  *int            `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// 关联数据，可能为空
	ShopName *string   `json:"-"`
	Category *Category `json:"-"`
}
