package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	User *User `json:"-"`
}

// 提现方式
const (
	PayoutMethodBank   = "BANK"
	PayoutMethodMobile = "MOBILE"
	PayoutMethodCard   = "CARD"
)

// 提现状态
const (
	PayoutStatusPending   = "Pending"
	PayoutStatusApproved  = "Approved"
	PayoutStatusRejected  = "Rejected"
	PayoutStatusCancelled = "Cancelled"
	PayoutStatusPaid      = "Paid"
)

// Payout 卖家提现申请，收款信息按 Method 选择性填写
type Payout struct {
	ID       int             `json:"id"`
	SellerID int             `json:"seller_id"`
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method"`

	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number"`
	HolderName    string `json:"holder_name"`

	MobileProvider     string `json:"mobile_provider"`
	MobileWalletNumber string `json:"mobile_wallet_number"`

	CardBrand string `json:"card_brand"`
	CardLast4 string `json:"card_last4"`

	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	Seller *User `json:"-"`
}
