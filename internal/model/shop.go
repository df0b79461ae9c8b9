package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 店铺状态
const (
	ShopStatusPending      = "pending"
	ShopStatusApproved     = "approved"
	ShopStatusRejected     = "rejected"
	ShopStatusModification = "modification"
)

// ShopStatuses 管理后台分组展示的顺序
var ShopStatuses = []string{
	ShopStatusPending,
	ShopStatusApproved,
	ShopStatusRejected,
	ShopStatusModification,
}

type Shop struct {
	ID                  int             `json:"id"`
	OwnerID             int             `json:"owner_id"`
	Name                string          `json:"name"`
	Slug                string          `json:"slug"`
	City                string          `json:"city"`
	State               string          `json:"state"`
	Country             string          `json:"country"`
	Address             string          `json:"address"`
	ZipCode             string          `json:"zip_code"`
	Phone               string          `json:"phone"`
	Email               string          `json:"email"`
	Description         string          `json:"description"`
	LogoURL             string          `json:"logo_url"`
	BannerURL           string          `json:"banner_url"`
	Status              string          `json:"status"`
	ApprovalDate        *time.Time      `json:"approval_date,omitempty"`
	ApprovedBy          string          `json:"approved_by"`
	CommissionRate      decimal.Decimal `json:"commission_rate"`
	MinimumPayoutAmount decimal.Decimal `json:"minimum_payout_amount"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ShopDocument 店铺资质文件
type ShopDocument struct {
	ID         int       `json:"id"`
	ShopID     int       `json:"shop_id"`
	DocType    string    `json:"doc_type"`
	Number     string    `json:"number"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ShopAttachment 店铺附件
type ShopAttachment struct {
	ID         int       `json:"id"`
	ShopID     int       `json:"shop_id"`
	Name       string    `json:"name"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}
