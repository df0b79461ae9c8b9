package presenter

import "marketplace-backend/internal/model"

type CategoryView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type ProductView struct {
	ID          int           `json:"id"`
	ShopID      int           `json:"shop_id"`
	Shop        string        `json:"shop"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       string        `json:"price"`
	Status      string        `json:"status"`
	Category    *CategoryView `json:"category"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

func Product(p *model.Product) ProductView {
	view := ProductView{
		ID:          p.ID,
		ShopID:      p.ShopID,
		Shop:        deref(p.ShopName),
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Status:      p.Status,
		CreatedAt:   timestamp(p.CreatedAt),
		UpdatedAt:   timestamp(p.UpdatedAt),
	}
	if c := p.Category; c != nil {
		view.Category = &CategoryView{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
	}
	return view
}

func Products(products []*model.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, Product(p))
	}
	return views
}

// ProductGroups 按状态分组，保留所有传入的键
func ProductGroups(groups map[string][]*model.Product) map[string][]ProductView {
	out := make(map[string][]ProductView, len(groups))
	for status, products := range groups {
		out[status] = Products(products)
	}
	return out
}

type ShopView struct {
	ID                  int     `json:"id"`
	OwnerID             int     `json:"owner"`
	Name                string  `json:"name"`
	Slug                string  `json:"slug"`
	City                string  `json:"city"`
	State               string  `json:"state"`
	Country             string  `json:"country"`
	Address             string  `json:"address"`
	ZipCode             string  `json:"zip_code"`
	Phone               string  `json:"phone"`
	Email               string  `json:"email"`
	Description         string  `json:"description"`
	LogoURL             string  `json:"logo_url"`
	BannerURL           string  `json:"banner_url"`
	Status              string  `json:"status"`
	ApprovalDate        *string `json:"approval_date"`
	ApprovedBy          string  `json:"approved_by"`
	CommissionRate      string  `json:"commission_rate"`
	MinimumPayoutAmount string  `json:"minimum_payout_amount"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

func Shop(s *model.Shop) ShopView {
	return ShopView{
		ID:                  s.ID,
		OwnerID:             s.OwnerID,
		Name:                s.Name,
		Slug:                s.Slug,
		City:                s.City,
		State:               s.State,
		Country:             s.Country,
		Address:             s.Address,
		ZipCode:             s.ZipCode,
		Phone:               s.Phone,
		Email:               s.Email,
		Description:         s.Description,
		LogoURL:             s.LogoURL,
		BannerURL:           s.BannerURL,
		Status:              s.Status,
		ApprovalDate:        timestampPtr(s.ApprovalDate),
		ApprovedBy:          s.ApprovedBy,
		CommissionRate:      money(s.CommissionRate),
		MinimumPayoutAmount: money(s.MinimumPayoutAmount),
		CreatedAt:           timestamp(s.CreatedAt),
		UpdatedAt:           timestamp(s.UpdatedAt),
	}
}

func Shops(shops []*model.Shop) []ShopView {
	views := make([]ShopView, 0, len(shops))
	for _, s := range shops {
		views = append(views, Shop(s))
	}
	return views
}

func ShopGroups(groups map[string][]*model.Shop) map[string][]ShopView {
	out := make(map[string][]ShopView, len(groups))
	for status, shops := range groups {
		out[status] = Shops(shops)
	}
	return out
}

type ShopDocumentView struct {
	ID         int    `json:"id"`
	ShopID     int    `json:"shop"`
	DocType    string `json:"doc_type"`
	Number     string `json:"number"`
	File       string `json:"file"`
	UploadedAt string `json:"uploaded_at"`
}

func ShopDocument(d *model.ShopDocument) ShopDocumentView {
	return ShopDocumentView{
		ID:         d.ID,
		ShopID:     d.ShopID,
		DocType:    d.DocType,
		Number:     d.Number,
		File:       d.FileURL,
		UploadedAt: timestamp(d.UploadedAt),
	}
}

type ShopAttachmentView struct {
	ID         int    `json:"id"`
	ShopID     int    `json:"shop"`
	Name       string `json:"name"`
	File       string `json:"file"`
	UploadedAt string `json:"uploaded_at"`
}

func ShopAttachment(a *model.ShopAttachment) ShopAttachmentView {
	return ShopAttachmentView{
		ID:         a.ID,
		ShopID:     a.ShopID,
		Name:       a.Name,
		File:       a.FileURL,
		UploadedAt: timestamp(a.UploadedAt),
	}
}
