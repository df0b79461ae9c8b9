package presenter

import "marketplace-backend/internal/model"

type PaymentView struct {
	ID       int    `json:"id"`
	OrderID  string `json:"orderId"`
	Customer string `json:"customer"`
	Seller   string `json:"seller"`
	Total    string `json:"total"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

func Payment(p *model.Payment) PaymentView {
	return PaymentView{
		ID:       p.ID,
		OrderID:  PaymentReference(p.ID),
		Customer: p.User.DisplayName(),
		// 支付记录没有关联卖家
		Seller: "",
		Total:  money(p.Amount),
		Date:   isoDate(p.CreatedAt),
		Status: p.Status,
	}
}

func Payments(payments []*model.Payment) []PaymentView {
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, Payment(p))
	}
	return views
}

type PayoutView struct {
	ID            int     `json:"id"`
	Seller        string  `json:"seller"`
	Amount        string  `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	RequestedDate string  `json:"requestedDate"`
	ProcessedAt   *string `json:"processed_at"`

	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number"`
	HolderName    string `json:"holder_name"`

	MobileProvider     string `json:"mobile_provider"`
	MobileWalletNumber string `json:"mobile_wallet_number"`

	CardBrand string `json:"card_brand"`
	CardLast4 string `json:"card_last4"`
}

func Payout(p *model.Payout) PayoutView {
	return PayoutView{
		ID:                 p.ID,
		Seller:             p.Seller.DisplayName(),
		Amount:             money(p.Amount),
		Method:             p.Method,
		Status:             p.Status,
		RequestedDate:      isoDate(p.RequestedAt),
		ProcessedAt:        timestampPtr(p.ProcessedAt),
		BankName:           p.BankName,
		AccountNumber:      p.AccountNumber,
		RoutingNumber:      p.RoutingNumber,
		HolderName:         p.HolderName,
		MobileProvider:     p.MobileProvider,
		MobileWalletNumber: p.MobileWalletNumber,
		CardBrand:          p.CardBrand,
		CardLast4:          p.CardLast4,
	}
}

func Payouts(payouts []*model.Payout) []PayoutView {
	views := make([]PayoutView, 0, len(payouts))
	for _, p := range payouts {
		views = append(views, Payout(p))
	}
	return views
}
