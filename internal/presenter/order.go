package presenter

import "marketplace-backend/internal/model"

// OrderView 订单列表项。product_name 和 shop 取第一件商品，quantity 为全部商品数量之和
type OrderView struct {
	ID          int             `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Status      string          `json:"status"`
	Quantity    int             `json:"quantity"`
	Customer    string          `json:"customer"`
	ProductName string          `json:"product_name"`
	Shop        string          `json:"shop"`
	Date        string          `json:"date"`
	Total       string          `json:"total"`
	Currency    string          `json:"currency"`
	Items       []OrderItemView `json:"items"`
}

type OrderItemView struct {
	ID          int    `json:"id"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Shop        string `json:"shop"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
	Status      string `json:"status"`
}

type StatusHistoryView struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
	ChangedAt string `json:"changed_at"`
	Notes     string `json:"notes"`
}

type OrderDetailView struct {
	OrderView
	History []StatusHistoryView `json:"history"`
}

func Order(o *model.Order) OrderView {
	view := OrderView{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Customer:    o.Customer.DisplayName(),
		Date:        isoDate(o.OrderDate),
		Total:       money(o.TotalAmount),
		Currency:    o.Currency,
		Items:       make([]OrderItemView, 0, len(o.Items)),
	}
	for i, item := range o.Items {
		if i == 0 {
			view.ProductName = deref(item.ProductName)
			view.Shop = deref(item.ShopName)
		}
		view.Quantity += item.Quantity
		view.Items = append(view.Items, OrderItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: deref(item.ProductName),
			Shop:        deref(item.ShopName),
			Quantity:    item.Quantity,
			UnitPrice:   money(item.UnitPrice),
			TotalPrice:  money(item.TotalPrice),
			Status:      item.Status,
		})
	}
	return view
}

func Orders(orders []*model.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, Order(o))
	}
	return views
}

func OrderDetail(o *model.Order) OrderDetailView {
	detail := OrderDetailView{
		OrderView: Order(o),
		History:   make([]StatusHistoryView, 0, len(o.History)),
	}
	for _, h := range o.History {
		detail.History = append(detail.History, StatusHistoryView{
			Status:    h.Status,
			ChangedBy: h.ChangedBy,
			ChangedAt: timestamp(h.ChangedAt),
			Notes:     h.Notes,
		})
	}
	return detail
}
