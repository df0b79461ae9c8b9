package presenter

import (
	"fmt"
	"marketplace-backend/internal/model"
)

type UserView struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsSeller  bool   `json:"is_seller"`
	IsStaff   bool   `json:"is_staff"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func User(u *model.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsSeller:  u.IsSeller,
		IsStaff:   u.IsStaff,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func Users(users []*model.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, User(u))
	}
	return views
}

// MeView 当前登录用户
type MeView struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	IsSeller    bool   `json:"is_seller"`
}

func Me(u *model.User) MeView {
	return MeView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsSeller:    u.IsSeller,
	}
}

// 卖家审核状态，对应账号是否启用
const (
	SellerStatusApproved = "approved"
	SellerStatusPending  = "pending"
)

type SellerView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	DateApplied string `json:"dateApplied"`
	ShopName    string `json:"shopName"`
	ShopsCount  int    `json:"shopsCount"`
}

// Seller 只有一家店铺时显示店名，否则显示 "N shops"
func Seller(u *model.User, shops []*model.Shop) SellerView {
	view := SellerView{
		ID:          u.ID,
		Name:        u.DisplayName(),
		Email:       u.Email,
		Status:      SellerStatusPending,
		DateApplied: isoDate(u.DateJoined),
		ShopsCount:  len(shops),
	}
	if u.IsActive {
		view.Status = SellerStatusApproved
	}
	if len(shops) == 1 {
		view.ShopName = shops[0].Name
	} else {
		view.ShopName = fmt.Sprintf("%d shops", len(shops))
	}
	return view
}
