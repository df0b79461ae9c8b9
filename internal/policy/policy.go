// Package policy 访问控制：匿名 / 登录用户 / 管理员，以及资源归属判断。
package policy

import (
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/model"
)

// Principal 当前请求的调用者，nil 表示匿名
type Principal struct {
	UserID   int
	Username string
	IsStaff  bool
	IsSeller bool
	IsActive bool
}

// FromUser 由用户记录构造调用者
func FromUser(u *model.User) *Principal {
	if u == nil {
		return nil
	}
	return &Principal{
		UserID:   u.ID,
		Username: u.Username,
		IsStaff:  u.IsStaff,
		IsSeller: u.IsSeller,
		IsActive: u.IsActive,
	}
}

func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID > 0
}

func (p *Principal) Staff() bool {
	return p.Authenticated() && p.IsStaff
}

// Owns 调用者是否为 ownerID 本人
func (p *Principal) Owns(ownerID int) bool {
	return p.Authenticated() && p.UserID == ownerID
}

// RequireAuthenticated 未登录返回 401
func RequireAuthenticated(p *Principal) error {
	if !p.Authenticated() {
		return errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided.")
	}
	return nil
}

// RequireStaff 未登录 401，非管理员 403
func RequireStaff(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsStaff {
		return errors.New(errors.ErrForbidden, "You do not have permission to perform this action.")
	}
	return nil
}

// RequireSeller 只有卖家账号（或管理员）可以发起提现
func RequireSeller(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsSeller && !p.IsStaff {
		return errors.New(errors.ErrForbidden, "Seller account required")
	}
	return nil
}

// CanListAll 支付/提现全量列表仅管理员可见；其他人拿到空列表而不是错误
func CanListAll(p *Principal) bool {
	return p.Staff()
}

// OwnerScoped 归属校验：不属于调用者时返回 notFound，避免泄露资源是否存在
func OwnerScoped(p *Principal, ownerID int, notFound ErrorFactory) error {
	if !p.Owns(ownerID) {
		return notFound()
	}
	return nil
}

// OwnerOrStaff 本人或管理员可访问，否则按不存在处理
func OwnerOrStaff(p *Principal, ownerID int, notFound ErrorFactory) error {
	if p.Staff() {
		return nil
	}
	return OwnerScoped(p, ownerID, notFound)
}

// ErrorFactory 生成不存在错误
type ErrorFactory func() error

// NotFound 返回指定错误码的 ErrorFactory
func NotFound(code errors.ErrorCode, message string) ErrorFactory {
	return func() error {
		return errors.New(code, message)
	}
}
