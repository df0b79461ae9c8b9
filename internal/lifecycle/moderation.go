package lifecycle

import "marketplace-backend/internal/model"

// ModerationAction 管理员对商品/店铺的审核操作
type ModerationAction string

const (
	Approve ModerationAction = "approve"
	Reject  ModerationAction = "reject"
)

// ProductStatusFor 审核后的商品状态。不拦截重复审核。
func ProductStatusFor(action ModerationAction) string {
	if action == Approve {
		return model.ProductStatusApproved
	}
	return model.ProductStatusRejected
}

// ShopStatusFor 审核后的店铺状态
func ShopStatusFor(action ModerationAction) string {
	if action == Approve {
		return model.ShopStatusApproved
	}
	return model.ShopStatusRejected
}

// ProductPubliclyVisible 只有审核通过的商品对外可见
func ProductPubliclyVisible(p *model.Product) bool {
	return p != nil && p.Status == model.ProductStatusApproved
}

// ShopPubliclyVisible 只有审核通过的店铺对外可见
func ShopPubliclyVisible(s *model.Shop) bool {
	return s != nil && s.Status == model.ShopStatusApproved
}
