// Package lifecycle 定义订单、商品、店铺和提现的状态流转规则。
// 这里只做判定，不访问存储；持久化由 repository 的条件更新完成。
package lifecycle

import (
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/model"
	"sort"
)

// PayoutAction 提现申请上的操作
type PayoutAction string

const (
	PayoutApprove PayoutAction = "approve" // 管理员
	PayoutReject  PayoutAction = "reject"  // 管理员
	PayoutCancel  PayoutAction = "cancel"  // 卖家本人
	PayoutConfirm PayoutAction = "confirm" // 卖家本人
)

type payoutKey struct {
	from   string
	action PayoutAction
}

// payoutTransitions (当前状态, 操作) -> 下一状态，表中没有的组合一律拒绝
var payoutTransitions = map[payoutKey]string{
	{model.PayoutStatusPending, PayoutApprove}:  model.PayoutStatusApproved,
	{model.PayoutStatusRejected, PayoutApprove}: model.PayoutStatusApproved,
	{model.PayoutStatusPending, PayoutReject}:   model.PayoutStatusRejected,
	{model.PayoutStatusApproved, PayoutReject}:  model.PayoutStatusRejected,
	{model.PayoutStatusPending, PayoutCancel}:   model.PayoutStatusCancelled,
	{model.PayoutStatusApproved, PayoutConfirm}: model.PayoutStatusPaid,
}

var payoutRejectMessages = map[PayoutAction]string{
	PayoutApprove: "Invalid status transition",
	PayoutReject:  "Invalid status transition",
	PayoutCancel:  "Only pending requests can be cancelled",
	PayoutConfirm: "Only approved payouts can be withdrawn",
}

// NextPayoutStatus 返回操作后的状态，非法流转返回 ErrIllegalTransition
func NextPayoutStatus(current string, action PayoutAction) (string, error) {
	if next, ok := payoutTransitions[payoutKey{current, action}]; ok {
		return next, nil
	}
	msg, ok := payoutRejectMessages[action]
	if !ok {
		return "", errors.New(errors.ErrValidation, "unknown payout action: "+string(action))
	}
	return "", errors.New(errors.ErrIllegalTransition, msg)
}

// PayoutSources 返回允许执行该操作的源状态，用于条件更新
func PayoutSources(action PayoutAction) []string {
	var sources []string
	for key := range payoutTransitions {
		if key.action == action {
			sources = append(sources, key.from)
		}
	}
	sort.Strings(sources)
	return sources
}
