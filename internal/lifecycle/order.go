package lifecycle

import (
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/model"
	"sort"
	"strings"
)

// DefaultOrderTransitions 订单状态流转表，仅在开启校验时生效
func DefaultOrderTransitions() map[string][]string {
	return map[string][]string{
		model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled},
		model.OrderStatusProcessing: {model.OrderStatusShipped, model.OrderStatusCancelled},
		model.OrderStatusShipped:    {model.OrderStatusDelivered},
		model.OrderStatusDelivered:  {model.OrderStatusRefunded},
	}
}

// OrderPolicy 订单状态写入规则。
// 默认宽松：任何非空状态都直接写入；配置白名单或开启流转校验后收紧。
type OrderPolicy struct {
	allowed     map[string]struct{}
	enforce     bool
	transitions map[string][]string
}

func NewOrderPolicy(allowlist []string, enforceTransitions bool) *OrderPolicy {
	p := &OrderPolicy{
		enforce:     enforceTransitions,
		transitions: DefaultOrderTransitions(),
	}
	if len(allowlist) > 0 {
		p.allowed = make(map[string]struct{}, len(allowlist))
		for _, s := range allowlist {
			p.allowed[s] = struct{}{}
		}
	}
	return p
}

// Permissive 是否不做任何流转校验
func (p *OrderPolicy) Permissive() bool {
	return p.allowed == nil && !p.enforce
}

// ValidateTarget 校验目标状态本身（不依赖当前状态）
func (p *OrderPolicy) ValidateTarget(next string) error {
	if strings.TrimSpace(next) == "" {
		return errors.New(errors.ErrValidation, "id and status required")
	}
	if p.allowed != nil {
		if _, ok := p.allowed[next]; !ok {
			return errors.New(errors.ErrValidation, "Invalid status value: "+next)
		}
	}
	return nil
}

// Check 校验 current -> next 是否允许
func (p *OrderPolicy) Check(current, next string) error {
	if err := p.ValidateTarget(next); err != nil {
		return err
	}
	if !p.enforce {
		return nil
	}
	for _, to := range p.transitions[current] {
		if to == next {
			return nil
		}
	}
	return errors.New(errors.ErrIllegalTransition, "Invalid status transition")
}

// Sources 返回可以流转到 next 的状态；不校验流转时返回 nil，表示无条件写入
func (p *OrderPolicy) Sources(next string) []string {
	if !p.enforce {
		return nil
	}
	var sources []string
	for from, tos := range p.transitions {
		for _, to := range tos {
			if to == next {
				sources = append(sources, from)
			}
		}
	}
	sort.Strings(sources)
	return sources
}
