// Package presenter 把实体转换为接口返回的结构。只读，不访问存储；
// 缺失的关联（用户、商品、店铺）输出为空字符串。
package presenter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// isoDate 只保留日期部分，零值输出空字符串
func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func timestampPtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// money 金额统一保留两位小数
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PaymentReference 支付记录的展示编号，例如 ORD-0001
func PaymentReference(id int) string {
	return fmt.Sprintf("ORD-%04d", id)
}

// UserReference 举报人的展示编号，例如 USR-12
func UserReference(id int) string {
	return fmt.Sprintf("USR-%d", id)
}
