package mysql

import (
	"database/sql"
	"errors"
	"marketplace-backend/internal/model"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// placeholders 生成 IN 子句的占位符，例如 "?, ?, ?"
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}
	return args
}

func intArgs(values []int) []interface{} {
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}
	return args
}

// notFound 把 sql.ErrNoRows 转成 (nil, nil) 约定
func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isDuplicate 判断是否为唯一索引冲突 (MySQL 1062)
func isDuplicate(err error) bool {
	var me *mysqldriver.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// userColumns 关联查询时用于展示的用户字段
const userColumns = "u.id, u.username, u.first_name, u.last_name"

// scanner 兼容 *sql.Row 和 *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// optionalUser 把 LEFT JOIN 出来的可空用户字段组装成 *model.User
func optionalUser(id *int, username, firstName, lastName *string) *model.User {
	if id == nil {
		return nil
	}
	u := &model.User{ID: *id}
	if username != nil {
		u.Username = *username
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	return u
}
