package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"marketplace-backend/internal/util"
	"strings"

	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

// statements 按分号拆分建表语句
func statements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// Migrate 执行建表语句，所有语句都是 IF NOT EXISTS，可重复执行
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := statements(schema)
	util.Logger.Info("开始执行数据库迁移", zap.Int("statements", len(stmts)))
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			util.Logger.Error("数据库迁移失败", zap.Error(err), zap.Int("index", i))
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	util.Logger.Info("数据库迁移完成")
	return nil
}
