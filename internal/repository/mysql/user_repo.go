package mysql

import (
	"context"
	"database/sql"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/repository/interfaces"
	"marketplace-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userSelect = `SELECT id, username, email, password_hash, first_name, last_name, phone,
		is_seller, is_admin, is_staff, is_superuser, is_active, date_joined, last_login
	FROM users`

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.IsSeller, &u.IsAdmin, &u.IsStaff, &u.IsSuperuser, &u.IsActive, &u.DateJoined, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create 创建一个新用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	util.Logger.Info("尝试创建新用户", zap.String("username", user.Username), zap.Bool("is_seller", user.IsSeller))

	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}

	query := `INSERT INTO users (username, email, password_hash, first_name, last_name, phone,
			is_seller, is_admin, is_staff, is_superuser, is_active, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone,
		user.IsSeller, user.IsAdmin, user.IsStaff, user.IsSuperuser, user.IsActive, user.DateJoined)
	if err != nil {
		if isDuplicate(err) {
			util.Logger.Warn("用户名已存在", zap.String("username", user.Username))
			return interfaces.ErrDuplicate
		}
		util.Logger.Error("创建用户失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新用户ID失败", zap.Error(err))
		return err
	}
	user.ID = int(id)
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE id = ?", id))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查找用户失败", zap.Error(err), zap.Int("user_id", id))
		return nil, err
	}
	return user, nil
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE username = ?", username))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("通过用户名查找用户失败", zap.Error(err), zap.String("username", username))
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	return r.query(ctx, userSelect+" ORDER BY id")
}

// FindSellers 所有卖家账号，包括待审核的
func (r *userRepository) FindSellers(ctx context.Context) ([]*model.User, error) {
	return r.query(ctx, userSelect+" WHERE is_seller = 1 ORDER BY date_joined DESC")
}

func (r *userRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetActive 启用/停用账号，卖家审核通过即启用
func (r *userRepository) SetActive(ctx context.Context, id int, active bool) error {
	util.Logger.Info("更新用户启用状态", zap.Int("user_id", id), zap.Bool("active", active))
	_, err := r.db.ExecContext(ctx, "UPDATE users SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		util.Logger.Error("更新用户启用状态失败", zap.Error(err), zap.Int("user_id", id))
	}
	return err
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = ? WHERE id = ?", time.Now(), id)
	return err
}
