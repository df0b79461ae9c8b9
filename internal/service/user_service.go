package service

import (
	"context"
	stderrors "errors"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/repository/interfaces"
	"marketplace-backend/internal/util"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo interfaces.UserRepository
	shopRepo interfaces.ShopRepository
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, shopRepo interfaces.ShopRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		shopRepo: shopRepo,
	}
}

// SellerSummary 卖家及其店铺
type SellerSummary struct {
	User  *model.User
	Shops []*model.Shop
}

// TokenPair 登录返回的访问令牌和刷新令牌
type TokenPair struct {
	Access  string
	Refresh string
}

// bcrypt 只接受 72 字节以内的密码
const maxPasswordBytes = 72

var errBadCredentials = errors.New(errors.ErrInvalidCredentials, "No active account found with the given credentials")

// RegisterSeller 卖家注册，账号在管理员审核通过前处于停用状态
func (s *UserService) RegisterSeller(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New(errors.ErrValidation, "username and password required")
	}
	if len(password) > maxPasswordBytes {
		return nil, errors.New(errors.ErrValidation, "password must be at most 72 bytes")
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return nil, errors.New(errors.ErrUserExists, "username already exists")
	}

	// 生成密码哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errors.New(errors.ErrValidation, "password must be at most 72 bytes")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsSeller:     true,
		IsActive:     false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.New(errors.ErrUserExists, "username already exists")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	util.Logger.Info("卖家注册成功，等待审核", zap.Int("user_id", user.ID), zap.String("username", username))
	return user, nil
}

// Authenticate 校验用户名密码，停用账号（包括待审核卖家）不能登录
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		util.Logger.Info("登录失败，用户不存在", zap.String("username", username))
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Info("登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, errBadCredentials
	}
	if !user.IsActive {
		util.Logger.Info("登录失败，账号未启用", zap.Int("user_id", user.ID))
		return nil, errBadCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		util.Logger.Warn("更新最后登录时间失败", zap.Error(err), zap.Int("user_id", user.ID))
	}
	return user, nil
}

// IssueTokens 登录并签发令牌
func (s *UserService) IssueTokens(ctx context.Context, username, password string) (*TokenPair, error) {
	if username == "" || password == "" {
		return nil, errors.New(errors.ErrValidation, "username and password required")
	}
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	access, err := util.GenerateToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "生成令牌失败", err)
	}
	refresh, err := util.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "生成刷新令牌失败", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccessToken 用刷新令牌换新的访问令牌
func (s *UserService) RefreshAccessToken(refresh string) (string, error) {
	if refresh == "" {
		return "", errors.New(errors.ErrValidation, "refresh required")
	}
	access, err := util.RefreshToken(refresh)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidToken, "Token is invalid or expired", err)
	}
	return access, nil
}

// GetUserByID 通过ID获取用户信息，不存在时返回 ErrUserNotFound
func (s *UserService) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// Me 当前登录用户
func (s *UserService) Me(ctx context.Context, p *policy.Principal) (*model.User, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, p.UserID)
}

// ListUsers 仅管理员
func (s *UserService) ListUsers(ctx context.Context, p *policy.Principal) ([]*model.User, error) {
	if err := policy.RequireStaff(p); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取用户列表失败", err)
	}
	return users, nil
}

// SellersSummary 所有卖家及其店铺，仅管理员
func (s *UserService) SellersSummary(ctx context.Context, p *policy.Principal) ([]*SellerSummary, error) {
	if err := policy.RequireStaff(p); err != nil {
		return nil, err
	}
	sellers, err := s.userRepo.FindSellers(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取卖家列表失败", err)
	}

	summaries := make([]*SellerSummary, 0, len(sellers))
	for _, seller := range sellers {
		shops, err := s.shopRepo.FindByOwner(ctx, seller.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "获取卖家店铺失败", err)
		}
		summaries = append(summaries, &SellerSummary{User: seller, Shops: shops})
	}
	return summaries, nil
}

// SetSellerActive 审核卖家：通过即启用账号，驳回保持停用
func (s *UserService) SetSellerActive(ctx context.Context, p *policy.Principal, id int, active bool) error {
	if err := policy.RequireStaff(p); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil || !user.IsSeller {
		return errors.New(errors.ErrUserNotFound, "not_found")
	}

	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新卖家状态失败", err)
	}
	util.Logger.Info("卖家审核完成", zap.Int("user_id", id), zap.Bool("active", active), zap.String("by", p.Username))
	return nil
}
