package service

import (
	"context"
	"marketplace-backend/internal/model"
	"mime/multipart"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) FindSellers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockShopRepository 是 ShopRepository 接口的模拟实现
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) Create(ctx context.Context, shop *model.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *MockShopRepository) FindByID(ctx context.Context, id int) (*model.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shop), args.Error(1)
}

func (m *MockShopRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int) (*model.Shop, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shop), args.Error(1)
}

func (m *MockShopRepository) FindByStatus(ctx context.Context, status string) ([]*model.Shop, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*model.Shop), args.Error(1)
}

func (m *MockShopRepository) FindByOwner(ctx context.Context, ownerID int) ([]*model.Shop, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*model.Shop), args.Error(1)
}

func (m *MockShopRepository) UpdateStatus(ctx context.Context, id int, status, approvedBy string) error {
	args := m.Called(ctx, id, status, approvedBy)
	return args.Error(0)
}

func (m *MockShopRepository) CreateDocument(ctx context.Context, doc *model.ShopDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockShopRepository) CreateAttachment(ctx context.Context, att *model.ShopAttachment) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

// MockProductRepository 是 ProductRepository 接口的模拟实现
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByStatus(ctx context.Context, status string) ([]*model.Product, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByOwner(ctx context.Context, ownerID int) ([]*model.Product, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockProductRepository) FindCategoryByID(ctx context.Context, id int) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

// MockOrderRepository 是 OrderRepository 接口的模拟实现
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]*model.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID int) ([]*model.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id int) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int, status string, sources []string, changedBy string) (bool, error) {
	args := m.Called(ctx, id, status, sources, changedBy)
	return args.Bool(0), args.Error(1)
}

// MockPaymentRepository 是 PaymentRepository 接口的模拟实现
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindAllPayments(ctx context.Context) ([]*model.Payment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CreatePayout(ctx context.Context, payout *model.Payout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPayoutByID(ctx context.Context, id int) (*model.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payout), args.Error(1)
}

func (m *MockPaymentRepository) FindPayoutBySeller(ctx context.Context, id, sellerID int) (*model.Payout, error) {
	args := m.Called(ctx, id, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payout), args.Error(1)
}

func (m *MockPaymentRepository) FindAllPayouts(ctx context.Context) ([]*model.Payout, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Payout), args.Error(1)
}

func (m *MockPaymentRepository) FindPayoutsBySeller(ctx context.Context, sellerID int) ([]*model.Payout, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]*model.Payout), args.Error(1)
}

func (m *MockPaymentRepository) TransitionPayout(ctx context.Context, id, sellerID int, from []string, to string, processedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, sellerID, from, to, processedAt)
	return args.Bool(0), args.Error(1)
}

// MockReportRepository 等社区相关仓储的模拟实现
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindAll(ctx context.Context) ([]*model.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Report), args.Error(1)
}

type MockSupportRepository struct {
	mock.Mock
}

func (m *MockSupportRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockSupportRepository) FindAll(ctx context.Context) ([]*model.SupportTicket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.SupportTicket), args.Error(1)
}

func (m *MockSupportRepository) FindByUser(ctx context.Context, userID int) ([]*model.SupportTicket, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*model.SupportTicket), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *model.SellerMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) FindAll(ctx context.Context) ([]*model.SellerMessage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.SellerMessage), args.Error(1)
}

func (m *MockMessageRepository) FindByParticipant(ctx context.Context, userID int) ([]*model.SellerMessage, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*model.SellerMessage), args.Error(1)
}

// MockStorage 是 storage.Storage 的模拟实现
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadFile(ctx context.Context, file *multipart.FileHeader, path string) (string, error) {
	args := m.Called(ctx, file, path)
	return args.String(0), args.Error(1)
}
