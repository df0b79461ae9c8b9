package service

import (
	"context"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/lifecycle"
	"marketplace-backend/internal/metrics"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/repository/interfaces"
	"marketplace-backend/internal/util"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductService struct {
	productRepo interfaces.ProductRepository
	shopRepo    interfaces.ShopRepository
}

func NewProductService(productRepo interfaces.ProductRepository, shopRepo interfaces.ShopRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
	}
}

// SubmitProductInput 卖家提交的新商品
type SubmitProductInput struct {
	ShopID      int
	Name        string
	Price       *decimal.Decimal
	CategoryID  *int
	Description string
}

var productNotFound = policy.NotFound(errors.ErrProductNotFound, "not found")

// PublicGroups 公开商品，只包含审核通过的
func (s *ProductService) PublicGroups(ctx context.Context) (map[string][]*model.Product, error) {
	products, err := s.productRepo.FindByStatus(ctx, model.ProductStatusApproved)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取商品列表失败", err)
	}

	visible := make([]*model.Product, 0, len(products))
	for _, product := range products {
		if lifecycle.ProductPubliclyVisible(product) {
			visible = append(visible, product)
		}
	}
	return map[string][]*model.Product{model.ProductStatusApproved: visible}, nil
}

// AdminGroups 按状态分组的全部商品，每个状态都有对应的键
func (s *ProductService) AdminGroups(ctx context.Context, p *policy.Principal) (map[string][]*model.Product, error) {
	if err := policy.RequireStaff(p); err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindByStatus(ctx, "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取商品列表失败", err)
	}

	groups := make(map[string][]*model.Product, len(model.ProductStatuses))
	for _, status := range model.ProductStatuses {
		groups[status] = []*model.Product{}
	}
	for _, product := range products {
		if _, ok := groups[product.Status]; ok {
			groups[product.Status] = append(groups[product.Status], product)
		}
	}
	return groups, nil
}

// MyProducts 当前用户名下所有店铺的商品
func (s *ProductService) MyProducts(ctx context.Context, p *policy.Principal) ([]*model.Product, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindByOwner(ctx, p.UserID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取商品列表失败", err)
	}
	return products, nil
}

// Submit 卖家提交商品，初始状态为待审核
func (s *ProductService) Submit(ctx context.Context, p *policy.Principal, in SubmitProductInput) (*model.Product, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if in.ShopID <= 0 || name == "" || in.Price == nil {
		return nil, errors.New(errors.ErrValidation, "Missing fields")
	}
	if in.Price.IsNegative() {
		return nil, errors.New(errors.ErrValidation, "price must not be negative")
	}

	shop, err := s.shopRepo.FindByIDAndOwner(ctx, in.ShopID, p.UserID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询店铺失败", err)
	}
	if shop == nil {
		return nil, errors.New(errors.ErrShopNotFound, "Shop not found")
	}

	var category *model.Category
	if in.CategoryID != nil {
		category, err = s.productRepo.FindCategoryByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "查询分类失败", err)
		}
		if category == nil {
			return nil, errors.New(errors.ErrCategoryNotFound, "Category not found")
		}
	}

	product := &model.Product{
		ShopID:      shop.ID,
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: in.Description,
		Price:       *in.Price,
		Status:      model.ProductStatusPending,
		ShopName:    &shop.Name,
		Category:    category,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建商品失败", err)
	}
	return product, nil
}

// Moderate 管理员审核商品，重复审核不拦截
func (s *ProductService) Moderate(ctx context.Context, p *policy.Principal, id int, action lifecycle.ModerationAction) error {
	if err := policy.RequireStaff(p); err != nil {
		return err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if product == nil {
		return errors.New(errors.ErrProductNotFound, "not_found")
	}

	status := lifecycle.ProductStatusFor(action)
	if err := s.productRepo.UpdateStatus(ctx, id, status); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新商品状态失败", err)
	}
	metrics.RecordTransition("product", string(action), metrics.ResultApplied)
	util.Logger.Info("商品审核完成",
		zap.Int("product_id", id),
		zap.String("from", product.Status),
		zap.String("to", status),
		zap.String("by", p.Username))
	return nil
}

// UpdateStock 商品目前没有库存字段，校验归属后确认即可
func (s *ProductService) UpdateStock(ctx context.Context, p *policy.Principal, id int, stock *int) error {
	if err := s.authorizeEdit(ctx, p, id); err != nil {
		return err
	}
	if stock != nil && *stock < 0 {
		return errors.New(errors.ErrValidation, "stock must not be negative")
	}
	util.Logger.Info("收到库存更新请求，未持久化", zap.Int("product_id", id), zap.Any("stock", stock))
	return nil
}

// RequestEdit 修改申请暂不保存，校验归属后确认即可
func (s *ProductService) RequestEdit(ctx context.Context, p *policy.Principal, id int) error {
	if err := s.authorizeEdit(ctx, p, id); err != nil {
		return err
	}
	util.Logger.Info("收到商品修改申请，未持久化", zap.Int("product_id", id))
	return nil
}

// authorizeEdit 商品所在店铺的店主或管理员，其他人按不存在处理
func (s *ProductService) authorizeEdit(ctx context.Context, p *policy.Principal, id int) error {
	if err := policy.RequireAuthenticated(p); err != nil {
		return err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if product == nil {
		return productNotFound()
	}

	ownerID := 0
	shop, err := s.shopRepo.FindByID(ctx, product.ShopID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询店铺失败", err)
	}
	if shop != nil {
		ownerID = shop.OwnerID
	}
	return policy.OwnerOrStaff(p, ownerID, productNotFound)
}
