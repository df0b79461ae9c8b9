package service

import (
	"context"
	stderrors "errors"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/lifecycle"
	"marketplace-backend/internal/metrics"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/repository/interfaces"
	"marketplace-backend/internal/storage"
	"marketplace-backend/internal/util"
	"mime/multipart"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 新店铺默认的佣金比例和最低提现金额
var (
	defaultCommissionRate      = decimal.NewFromInt(10)
	defaultMinimumPayoutAmount = decimal.NewFromInt(50)
)

type ShopService struct {
	shopRepo interfaces.ShopRepository
	storage  storage.Storage
}

func NewShopService(shopRepo interfaces.ShopRepository, store storage.Storage) *ShopService {
	return &ShopService{
		shopRepo: shopRepo,
		storage:  store,
	}
}

var shopNotFound = policy.NotFound(errors.ErrShopNotFound, "Not found")

// PublicList 对外只展示审核通过的店铺
func (s *ShopService) PublicList(ctx context.Context) ([]*model.Shop, error) {
	shops, err := s.shopRepo.FindByStatus(ctx, model.ShopStatusApproved)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取店铺列表失败", err)
	}
	visible := make([]*model.Shop, 0, len(shops))
	for _, shop := range shops {
		if lifecycle.ShopPubliclyVisible(shop) {
			visible = append(visible, shop)
		}
	}
	return visible, nil
}

// AdminGroups 按状态分组的全部店铺
func (s *ShopService) AdminGroups(ctx context.Context, p *policy.Principal) (map[string][]*model.Shop, error) {
	if err := policy.RequireStaff(p); err != nil {
		return nil, err
	}
	shops, err := s.shopRepo.FindByStatus(ctx, "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取店铺列表失败", err)
	}

	groups := make(map[string][]*model.Shop, len(model.ShopStatuses))
	for _, status := range model.ShopStatuses {
		groups[status] = []*model.Shop{}
	}
	for _, shop := range shops {
		if _, ok := groups[shop.Status]; ok {
			groups[shop.Status] = append(groups[shop.Status], shop)
		}
	}
	return groups, nil
}

// AdminDetail 管理员查看任意店铺
func (s *ShopService) AdminDetail(ctx context.Context, p *policy.Principal, id int) (*model.Shop, error) {
	if err := policy.RequireStaff(p); err != nil {
		return nil, err
	}
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询店铺失败", err)
	}
	if shop == nil {
		return nil, shopNotFound()
	}
	return shop, nil
}

func (s *ShopService) MyShops(ctx context.Context, p *policy.Principal) ([]*model.Shop, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	shops, err := s.shopRepo.FindByOwner(ctx, p.UserID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取店铺列表失败", err)
	}
	return shops, nil
}

// MyShopDetail 店主查看自己的店铺，别人的店铺按不存在处理
func (s *ShopService) MyShopDetail(ctx context.Context, p *policy.Principal, id int) (*model.Shop, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.ownedShop(ctx, p, id)
}

// Submit 提交开店申请，初始状态为待审核
func (s *ShopService) Submit(ctx context.Context, p *policy.Principal, name, description string) (*model.Shop, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrValidation, "name required")
	}

	shop := &model.Shop{
		OwnerID:             p.UserID,
		Name:                name,
		Slug:                util.Slugify(name),
		Description:         description,
		Status:              model.ShopStatusPending,
		CommissionRate:      defaultCommissionRate,
		MinimumPayoutAmount: defaultMinimumPayoutAmount,
	}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.Wrap(errors.ErrResourceExists, "shop already exists", err)
		}
		return nil, errors.Wrap(errors.ErrDatabase, "创建店铺失败", err)
	}
	return shop, nil
}

// Moderate 管理员审核店铺，直接覆盖状态；审核通过时记录审核人
func (s *ShopService) Moderate(ctx context.Context, p *policy.Principal, id int, action lifecycle.ModerationAction) error {
	if err := policy.RequireStaff(p); err != nil {
		return err
	}
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询店铺失败", err)
	}
	if shop == nil {
		return errors.New(errors.ErrShopNotFound, "not_found")
	}

	status := lifecycle.ShopStatusFor(action)
	if err := s.shopRepo.UpdateStatus(ctx, id, status, p.Username); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新店铺状态失败", err)
	}
	metrics.RecordTransition("shop", string(action), metrics.ResultApplied)
	util.Logger.Info("店铺审核完成",
		zap.Int("shop_id", id),
		zap.String("from", shop.Status),
		zap.String("to", status),
		zap.String("by", p.Username))
	return nil
}

// UploadDocument 店主上传资质文件
func (s *ShopService) UploadDocument(ctx context.Context, p *policy.Principal, id int, docType, number string, file *multipart.FileHeader) (*model.ShopDocument, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	shop, err := s.ownedShop(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if file == nil || strings.TrimSpace(docType) == "" {
		return nil, errors.New(errors.ErrValidation, "file and doc_type are required")
	}

	url, err := s.storage.UploadFile(ctx, file, util.ShopUploadPath(shop.ID, "documents", file.Filename))
	if err != nil {
		return nil, errors.Wrap(errors.ErrStorage, "文件上传失败", err)
	}

	doc := &model.ShopDocument{
		ShopID:  shop.ID,
		DocType: docType,
		Number:  number,
		FileURL: url,
	}
	if err := s.shopRepo.CreateDocument(ctx, doc); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "保存资质文件失败", err)
	}
	return doc, nil
}

// UploadAttachment 店主上传附件，未指定名称时使用文件名
func (s *ShopService) UploadAttachment(ctx context.Context, p *policy.Principal, id int, name string, file *multipart.FileHeader) (*model.ShopAttachment, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	shop, err := s.ownedShop(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, errors.New(errors.ErrValidation, "file is required")
	}
	if strings.TrimSpace(name) == "" {
		name = file.Filename
	}

	url, err := s.storage.UploadFile(ctx, file, util.ShopUploadPath(shop.ID, "attachments", file.Filename))
	if err != nil {
		return nil, errors.Wrap(errors.ErrStorage, "文件上传失败", err)
	}

	att := &model.ShopAttachment{
		ShopID:  shop.ID,
		Name:    name,
		FileURL: url,
	}
	if err := s.shopRepo.CreateAttachment(ctx, att); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "保存附件失败", err)
	}
	return att, nil
}

func (s *ShopService) ownedShop(ctx context.Context, p *policy.Principal, id int) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByIDAndOwner(ctx, id, p.UserID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询店铺失败", err)
	}
	if shop == nil {
		return nil, shopNotFound()
	}
	return shop, nil
}
