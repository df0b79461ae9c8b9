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

type ShopRepository struct {
	db *sql.DB
}

func NewShopRepository(db *sql.DB) *ShopRepository {
	return &ShopRepository{db}
}

const shopSelect = `SELECT id, owner_id, name, slug,
		COALESCE(city, ''), COALESCE(state, ''), COALESCE(country, ''), COALESCE(address, ''),
		COALESCE(zip_code, ''), COALESCE(phone, ''), COALESCE(email, ''), COALESCE(description, ''),
		COALESCE(logo_url, ''), COALESCE(banner_url, ''), status, approval_date, COALESCE(approved_by, ''),
		commission_rate, minimum_payout_amount, created_at, updated_at
	FROM shops`

func scanShop(row scanner) (*model.Shop, error) {
	var s model.Shop
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Slug,
		&s.City, &s.State, &s.Country, &s.Address,
		&s.ZipCode, &s.Phone, &s.Email, &s.Description,
		&s.LogoURL, &s.BannerURL, &s.Status, &s.ApprovalDate, &s.ApprovedBy,
		&s.CommissionRate, &s.MinimumPayoutAmount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShopRepository) Create(ctx context.Context, shop *model.Shop) error {
	util.Logger.Info("开始创建店铺",
		zap.Int("owner_id", shop.OwnerID),
		zap.String("name", shop.Name),
		zap.String("status", shop.Status))

	now := time.Now()
	shop.CreatedAt = now
	shop.UpdatedAt = now

	query := `INSERT INTO shops (owner_id, name, slug, description, status, commission_rate, minimum_payout_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		shop.OwnerID, shop.Name, shop.Slug, shop.Description, shop.Status,
		shop.CommissionRate, shop.MinimumPayoutAmount, shop.CreatedAt, shop.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			util.Logger.Warn("店铺 slug 已存在", zap.String("slug", shop.Slug))
			return interfaces.ErrDuplicate
		}
		util.Logger.Error("创建店铺失败", zap.Error(err), zap.Int("owner_id", shop.OwnerID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取店铺ID失败", zap.Error(err))
		return err
	}
	shop.ID = int(id)
	util.Logger.Info("店铺创建成功", zap.Int("shop_id", shop.ID))
	return nil
}

func (r *ShopRepository) FindByID(ctx context.Context, id int) (*model.Shop, error) {
	shop, err := scanShop(r.db.QueryRowContext(ctx, shopSelect+" WHERE id = ?", id))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询店铺失败", zap.Error(err), zap.Int("shop_id", id))
		return nil, err
	}
	return shop, nil
}

// FindByIDAndOwner 按归属查找，不属于 ownerID 时与不存在一样返回 nil
func (r *ShopRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int) (*model.Shop, error) {
	shop, err := scanShop(r.db.QueryRowContext(ctx, shopSelect+" WHERE id = ? AND owner_id = ?", id, ownerID))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("按归属查询店铺失败", zap.Error(err), zap.Int("shop_id", id), zap.Int("owner_id", ownerID))
		return nil, err
	}
	return shop, nil
}

func (r *ShopRepository) FindByStatus(ctx context.Context, status string) ([]*model.Shop, error) {
	if status == "" {
		return r.query(ctx, shopSelect+" ORDER BY created_at DESC")
	}
	return r.query(ctx, shopSelect+" WHERE status = ? ORDER BY created_at DESC", status)
}

func (r *ShopRepository) FindByOwner(ctx context.Context, ownerID int) ([]*model.Shop, error) {
	return r.query(ctx, shopSelect+" WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
}

func (r *ShopRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.Shop, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("查询店铺列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var shops []*model.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

// UpdateStatus 覆盖店铺状态；审核通过时记录审核时间和审核人
func (r *ShopRepository) UpdateStatus(ctx context.Context, id int, status, approvedBy string) error {
	util.Logger.Info("更新店铺状态",
		zap.Int("shop_id", id),
		zap.String("status", status),
		zap.String("approved_by", approvedBy))

	now := time.Now()
	var err error
	if status == model.ShopStatusApproved {
		_, err = r.db.ExecContext(ctx,
			"UPDATE shops SET status = ?, approval_date = ?, approved_by = ?, updated_at = ? WHERE id = ?",
			status, now, approvedBy, now, id)
	} else {
		_, err = r.db.ExecContext(ctx,
			"UPDATE shops SET status = ?, updated_at = ? WHERE id = ?",
			status, now, id)
	}
	if err != nil {
		util.Logger.Error("更新店铺状态失败", zap.Error(err), zap.Int("shop_id", id))
	}
	return err
}

func (r *ShopRepository) CreateDocument(ctx context.Context, doc *model.ShopDocument) error {
	doc.UploadedAt = time.Now()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO shop_documents (shop_id, doc_type, number, file_url, uploaded_at) VALUES (?, ?, ?, ?, ?)",
		doc.ShopID, doc.DocType, doc.Number, doc.FileURL, doc.UploadedAt)
	if err != nil {
		util.Logger.Error("保存店铺资质文件失败", zap.Error(err), zap.Int("shop_id", doc.ShopID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	doc.ID = int(id)
	return nil
}

func (r *ShopRepository) CreateAttachment(ctx context.Context, att *model.ShopAttachment) error {
	att.UploadedAt = time.Now()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO shop_attachments (shop_id, name, file_url, uploaded_at) VALUES (?, ?, ?, ?)",
		att.ShopID, att.Name, att.FileURL, att.UploadedAt)
	if err != nil {
		util.Logger.Error("保存店铺附件失败", zap.Error(err), zap.Int("shop_id", att.ShopID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	att.ID = int(id)
	return nil
}
