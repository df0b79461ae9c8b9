package mysql

import (
	"context"
	"database/sql"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

// 店铺和分类都用 LEFT JOIN，缺失时对应字段为 NULL
const productSelect = `SELECT p.id, p.shop_id, p.category_id, p.name, COALESCE(p.description, ''), p.price, p.status,
		p.created_at, p.updated_at,
		s.name,
		c.id, c.name, c.slug, c.description
	FROM products p
	LEFT JOIN shops s ON s.id = p.shop_id
	LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row scanner) (*model.Product, error) {
	var (
		p                          model.Product
		catID                      *int
		catName, catSlug, catDescr *string
	)
	err := row.Scan(&p.ID, &p.ShopID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
		&p.ShopName,
		&catID, &catName, &catSlug, &catDescr)
	if err != nil {
		return nil, err
	}
	if catID != nil {
		p.Category = &model.Category{ID: *catID}
		if catName != nil {
			p.Category.Name = *catName
		}
		if catSlug != nil {
			p.Category.Slug = *catSlug
		}
		if catDescr != nil {
			p.Category.Description = *catDescr
		}
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	util.Logger.Info("开始创建商品",
		zap.Int("shop_id", product.ShopID),
		zap.String("name", product.Name),
		zap.String("price", product.Price.String()))

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `INSERT INTO products (shop_id, category_id, name, description, price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		product.ShopID, product.CategoryID, product.Name, product.Description,
		product.Price, product.Status, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		util.Logger.Error("创建商品失败", zap.Error(err), zap.Int("shop_id", product.ShopID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取商品ID失败", zap.Error(err))
		return err
	}
	product.ID = int(id)
	util.Logger.Info("商品创建成功", zap.Int("product_id", product.ID), zap.String("status", product.Status))
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int) (*model.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+" WHERE p.id = ?", id))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询商品失败", zap.Error(err), zap.Int("product_id", id))
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) FindByStatus(ctx context.Context, status string) ([]*model.Product, error) {
	if status == "" {
		return r.query(ctx, productSelect+" ORDER BY p.created_at DESC")
	}
	return r.query(ctx, productSelect+" WHERE p.status = ? ORDER BY p.created_at DESC", status)
}

// FindByOwner 卖家名下所有店铺的商品
func (r *ProductRepository) FindByOwner(ctx context.Context, ownerID int) ([]*model.Product, error) {
	return r.query(ctx, productSelect+" WHERE s.owner_id = ? ORDER BY p.created_at DESC", ownerID)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("查询商品列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// UpdateStatus 直接覆盖商品状态
func (r *ProductRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	util.Logger.Info("更新商品状态", zap.Int("product_id", id), zap.String("status", status))
	_, err := r.db.ExecContext(ctx, "UPDATE products SET status = ?, updated_at = ? WHERE id = ?", status, time.Now(), id)
	if err != nil {
		util.Logger.Error("更新商品状态失败", zap.Error(err), zap.Int("product_id", id))
	}
	return err
}

func (r *ProductRepository) FindCategoryByID(ctx context.Context, id int) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, slug, COALESCE(description, '') FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询分类失败", zap.Error(err), zap.Int("category_id", id))
		return nil, err
	}
	return &c, nil
}
