package product

import (
	"context"
	"marketplace-backend/internal/api"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/lifecycle"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/presenter"
	"marketplace-backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	PublicGroups(ctx context.Context) (map[string][]*model.Product, error)
	AdminGroups(ctx context.Context, p *policy.Principal) (map[string][]*model.Product, error)
	MyProducts(ctx context.Context, p *policy.Principal) ([]*model.Product, error)
	Submit(ctx context.Context, p *policy.Principal, in service.SubmitProductInput) (*model.Product, error)
	Moderate(ctx context.Context, p *policy.Principal, id int, action lifecycle.ModerationAction) error
	UpdateStock(ctx context.Context, p *policy.Principal, id int, stock *int) error
	RequestEdit(ctx context.Context, p *policy.Principal, id int) error
}

type ProductHandler struct {
	productService ProductService
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type submitProductRequest struct {
	Shop        int              `json:"shop"`
	Name        string           `json:"name" binding:"max=255"`
	Price       *decimal.Decimal `json:"price"`
	Category    *int             `json:"category"`
	Description string           `json:"description"`
}

type updateStockRequest struct {
	Stock *int `json:"stock"`
}

// AdminGroups 管理员按状态查看商品
func (h *ProductHandler) AdminGroups(c *gin.Context) {
	groups, err := h.productService.AdminGroups(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.ProductGroups(groups))
}

// PublicGroups 只返回审核通过的商品，无需登录
func (h *ProductHandler) PublicGroups(c *gin.Context) {
	groups, err := h.productService.PublicGroups(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.ProductGroups(groups))
}

func (h *ProductHandler) MyProducts(c *gin.Context) {
	products, err := h.productService.MyProducts(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.Products(products))
}

func (h *ProductHandler) Submit(c *gin.Context) {
	var req submitProductRequest
	if err := api.BindJSON(c, &req); err != nil {
		errors.HandleError(c, err)
		return
	}

	product, err := h.productService.Submit(c.Request.Context(), middleware.CurrentPrincipal(c), service.SubmitProductInput{
		ShopID:      req.Shop,
		Name:        req.Name,
		Price:       req.Price,
		CategoryID:  req.Category,
		Description: req.Description,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenter.Product(product))
}

func (h *ProductHandler) Approve(c *gin.Context) {
	h.moderate(c, lifecycle.Approve)
}

func (h *ProductHandler) Reject(c *gin.Context) {
	h.moderate(c, lifecycle.Reject)
}

func (h *ProductHandler) moderate(c *gin.Context, action lifecycle.ModerationAction) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if err := h.productService.Moderate(c.Request.Context(), middleware.CurrentPrincipal(c), id, action); err != nil {
		errors.HandleError(c, err)
		return
	}
	api.OK(c)
}

func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	var req updateStockRequest
	if err := api.BindJSON(c, &req); err != nil {
		errors.HandleError(c, err)
		return
	}
	if err := h.productService.UpdateStock(c.Request.Context(), middleware.CurrentPrincipal(c), id, req.Stock); err != nil {
		errors.HandleError(c, err)
		return
	}
	api.OK(c)
}

// RequestEdit 请求体内容暂不处理
func (h *ProductHandler) RequestEdit(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if err := h.productService.RequestEdit(c.Request.Context(), middleware.CurrentPrincipal(c), id); err != nil {
		errors.HandleError(c, err)
		return
	}
	api.OK(c)
}
