package shop

import (
	"context"
	"marketplace-backend/internal/api"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/lifecycle"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/presenter"
	"marketplace-backend/internal/util"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ShopService interface {
	PublicList(ctx context.Context) ([]*model.Shop, error)
	AdminGroups(ctx context.Context, p *policy.Principal) (map[string][]*model.Shop, error)
	AdminDetail(ctx context.Context, p *policy.Principal, id int) (*model.Shop, error)
	MyShops(ctx context.Context, p *policy.Principal) ([]*model.Shop, error)
	MyShopDetail(ctx context.Context, p *policy.Principal, id int) (*model.Shop, error)
	Submit(ctx context.Context, p *policy.Principal, name, description string) (*model.Shop, error)
	Moderate(ctx context.Context, p *policy.Principal, id int, action lifecycle.ModerationAction) error
	UploadDocument(ctx context.Context, p *policy.Principal, id int, docType, number string, file *multipart.FileHeader) (*model.ShopDocument, error)
	UploadAttachment(ctx context.Context, p *policy.Principal, id int, name string, file *multipart.FileHeader) (*model.ShopAttachment, error)
}

type ShopHandler struct {
	shopService ShopService
}

func NewShopHandler(shopService ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

type submitShopRequest struct {
	Name        string `json:"name" binding:"max=255"`
	Description string `json:"description"`
}

func (h *ShopHandler) AdminGroups(c *gin.Context) {
	groups, err := h.shopService.AdminGroups(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.ShopGroups(groups))
}

// PublicList 公开店铺列表，无需登录
func (h *ShopHandler) PublicList(c *gin.Context) {
	shops, err := h.shopService.PublicList(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": presenter.Shops(shops)})
}

func (h *ShopHandler) AdminDetail(c *gin.Context) {
	h.detail(c, h.shopService.AdminDetail)
}

func (h *ShopHandler) MyShops(c *gin.Context) {
	shops, err := h.shopService.MyShops(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.Shops(shops))
}

func (h *ShopHandler) MyShopDetail(c *gin.Context) {
	h.detail(c, h.shopService.MyShopDetail)
}

func (h *ShopHandler) detail(c *gin.Context, find func(context.Context, *policy.Principal, int) (*model.Shop, error)) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	shop, err := find(c.Request.Context(), middleware.CurrentPrincipal(c), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.Shop(shop))
}

// Submit 创建店铺，等待管理员审核
func (h *ShopHandler) Submit(c *gin.Context) {
	var req submitShopRequest
	if err := api.BindJSON(c, &req); err != nil {
		errors.HandleError(c, err)
		return
	}
	shop, err := h.shopService.Submit(c.Request.Context(), middleware.CurrentPrincipal(c), req.Name, req.Description)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenter.Shop(shop))
}

func (h *ShopHandler) Approve(c *gin.Context) {
	h.moderate(c, lifecycle.Approve)
}

func (h *ShopHandler) Reject(c *gin.Context) {
	h.moderate(c, lifecycle.Reject)
}

func (h *ShopHandler) moderate(c *gin.Context, action lifecycle.ModerationAction) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if err := h.shopService.Moderate(c.Request.Context(), middleware.CurrentPrincipal(c), id, action); err != nil {
		errors.HandleError(c, err)
		return
	}
	api.OK(c)
}

// UploadDocument multipart 表单：file, doc_type（兼容 type）, number
func (h *ShopHandler) UploadDocument(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	docType := c.PostForm("doc_type")
	if docType == "" {
		docType = c.PostForm("type")
	}

	doc, err := h.shopService.UploadDocument(c.Request.Context(), middleware.CurrentPrincipal(c), id, docType, c.PostForm("number"), formFile(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenter.ShopDocument(doc))
}

// UploadAttachment multipart 表单：file, name
func (h *ShopHandler) UploadAttachment(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	att, err := h.shopService.UploadAttachment(c.Request.Context(), middleware.CurrentPrincipal(c), id, c.PostForm("name"), formFile(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenter.ShopAttachment(att))
}

// formFile 没有文件时返回 nil，由服务层给出校验错误
func formFile(c *gin.Context) *multipart.FileHeader {
	file, err := c.FormFile("file")
	if err != nil {
		util.Logger.Debug("请求中没有文件", zap.Error(err))
		return nil
	}
	return file
}
