package user

import (
	"context"
	"marketplace-backend/internal/api"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/presenter"
	"marketplace-backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserService interface {
	RegisterSeller(ctx context.Context, username, email, password string) (*model.User, error)
	Me(ctx context.Context, p *policy.Principal) (*model.User, error)
	ListUsers(ctx context.Context, p *policy.Principal) ([]*model.User, error)
	SellersSummary(ctx context.Context, p *policy.Principal) ([]*service.SellerSummary, error)
	SetSellerActive(ctx context.Context, p *policy.Principal, id int, active bool) error
}

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService}
}

type registerSellerRequest struct {
	Username string `json:"username" binding:"max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

// RegisterSeller 卖家注册，账号需管理员审核后启用
func (h *UserHandler) RegisterSeller(c *gin.Context) {
	var req registerSellerRequest
	if err := api.BindJSON(c, &req); err != nil {
		errors.HandleError(c, err)
		return
	}

	if _, err := h.userService.RegisterSeller(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok":      true,
		"message": "Registration received. Awaiting admin approval.",
	})
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presenter.Me(user))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": presenter.Users(users)})
}

func (h *UserHandler) ListSellers(c *gin.Context) {
	summaries, err := h.userService.SellersSummary(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	sellers := make([]presenter.SellerView, 0, len(summaries))
	for _, s := range summaries {
		sellers = append(sellers, presenter.Seller(s.User, s.Shops))
	}
	c.JSON(http.StatusOK, gin.H{"sellers": sellers})
}

// ApproveSeller 启用卖家账号
func (h *UserHandler) ApproveSeller(c *gin.Context) {
	h.setSellerActive(c, true)
}

// RejectSeller 停用卖家账号
func (h *UserHandler) RejectSeller(c *gin.Context) {
	h.setSellerActive(c, false)
}

func (h *UserHandler) setSellerActive(c *gin.Context, active bool) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if err := h.userService.SetSellerActive(c.Request.Context(), middleware.CurrentPrincipal(c), id, active); err != nil {
		errors.HandleError(c, err)
		return
	}
	api.OK(c)
}
