package community

import (
	"context"
	"marketplace-backend/internal/api"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/presenter"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CommunityService 举报、客服工单和卖家消息
type CommunityService interface {
	ListReports(ctx context.Context, p *policy.Principal) ([]*model.Report, error)
	ListTickets(ctx context.Context, p *policy.Principal) ([]*model.SupportTicket, error)
	CreateTicket(ctx context.Context, p *policy.Principal, subject, message string) (*model.SupportTicket, error)
	ListMessages(ctx context.Context, p *policy.Principal) ([]*model.SellerMessage, error)
	SendMessage(ctx context.Context, p *policy.Principal, receiverID int, message string) (*model.SellerMessage, error)
}

type CommunityHandler struct {
	communityService CommunityService
}

func NewCommunityHandler(communityService CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

type createTicketRequest struct {
	Subject string `json:"subject" binding:"max=255"`
	Message string `json:"message"`
}

type sendMessageRequest struct {
	Receiver int    `json:"receiver"`
	Message  string `json:"message"`
}

func (h *CommunityHandler) ListReports(c *gin.Context) {
	reports, err := h.communityService.ListReports(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": presenter.Reports(reports)})
}

// ListTickets 管理员看到全部工单，其他用户只看到自己的
func (h *CommunityHandler) ListTickets(c *gin.Context) {
	tickets, err := h.communityService.ListTickets(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": presenter.Tickets(tickets)})
}

func (h *CommunityHandler) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := api.BindJSON(c, &req); err != nil {
		errors.HandleError(c, err)
		return
	}

	ticket, err := h.communityService.CreateTicket(c.Request.Context(), middleware.CurrentPrincipal(c), req.Subject, req.Message)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenter.Ticket(ticket))
}

func (h *CommunityHandler) ListMessages(c *gin.Context) {
	messages, err := h.communityService.ListMessages(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": presenter.Messages(messages)})
}

func (h *CommunityHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := api.BindJSON(c, &req); err != nil {
		errors.HandleError(c, err)
		return
	}

	msg, err := h.communityService.SendMessage(c.Request.Context(), middleware.CurrentPrincipal(c), req.Receiver, req.Message)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presenter.Message(msg))
}
