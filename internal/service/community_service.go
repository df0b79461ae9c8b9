package service

import (
	"context"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/repository/interfaces"
	"marketplace-backend/internal/util"
	"strings"

	"go.uber.org/zap"
)

// CommunityService 举报、客服工单和卖家消息
type CommunityService struct {
	reportRepo  interfaces.ReportRepository
	supportRepo interfaces.SupportRepository
	messageRepo interfaces.MessageRepository
	userRepo    interfaces.UserRepository
}

func NewCommunityService(
	reportRepo interfaces.ReportRepository,
	supportRepo interfaces.SupportRepository,
	messageRepo interfaces.MessageRepository,
	userRepo interfaces.UserRepository,
) *CommunityService {
	return &CommunityService{
		reportRepo:  reportRepo,
		supportRepo: supportRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// ListReports 登录用户即可查看
func (s *CommunityService) ListReports(ctx context.Context, p *policy.Principal) ([]*model.Report, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	reports, err := s.reportRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取举报列表失败", err)
	}
	return reports, nil
}

// ListTickets 管理员看到全部工单，其他用户只看到自己的
func (s *CommunityService) ListTickets(ctx context.Context, p *policy.Principal) ([]*model.SupportTicket, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	var (
		tickets []*model.SupportTicket
		err     error
	)
	if p.Staff() {
		tickets, err = s.supportRepo.FindAll(ctx)
	} else {
		tickets, err = s.supportRepo.FindByUser(ctx, p.UserID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取工单列表失败", err)
	}
	return tickets, nil
}

// CreateTicket 创建客服工单，状态为 open
func (s *CommunityService) CreateTicket(ctx context.Context, p *policy.Principal, subject, message string) (*model.SupportTicket, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(message) == "" {
		return nil, errors.New(errors.ErrValidation, "subject and message required")
	}

	ticket := &model.SupportTicket{
		UserID:  p.UserID,
		Subject: subject,
		Message: message,
		Status:  model.SupportTicketStatusOpen,
	}
	if err := s.supportRepo.Create(ctx, ticket); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建工单失败", err)
	}
	ticket.User = s.lookupUser(ctx, p.UserID)
	return ticket, nil
}

// ListMessages 管理员看到全部消息，其他用户只看到自己发出或收到的
func (s *CommunityService) ListMessages(ctx context.Context, p *policy.Principal) ([]*model.SellerMessage, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	var (
		messages []*model.SellerMessage
		err      error
	)
	if p.Staff() {
		messages, err = s.messageRepo.FindAll(ctx)
	} else {
		messages, err = s.messageRepo.FindByParticipant(ctx, p.UserID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取消息列表失败", err)
	}
	return messages, nil
}

// SendMessage 发送消息，接收人必须存在
func (s *CommunityService) SendMessage(ctx context.Context, p *policy.Principal, receiverID int, message string) (*model.SellerMessage, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if receiverID <= 0 || strings.TrimSpace(message) == "" {
		return nil, errors.New(errors.ErrValidation, "receiver and message required")
	}

	receiver, err := s.userRepo.FindByID(ctx, receiverID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询接收人失败", err)
	}
	if receiver == nil {
		return nil, errors.New(errors.ErrUserNotFound, "Receiver not found")
	}

	msg := &model.SellerMessage{
		SenderID:   p.UserID,
		ReceiverID: receiverID,
		Message:    message,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "发送消息失败", err)
	}
	msg.Sender = s.lookupUser(ctx, p.UserID)
	msg.Receiver = receiver
	return msg, nil
}

// lookupUser 只用于展示，查询失败时返回 nil，由展示层留空
func (s *CommunityService) lookupUser(ctx context.Context, id int) *model.User {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		util.Logger.Warn("查询用户失败", zap.Error(err), zap.Int("user_id", id))
		return nil
	}
	return user
}
