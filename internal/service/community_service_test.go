package service

import (
	"context"
	stderrors "errors"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type communityMocks struct {
	reports  *MockReportRepository
	support  *MockSupportRepository
	messages *MockMessageRepository
	users    *MockUserRepository
}

func newCommunityService() (*CommunityService, communityMocks) {
	m := communityMocks{
		reports:  new(MockReportRepository),
		support:  new(MockSupportRepository),
		messages: new(MockMessageRepository),
		users:    new(MockUserRepository),
	}
	return NewCommunityService(m.reports, m.support, m.messages, m.users), m
}

func TestCommunityService_Tickets(t *testing.T) {
	ctx := context.Background()
	svc, m := newCommunityService()

	m.support.On("FindAll", ctx).Return([]*model.SupportTicket{{ID: 1}, {ID: 2}}, nil)
	m.support.On("FindByUser", ctx, buyer.UserID).Return([]*model.SupportTicket{{ID: 2, UserID: buyer.UserID}}, nil)

	all, err := svc.ListTickets(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListTickets(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListTickets(ctx, nil)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	_, err = svc.CreateTicket(ctx, buyer, "", "help")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	m.support.On("Create", ctx, mock.AnythingOfType("*model.SupportTicket")).Return(nil)
	// 查询用户失败不影响创建
	m.users.On("FindByID", ctx, buyer.UserID).Return(nil, stderrors.New("connection reset"))
	ticket, err := svc.CreateTicket(ctx, buyer, "Refund", "where is my money")
	require.NoError(t, err)
	assert.Equal(t, model.SupportTicketStatusOpen, ticket.Status)
	assert.Nil(t, ticket.User)
}

func TestCommunityService_Messages(t *testing.T) {
	ctx := context.Background()

	t.Run("接收人不存在", func(t *testing.T) {
		svc, m := newCommunityService()
		m.users.On("FindByID", ctx, 404).Return(nil, nil)

		_, err := svc.SendMessage(ctx, seller, 404, "hello")
		assert.True(t, errors.Is(err, errors.ErrUserNotFound))
		m.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("发送成功", func(t *testing.T) {
		svc, m := newCommunityService()
		m.users.On("FindByID", ctx, 1).Return(&model.User{ID: 1, Username: "admin"}, nil)
		m.users.On("FindByID", ctx, seller.UserID).Return(&model.User{ID: 7, Username: "seller"}, nil)
		m.messages.On("Create", ctx, mock.AnythingOfType("*model.SellerMessage")).Return(nil)

		msg, err := svc.SendMessage(ctx, seller, 1, "hello")
		require.NoError(t, err)
		assert.Equal(t, "seller", msg.Sender.Username)
		assert.Equal(t, "admin", msg.Receiver.Username)
	})

	t.Run("缺少内容", func(t *testing.T) {
		svc, _ := newCommunityService()
		_, err := svc.SendMessage(ctx, seller, 1, " ")
		assert.True(t, errors.Is(err, errors.ErrValidation))
	})

	t.Run("只看到自己的消息", func(t *testing.T) {
		svc, m := newCommunityService()
		m.messages.On("FindByParticipant", ctx, seller.UserID).Return([]*model.SellerMessage{{ID: 1}}, nil)
		msgs, err := svc.ListMessages(ctx, seller)
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
		m.messages.AssertNotCalled(t, "FindAll", mock.Anything)
	})
}

func TestCommunityService_Reports(t *testing.T) {
	ctx := context.Background()
	svc, m := newCommunityService()

	_, err := svc.ListReports(ctx, nil)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	m.reports.On("FindAll", ctx).Return([]*model.Report{{ID: 1, Type: "fraud"}}, nil)
	reports, err := svc.ListReports(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
