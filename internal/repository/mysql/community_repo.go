package mysql

import (
	"context"
	"database/sql"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db}
}

func (r *ReportRepository) FindAll(ctx context.Context) ([]*model.Report, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT r.id, r.user_id, r.type, COALESCE(r.details, ''), r.status, r.created_at, r.updated_at,
			u.id, u.username, u.first_name, u.last_name
		FROM reports r
		LEFT JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC`)
	if err != nil {
		util.Logger.Error("查询举报列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		var (
			rp               model.Report
			uid              *int
			username, fn, ln *string
		)
		if err := rows.Scan(&rp.ID, &rp.UserID, &rp.Type, &rp.Details, &rp.Status, &rp.CreatedAt, &rp.UpdatedAt,
			&uid, &username, &fn, &ln); err != nil {
			return nil, err
		}
		rp.User = optionalUser(uid, username, fn, ln)
		reports = append(reports, &rp)
	}
	return reports, rows.Err()
}

type SupportRepository struct {
	db *sql.DB
}

func NewSupportRepository(db *sql.DB) *SupportRepository {
	return &SupportRepository{db}
}

const ticketSelect = `SELECT t.id, t.user_id, t.subject, t.message, t.status, t.created_at, t.updated_at,
		u.id, u.username, u.first_name, u.last_name
	FROM support_tickets t
	LEFT JOIN users u ON u.id = t.user_id`

// Create 创建工单
func (r *SupportRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	util.Logger.Info("创建工单", zap.Int("user_id", ticket.UserID), zap.String("subject", ticket.Subject))

	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO support_tickets (user_id, subject, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ticket.UserID, ticket.Subject, ticket.Message, ticket.Status, ticket.CreatedAt, ticket.UpdatedAt)
	if err != nil {
		util.Logger.Error("创建工单失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ticket.ID = int(id)
	return nil
}

func (r *SupportRepository) FindAll(ctx context.Context) ([]*model.SupportTicket, error) {
	return r.query(ctx, ticketSelect+" ORDER BY t.created_at DESC")
}

func (r *SupportRepository) FindByUser(ctx context.Context, userID int) ([]*model.SupportTicket, error) {
	return r.query(ctx, ticketSelect+" WHERE t.user_id = ? ORDER BY t.created_at DESC", userID)
}

func (r *SupportRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.SupportTicket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("查询工单列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tickets []*model.SupportTicket
	for rows.Next() {
		var (
			t                model.SupportTicket
			uid              *int
			username, fn, ln *string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Message, &t.Status, &t.CreatedAt, &t.UpdatedAt,
			&uid, &username, &fn, &ln); err != nil {
			return nil, err
		}
		t.User = optionalUser(uid, username, fn, ln)
		tickets = append(tickets, &t)
	}
	return tickets, rows.Err()
}

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db}
}

const messageSelect = `SELECT m.id, m.sender_id, m.receiver_id, m.message, m.created_at,
		s.id, s.username, s.first_name, s.last_name,
		r.id, r.username, r.first_name, r.last_name
	FROM seller_messages m
	LEFT JOIN users s ON s.id = m.sender_id
	LEFT JOIN users r ON r.id = m.receiver_id`

func (r *MessageRepository) Create(ctx context.Context, msg *model.SellerMessage) error {
	util.Logger.Info("发送消息", zap.Int("sender_id", msg.SenderID), zap.Int("receiver_id", msg.ReceiverID))

	msg.CreatedAt = time.Now()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO seller_messages (sender_id, receiver_id, message, created_at) VALUES (?, ?, ?, ?)",
		msg.SenderID, msg.ReceiverID, msg.Message, msg.CreatedAt)
	if err != nil {
		util.Logger.Error("发送消息失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	msg.ID = int(id)
	return nil
}

func (r *MessageRepository) FindAll(ctx context.Context) ([]*model.SellerMessage, error) {
	return r.query(ctx, messageSelect+" ORDER BY m.created_at DESC")
}

func (r *MessageRepository) FindByParticipant(ctx context.Context, userID int) ([]*model.SellerMessage, error) {
	return r.query(ctx, messageSelect+" WHERE m.sender_id = ? OR m.receiver_id = ? ORDER BY m.created_at DESC", userID, userID)
}

func (r *MessageRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.SellerMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("查询消息列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var messages []*model.SellerMessage
	for rows.Next() {
		var (
			m                    model.SellerMessage
			sid, rid             *int
			sUser, sFirst, sLast *string
			rUser, rFirst, rLast *string
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Message, &m.CreatedAt,
			&sid, &sUser, &sFirst, &sLast,
			&rid, &rUser, &rFirst, &rLast); err != nil {
			return nil, err
		}
		m.Sender = optionalUser(sid, sUser, sFirst, sLast)
		m.Receiver = optionalUser(rid, rUser, rFirst, rLast)
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
