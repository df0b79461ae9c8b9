package presenter

import "marketplace-backend/internal/model"

type ReportView struct {
	ID      int    `json:"id"`
	UserID  string `json:"userId"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
	Date    string `json:"date"`
	Details string `json:"details"`
}

func Report(r *model.Report) ReportView {
	return ReportView{
		ID:      r.ID,
		UserID:  UserReference(r.UserID),
		Subject: r.Type,
		Status:  r.Status,
		Date:    isoDate(r.CreatedAt),
		Details: r.Details,
	}
}

func Reports(reports []*model.Report) []ReportView {
	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, Report(r))
	}
	return views
}

type TicketView struct {
	ID       int    `json:"id"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Status   string `json:"status"`
	UserName string `json:"userName"`
	Date     string `json:"date"`
}

func Ticket(t *model.SupportTicket) TicketView {
	return TicketView{
		ID:       t.ID,
		Subject:  t.Subject,
		Message:  t.Message,
		Status:   t.Status,
		UserName: t.User.DisplayName(),
		Date:     isoDate(t.CreatedAt),
	}
}

func Tickets(tickets []*model.SupportTicket) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, Ticket(t))
	}
	return views
}

type MessageView struct {
	ID           int    `json:"id"`
	Sender       int    `json:"sender"`
	Receiver     int    `json:"receiver"`
	Message      string `json:"message"`
	SenderName   string `json:"senderName"`
	ReceiverName string `json:"receiverName"`
	Date         string `json:"date"`
}

func Message(m *model.SellerMessage) MessageView {
	return MessageView{
		ID:           m.ID,
		Sender:       m.SenderID,
		Receiver:     m.ReceiverID,
		Message:      m.Message,
		SenderName:   m.Sender.DisplayName(),
		ReceiverName: m.Receiver.DisplayName(),
		Date:         isoDate(m.CreatedAt),
	}
}

func Messages(messages []*model.SellerMessage) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, Message(m))
	}
	return views
}
