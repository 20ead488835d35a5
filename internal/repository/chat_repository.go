package repository

import (
	"time"

	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
)

// ChatRetention is how many chat rows survive each save. The limit
// applies to the whole table, not per user, so a busy user can push
// another user's history out.
const ChatRetention = 1000

// ChatRepo stores mentor conversations in chat_history.csv.
type ChatRepo struct {
	t   *Table
	log *logger.Logger
	now func() time.Time
}

func NewChatRepo(t *Table, log *logger.Logger) *ChatRepo {
	return &ChatRepo{t: t, log: log, now: time.Now}
}

// Save appends m, trims the table to the last ChatRetention rows and
// returns the assigned id, or 0 on failure. Ids are row count + 1, so
// once the table is full every new message gets ChatRetention + 1.
func (r *ChatRepo) Save(m model.ChatMessage) (int, error) {
	if m.Timestamp == "" {
		m.Timestamp = model.FormatTime(r.now())
	}
	id, err := r.t.appendRow(func(id int) row {
		return row{
			"id":         itoa(id),
			"user_email": m.UserEmail,
			"role":       m.Role,
			"content":    m.Content,
			"timestamp":  m.Timestamp,
		}
	}, ChatRetention)
	if err != nil {
		r.log.Error("save chat message failed", "email", m.UserEmail, "error", err)
		return 0, &StorageError{Op: "save", Table: r.t.Name(), Err: err}
	}
	return id, nil
}

// LoadForUser returns email's messages in file (conversation) order.
func (r *ChatRepo) LoadForUser(email string) ([]model.ChatMessage, error) {
	_, rows, err := r.t.read()
	if err != nil {
		r.log.Error("load chat history failed", "email", email, "error", err)
		return []model.ChatMessage{}, &StorageError{Op: "load", Table: r.t.Name(), Err: err}
	}
	out := []model.ChatMessage{}
	for _, rw := range rows {
		if rw["user_email"] != email {
			continue
		}
		out = append(out, model.ChatMessage{
			ID:        atoi(rw["id"]),
			UserEmail: rw["user_email"],
			Role:      rw["role"],
			Content:   rw["content"],
			Timestamp: rw["timestamp"],
		})
	}
	return out, nil
}
