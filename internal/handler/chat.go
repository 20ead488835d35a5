package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/advisor"
	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/queue"
)

type chatReq struct {
	Message string `json:"message"`
}

// Chat stores the user's message, asks the mentor for a reply with the
// recent history as context and stores the reply.
func (h *LearnerHandler) Chat(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
	}
	email := s.User.Email

	history, err := h.Repos.Chats.LoadForUser(email)
	if err != nil {
		h.Log.Warn("load chat history failed, replying without context", "email", email, "error", err)
	}
	turns := make([]advisor.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, advisor.Turn{Role: m.Role, Content: m.Content})
	}

	userID, err := h.Repos.Chats.Save(model.ChatMessage{UserEmail: email, Role: model.RoleUser, Content: req.Message, Timestamp: h.stamp()})
	if err != nil {
		return storageFailure(c, h.Log, "save chat message", err)
	}

	reply, live := h.Advisor.Chat(c.Request().Context(), s.User, turns, req.Message)

	replyID, err := h.Repos.Chats.Save(model.ChatMessage{UserEmail: email, Role: model.RoleAssistant, Content: reply, Timestamp: h.stamp()})
	if err != nil {
		h.Log.Warn("save mentor reply failed", "email", email, "error", err)
	}
	emit(c, h.Events, queue.ActivityEvent{Type: queue.EventChatMessage, UserEmail: email, RecordID: userID})

	return c.JSON(http.StatusOK, echo.Map{
		"reply":      reply,
		"source":     source(live),
		"message_id": userID,
		"reply_id":   replyID,
	})
}

// ChatHistory returns the caller's conversation in order.
func (h *LearnerHandler) ChatHistory(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	items, err := h.Repos.Chats.LoadForUser(s.User.Email)
	if err != nil {
		return storageFailure(c, h.Log, "load chat history", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": items})
}
