package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mella-app/mella/internal/model"
	"github.com/mella-app/mella/internal/realtime"
	"github.com/mella-app/mella/internal/repository"
)

// MessageHandler covers direct messaging between customers and
// workers: sending, the inbox listing, thread history and typing
// indicators.  Sending a message clears the sender's typing row and
// fans out a notification to the recipient.
type MessageHandler struct {
	Messages *repository.MessageRepo
	Typing   *repository.TypingRepo
	Users    *repository.UserRepo
	Fanout   Notifier
	Hub      *realtime.Hub
}

func NewMessageHandler(m *repository.MessageRepo, t *repository.TypingRepo, u *repository.UserRepo, f Notifier, hub *realtime.Hub) *MessageHandler {
	if m == nil || t == nil || u == nil || f == nil {
		panic("nil dependency passed to NewMessageHandler")
	}
	return &MessageHandler{Messages: m, Typing: t, Users: u, Fanout: f, Hub: hub}
}

// Send handles POST /v1/messages with {"recipient_id": n, "body": s}.
func (h *MessageHandler) Send(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		RecipientID uint64 `json:"recipient_id"`
		Body        string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.RecipientID == 0 || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "recipient_id and body required"})
	}
	if req.RecipientID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Recipient must exist.
	if _, err := h.Users.GetByID(ctx, req.RecipientID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	msg := model.Message{
		ConversationID: model.ConversationID(uid, req.RecipientID),
		SenderID:       uid,
		RecipientID:    req.RecipientID,
		Body:           req.Body,
	}
	if err := h.Messages.Create(ctx, &msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}

	// Sending implies no longer typing.
	_ = h.Typing.Delete(ctx, msg.ConversationID, uid)

	senderName := ""
	if sender, err := h.Users.GetByID(ctx, uid); err == nil {
		senderName = sender.FullName
	}
	_ = h.Fanout.Notify(ctx, req.RecipientID, model.NotificationTypeMessage,
		"New message", "You have a new message from "+senderName,
		model.MessageData{SenderID: uid, SenderName: senderName, ConversationID: msg.ConversationID})
	_ = h.Fanout.RecordActivity(ctx, uid, model.ActivitySentMessage,
		model.MessageActivityContent{ConversationID: msg.ConversationID, RecipientID: req.RecipientID},
		model.VisibilityPrivate)

	h.Hub.Signal("messages", "insert",
		realtime.ConversationFilter(msg.ConversationID),
		realtime.UserFilter(req.RecipientID))
	h.Hub.Signal("typing_indicators", "delete", realtime.ConversationFilter(msg.ConversationID))

	return c.JSON(http.StatusCreated, msg)
}

// Conversations handles GET /v1/conversations.
func (h *MessageHandler) Conversations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Messages.ListConversations(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"conversations": items})
}

// Thread handles GET /v1/conversations/:user_id/messages.  It returns
// the thread with the named counterpart oldest first and marks the
// caller's incoming messages read as a side effect.
func (h *MessageHandler) Thread(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	other, ok := pathID(c, "user_id")
	if !ok || other == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	limit := queryInt(c, "limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}
	convID := model.ConversationID(uid, other)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	msgs, err := h.Messages.ListMessages(ctx, convID, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	typing, err := h.Typing.ListActive(ctx, convID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"conversation_id": convID,
		"messages":        msgs,
		"typing":          typing,
	})
}

// StartTyping handles PUT /v1/conversations/:user_id/typing.  The row
// is upserted, so repeated calls just refresh the timestamp.
func (h *MessageHandler) StartTyping(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	other, ok := pathID(c, "user_id")
	if !ok || other == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	convID := model.ConversationID(uid, other)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Typing.Upsert(ctx, convID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Hub.Signal("typing_indicators", "insert", realtime.ConversationFilter(convID))
	return c.NoContent(http.StatusNoContent)
}

// StopTyping handles DELETE /v1/conversations/:user_id/typing.
func (h *MessageHandler) StopTyping(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	other, ok := pathID(c, "user_id")
	if !ok || other == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	convID := model.ConversationID(uid, other)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Typing.Delete(ctx, convID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Hub.Signal("typing_indicators", "delete", realtime.ConversationFilter(convID))
	return c.NoContent(http.StatusNoContent)
}
