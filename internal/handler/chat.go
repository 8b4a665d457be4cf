package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hankyong/campus-chatbot/internal/middleware"
	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/pkg/logger"
)

// ChatResponder answers chat turns and summarises sessions.
type ChatResponder interface {
	Handle(ctx context.Context, userID, message string) *model.ChatResponse
	Summary(ctx context.Context, userID string) *model.ChatResponse
}

// ChatHandler handles the chat endpoints.
type ChatHandler struct {
	chat   ChatResponder
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat ChatResponder, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: log,
	}
}

// Ask handles POST /api/chat/intent
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if err := middleware.ValidateUserID(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	resp := h.chat.Handle(ctx, req.UserID, req.Message)

	intent := "null"
	if resp.Intent != nil {
		intent = *resp.Intent
	}
	h.logger.ForTurn(middleware.GetCorrelationID(ctx), req.UserID).Debug("chat turn answered",
		zap.String("intent", intent),
	)
	writeJSON(w, http.StatusOK, resp)
}

// Session handles GET /api/chat/intent?userId=
func (h *ChatHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if err := middleware.ValidateUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.chat.Summary(r.Context(), userID))
}
