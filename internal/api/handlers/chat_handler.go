package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/markdave123-py/Conversa/internal/core/orchestrator"
	"github.com/markdave123-py/Conversa/internal/pkg/response"
)

type ChatHandler struct {
	orch *orchestrator.Orchestrator
	log  *zap.Logger
}

func NewChatHandler(orch *orchestrator.Orchestrator, log *zap.Logger) *ChatHandler {
	return &ChatHandler{orch: orch, log: log}
}

type QueryRequest struct {
	Query string `json:"query"`
}

// QueryConversation answers a question over the conversation's documents
// and returns the persisted assistant message.
func (h *ChatHandler) QueryConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversationID")

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.orch.Answer(ctx, conversationID, req.Query)
	if err != nil {
		h.log.Error("answer failed", zap.String("conversation_id", conversationID), zap.Error(err))
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, msg)
}
