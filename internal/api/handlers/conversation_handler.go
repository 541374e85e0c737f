package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	db "github.com/markdave123-py/Conversa/internal/core/database"
	"github.com/markdave123-py/Conversa/internal/pkg/response"
)

type ConversationHandler struct {
	dbclient db.DbClient
	log      *zap.Logger
}

func NewConversationHandler(dbclient db.DbClient, log *zap.Logger) *ConversationHandler {
	return &ConversationHandler{dbclient: dbclient, log: log}
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}

func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		response.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	conv, err := h.dbclient.CreateConversation(r.Context(), title)
	if err != nil {
		h.log.Error("create conversation failed", zap.Error(err))
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, conv)
}

func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.dbclient.ListConversations(r.Context())
	if err != nil {
		h.log.Error("list conversations failed", zap.Error(err))
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, convs)
}

func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversationID")

	conv, err := h.dbclient.GetConversationByID(ctx, conversationID)
	if err != nil {
		h.log.Error("get conversation failed", zap.Error(err))
		response.FromError(w, err)
		return
	}
	if conv == nil {
		response.Error(w, http.StatusNotFound, "conversation not found")
		return
	}

	messages, err := h.dbclient.ListMessages(ctx, conversationID)
	if err != nil {
		h.log.Error("list messages failed", zap.Error(err))
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, messages)
}
