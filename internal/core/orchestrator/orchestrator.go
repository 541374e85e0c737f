// Package orchestrator sequences a user query through message persistence,
// retrieval, prompt assembly and language model invocation.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/markdave123-py/Conversa/internal/core"
	"github.com/markdave123-py/Conversa/internal/core/retrieval"
	"github.com/markdave123-py/Conversa/internal/models"
)

// systemPrompt is the fixed instruction template. The model may use the
// reference material only when it helps, must never mention that retrieval
// happened, and answers the question directly.
const systemPrompt = `You are a helpful assistant. Reference material from the user's own documents may be provided below. Use it only when it helps answer the question. Never mention the reference material, how it was obtained, or whether it exists. Answer the question directly.`

// noContextMarker replaces the context block when retrieval returns
// nothing, so the template never carries an empty section.
const noContextMarker = "(no reference material available)"

// ConversationStore is the slice of persistence the orchestrator needs.
type ConversationStore interface {
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	AppendMessage(ctx context.Context, conversationID, role, content string) (*models.Message, error)
}

// Retriever yields context passages for a query within one conversation.
type Retriever interface {
	Retrieve(ctx context.Context, query, conversationID string, k int) ([]retrieval.Passage, error)
}

// Orchestrator handles one query end to end. The sequence is strictly
// linear: validate, persist the user message, retrieve, prompt, invoke the
// model, persist the assistant message. A failure after the user message is
// persisted leaves that message in place with no assistant reply; callers
// see the error and the conversation shows an unanswered turn.
type Orchestrator struct {
	store     ConversationStore
	retriever Retriever
	llm       core.LLMProvider
	k         int
	log       *zap.Logger
}

func New(store ConversationStore, retriever Retriever, llm core.LLMProvider, k int, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{store: store, retriever: retriever, llm: llm, k: k, log: log}
}

// Answer runs the query sequence and returns the persisted assistant
// message. Validation failures reject the request before anything is
// written.
func (o *Orchestrator) Answer(ctx context.Context, conversationID, query string) (*models.Message, error) {
	conversationID = strings.TrimSpace(conversationID)
	query = strings.TrimSpace(query)
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversation id is required", core.ErrValidation)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query text is required", core.ErrValidation)
	}

	conv, err := o.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %s", core.ErrNotFound, conversationID)
	}

	if _, err := o.store.AppendMessage(ctx, conversationID, models.RoleUser, query); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	passages, err := o.retriever.Retrieve(ctx, query, conversationID, o.k)
	if err != nil {
		return nil, err
	}
	o.log.Debug("context retrieved",
		zap.String("conversation_id", conversationID),
		zap.Int("passages", len(passages)))

	answer, err := o.llm.Generate(ctx, systemPrompt, buildPrompt(passages, query))
	if err != nil {
		return nil, err
	}

	msg, err := o.store.AppendMessage(ctx, conversationID, models.RoleAssistant, answer)
	if err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}
	return msg, nil
}

// buildPrompt embeds the retrieved context (or the explicit no-material
// marker) and the question into the user half of the prompt.
func buildPrompt(passages []retrieval.Passage, query string) string {
	contextBlock := noContextMarker
	if len(passages) > 0 {
		contextBlock = retrieval.FormatContext(passages)
	}
	return fmt.Sprintf("Reference material:\n%s\n\nQuestion: %s", contextBlock, query)
}
