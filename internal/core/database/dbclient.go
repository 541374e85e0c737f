package db

import (
	"context"

	"github.com/markdave123-py/Conversa/internal/models"
)

// DbClient defines all persistence operations the services need. It
// abstracts Postgres so higher layers never depend on a specific DB.
// Lookups return (nil, nil) for unknown ids.
type DbClient interface {
	CreateConversation(ctx context.Context, title string) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context) ([]models.Conversation, error)

	AppendMessage(ctx context.Context, conversationID, role, content string) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)

	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByConversation(ctx context.Context, conversationID string) ([]models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id, status string) error
	MarkDocumentProcessed(ctx context.Context, id string) error
	DeleteDocument(ctx context.Context, id string) error

	Close() error
}
