package models

import (
	"time"
)

// Conversation is the ownership root: documents and messages belong to
// exactly one conversation, and retrieval never crosses conversations.
type Conversation struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Document represents a file uploaded into a conversation.
type Document struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	FileName       string    `db:"file_name" json:"file_name"`
	StorageURL     string    `db:"storage_url" json:"storage_url"`
	Status         string    `db:"status" json:"status"` // uploaded | processing | ready | failed
	Processed      bool      `db:"processed" json:"processed"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Document status values, mirrored by the ingestion pipeline.
const (
	DocStatusUploaded   = "uploaded"
	DocStatusProcessing = "processing"
	DocStatusReady      = "ready"
	DocStatusFailed     = "failed"
)

// DocumentChunk is one indexed text span of a document. Chunks are immutable
// after creation; ConversationID is denormalized onto the chunk because it is
// the sole isolation key at query time.
type DocumentChunk struct {
	ID             string    `db:"id" json:"id"`
	DocumentID     string    `db:"document_id" json:"document_id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Ordinal        int       `db:"ordinal" json:"ordinal"`
	Text           string    `db:"text" json:"text"`
	Source         string    `db:"source" json:"source"`
	Embedding      []float32 `db:"embedding" json:"-"` // pgvector column
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Message is one turn in a conversation. Append-only; display order is
// governed by CreatedAt, not by request arrival order.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"` // "user" or "assistant"
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
