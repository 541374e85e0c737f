// Package ingest drives the per-document pipeline: extract, chunk, embed,
// index. The pipeline runs synchronously so failures surface to the caller
// of the upload request instead of disappearing into a background worker.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markdave123-py/Conversa/internal/core"
	"github.com/markdave123-py/Conversa/internal/core/chunker"
	"github.com/markdave123-py/Conversa/internal/core/extract"
	"github.com/markdave123-py/Conversa/internal/core/vectorindex"
	"github.com/markdave123-py/Conversa/internal/models"
)

// Stage names for the per-document state machine. A document moves
// pending → chunking → embedding → indexed, or to failed from any stage.
const (
	StagePending   = "pending"
	StageChunking  = "chunking"
	StageEmbedding = "embedding"
	StageIndexed   = "indexed"
	StageFailed    = "failed"
)

// DocumentStore is the slice of persistence the pipeline needs.
type DocumentStore interface {
	UpdateDocumentStatus(ctx context.Context, id, status string) error
	MarkDocumentProcessed(ctx context.Context, id string) error
}

// Pipeline ingests one document at a time. It is stateless between calls
// and safe for concurrent use across documents.
type Pipeline struct {
	store     DocumentStore
	extractor extract.Extractor
	splitter  *chunker.Splitter
	embedder  core.EmbeddingProvider
	index     vectorindex.Index
	batchSize int
	log       *zap.Logger
}

func NewPipeline(
	store DocumentStore,
	extractor extract.Extractor,
	splitter *chunker.Splitter,
	embedder core.EmbeddingProvider,
	index vectorindex.Index,
	batchSize int,
	log *zap.Logger,
) *Pipeline {
	if batchSize <= 0 {
		batchSize = 16
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		store:     store,
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		index:     index,
		batchSize: batchSize,
		log:       log,
	}
}

// Ingest runs the full pipeline for one document. Re-ingesting a document
// replaces its previous chunks. On failure the document stays unprocessed
// with status failed; chunks already inserted in the failing run are not
// rolled back.
func (p *Pipeline) Ingest(ctx context.Context, doc *models.Document, data []byte, contentType string) error {
	log := p.log.With(zap.String("document_id", doc.ID), zap.String("conversation_id", doc.ConversationID))

	if doc.ConversationID == "" {
		return fmt.Errorf("%w: document %s has no conversation id", core.ErrIngestion, doc.ID)
	}

	_ = p.store.UpdateDocumentStatus(ctx, doc.ID, models.DocStatusProcessing)

	text, err := p.extractor.Text(data, contentType)
	if err != nil {
		return p.fail(ctx, doc.ID, StagePending, err)
	}

	// Replace policy: a re-run must not leave the previous chunk set
	// retrievable alongside the new one.
	if err := p.index.DeleteByDocument(ctx, doc.ID); err != nil {
		return p.fail(ctx, doc.ID, StagePending, err)
	}

	chunks := p.splitter.Split(text)
	log.Info("document chunked", zap.Int("chunks", len(chunks)))

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := p.indexBatch(ctx, doc, chunks[start:end], start); err != nil {
			return p.fail(ctx, doc.ID, StageEmbedding, err)
		}
	}

	if err := p.store.MarkDocumentProcessed(ctx, doc.ID); err != nil {
		return p.fail(ctx, doc.ID, StageIndexed, err)
	}
	log.Info("document indexed", zap.Int("chunks", len(chunks)))
	return nil
}

// indexBatch embeds one batch of chunk texts and inserts each with a fresh
// unique id. offset is the ordinal of the first chunk in the batch.
func (p *Pipeline) indexBatch(ctx context.Context, doc *models.Document, texts []string, offset int) error {
	vecs, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vecs) != len(texts) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", core.ErrEmbedding, len(vecs), len(texts))
	}

	for i := range texts {
		e := vectorindex.Entry{
			ID:     uuid.NewString(),
			Vector: vecs[i],
			Text:   texts[i],
			Meta: vectorindex.Metadata{
				DocumentID:     doc.ID,
				ConversationID: doc.ConversationID,
				Ordinal:        offset + i,
				Source:         doc.FileName,
			},
		}
		if err := p.index.Insert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// fail marks the document failed and wraps the step error as an ingestion
// error, keeping the underlying cause in the chain.
func (p *Pipeline) fail(ctx context.Context, docID, stage string, err error) error {
	_ = p.store.UpdateDocumentStatus(ctx, docID, models.DocStatusFailed)
	p.log.Warn("ingestion failed",
		zap.String("document_id", docID),
		zap.String("stage", stage),
		zap.Error(err))
	return fmt.Errorf("%w: stage %s: %w", core.ErrIngestion, stage, err)
}
