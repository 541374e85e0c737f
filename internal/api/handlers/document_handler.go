package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	db "github.com/markdave123-py/Conversa/internal/core/database"
	"github.com/markdave123-py/Conversa/internal/core/ingest"
	"github.com/markdave123-py/Conversa/internal/core/objectclient"
	"github.com/markdave123-py/Conversa/internal/core/vectorindex"
	"github.com/markdave123-py/Conversa/internal/models"
	"github.com/markdave123-py/Conversa/internal/pkg/response"
)

const maxUploadBytes = 32 << 20

type DocumentHandler struct {
	dbclient db.DbClient
	objects  objectclient.ObjectClient
	pipeline *ingest.Pipeline
	index    vectorindex.Index
	log      *zap.Logger
}

func NewDocumentHandler(
	dbclient db.DbClient,
	objects objectclient.ObjectClient,
	pipeline *ingest.Pipeline,
	index vectorindex.Index,
	log *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		dbclient: dbclient,
		objects:  objects,
		pipeline: pipeline,
		index:    index,
		log:      log,
	}
}

type uploadResult struct {
	FileName   string `json:"file_name"`
	DocumentID string `json:"document_id,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// UploadDocuments accepts one or more files under the multipart field
// "files" and ingests each one independently. A failure in one file does
// not abort the others; the response carries a per-file status.
func (h *DocumentHandler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		response.Error(w, http.StatusBadRequest, "at least one file is required under field 'files'")
		return
	}

	results := make([]uploadResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			results[i] = h.ingestOne(gctx, conversationID, fh)
			return nil
		})
	}
	// Per-file failures are reported in results; the goroutines never
	// return an error.
	_ = g.Wait()

	response.JSON(w, http.StatusCreated, results)
}

func (h *DocumentHandler) ingestOne(ctx context.Context, conversationID string, fh *multipart.FileHeader) uploadResult {
	res := uploadResult{FileName: fh.Filename, Status: models.DocStatusFailed}

	f, err := fh.Open()
	if err != nil {
		res.Error = fmt.Sprintf("open file: %v", err)
		return res
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		res.Error = fmt.Sprintf("read file: %v", err)
		return res
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	docID := uuid.NewString()
	key := storageKey(conversationID, docID, fh.Filename)

	url, err := h.objects.UploadFile(ctx, key, data, contentType)
	if err != nil {
		res.Error = fmt.Sprintf("store file: %v", err)
		return res
	}

	doc := &models.Document{
		ID:             docID,
		ConversationID: conversationID,
		FileName:       fh.Filename,
		StorageURL:     url,
		Status:         models.DocStatusUploaded,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := h.dbclient.CreateDocument(ctx, doc); err != nil {
		res.Error = fmt.Sprintf("store document metadata: %v", err)
		return res
	}
	res.DocumentID = doc.ID

	if err := h.pipeline.Ingest(ctx, doc, data, contentType); err != nil {
		h.log.Error("ingestion failed",
			zap.String("document_id", doc.ID),
			zap.String("file_name", doc.FileName),
			zap.Error(err),
		)
		res.Error = err.Error()
		return res
	}

	res.Status = models.DocStatusReady
	return res
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
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

	docs, err := h.dbclient.ListDocumentsByConversation(ctx, conversationID)
	if err != nil {
		h.log.Error("list documents failed", zap.Error(err))
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, docs)
}

// DeleteDocument removes the document's chunks from the index, its stored
// object, and finally the document row. Object deletion is best effort.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversationID")
	documentID := chi.URLParam(r, "documentID")

	doc, err := h.dbclient.GetDocumentByID(ctx, documentID)
	if err != nil {
		h.log.Error("get document failed", zap.Error(err))
		response.FromError(w, err)
		return
	}
	if doc == nil || doc.ConversationID != conversationID {
		response.Error(w, http.StatusNotFound, "document not found")
		return
	}

	if err := h.index.DeleteByDocument(ctx, documentID); err != nil {
		h.log.Error("delete chunks failed", zap.String("document_id", documentID), zap.Error(err))
		response.FromError(w, err)
		return
	}

	key := storageKey(doc.ConversationID, doc.ID, doc.FileName)
	if err := h.objects.DeleteFile(ctx, key); err != nil {
		h.log.Warn("delete stored object failed", zap.String("key", key), zap.Error(err))
	}

	if err := h.dbclient.DeleteDocument(ctx, documentID); err != nil {
		h.log.Error("delete document failed", zap.String("document_id", documentID), zap.Error(err))
		response.FromError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// storageKey keeps object keys deterministic so deletion can rebuild the
// key from the document row alone.
func storageKey(conversationID, documentID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", conversationID, documentID, filepath.Base(fileName))
}
