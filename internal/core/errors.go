package core

import "errors"

// Domain errors. Every operation in the core returns one of these (wrapped
// with context via fmt.Errorf("%w: ...")) instead of leaking backend errors;
// the HTTP boundary maps them to status codes once.
var (
	// ErrValidation covers missing or malformed request fields. It is always
	// raised before any persistence happens.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound signals an unknown conversation or document.
	ErrNotFound = errors.New("not found")

	// ErrEmbedding signals an unreachable embedding service or a malformed
	// embedding response. The core never retries; retry policy belongs to
	// the caller.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIngestion covers unreadable files and chunking or embedding
	// failures during document ingestion.
	ErrIngestion = errors.New("ingestion failed")

	// ErrIndex covers vector index misuse, e.g. a dimension mismatch or an
	// invalid filter.
	ErrIndex = errors.New("index error")

	// ErrRetrieval signals a vector index query failure.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrLanguageModel signals a failed language model invocation.
	ErrLanguageModel = errors.New("language model failed")
)
