package objectclient

import "context"

// ObjectClient stores raw uploaded files. The ingestion core never touches
// object storage; only the document handlers do.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
}
