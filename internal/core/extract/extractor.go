// Package extract turns uploaded file bytes into plain text.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/Conversa/internal/core"
)

// Extractor resolves raw document bytes into text. The ingestion pipeline
// depends on this interface, never on a concrete parser.
type Extractor interface {
	Text(data []byte, contentType string) (string, error)
}

// Docconv extracts text with sajari/docconv (pdf, docx, html, ...), with a
// fast path for plain text uploads.
type Docconv struct {
	useReadability bool
}

var _ Extractor = (*Docconv)(nil)

func NewDocconv() *Docconv {
	return &Docconv{useReadability: false}
}

func (e *Docconv) Text(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if contentType == "" || contentType == "application/octet-stream" || strings.HasPrefix(contentType, "text/") {
		return string(data), nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("%w: extract %q: %v", core.ErrIngestion, contentType, err)
	}
	return res.Body, nil
}
