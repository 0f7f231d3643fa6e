// Package uploads models an uploaded CV document handed to the core as an
// opaque blob.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cvai-core/internal/extract"
	"cvai-core/internal/shared/util"
)

// MaxBytes is the advisory upload size limit enforced by the HTTP and CLI
// surfaces.
const MaxBytes = 5 << 20

var (
	ErrEmpty           = errors.New("document is empty")
	ErrTooLarge        = errors.New("document exceeds 5MB")
	ErrUnsupportedType = errors.New("document must be .pdf, .doc, .docx or .txt")
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// Document is an uploaded file.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsEmpty reports whether the document carries no payload.
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Data) == 0
}

// CheckAdvisory applies the surface-level type and size limits.
func (d *Document) CheckAdvisory() error {
	if d.IsEmpty() {
		return ErrEmpty
	}
	if len(d.Data) > MaxBytes {
		return ErrTooLarge
	}
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(d.Name))]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// Text extracts the document's plain text.
func (d *Document) Text(ctx context.Context) (string, error) {
	if d.IsEmpty() {
		return "", ErrEmpty
	}
	return extract.Text(ctx, d.Data, d.ContentType, d.Name)
}

// FromMultipart reads an uploaded form file, reading at most MaxBytes+1
// bytes so oversize uploads can still be reported.
func FromMultipart(fh *multipart.FileHeader) (*Document, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return read(fh.Filename, fh.Header.Get("Content-Type"), f)
}

// FromFile reads a document from the local filesystem.
func FromFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return read(filepath.Base(path), "", f)
}

func read(name, contentType string, r io.Reader) (*Document, error) {
	name, err := util.SanitizeFileName(name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := data
		if len(sniff) > 512 {
			sniff = sniff[:512]
		}
		contentType = http.DetectContentType(sniff)
	}
	return &Document{Name: name, ContentType: contentType, Data: data}, nil
}
