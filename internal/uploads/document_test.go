package uploads

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckAdvisory(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want error
	}{
		{name: "nil", doc: nil, want: ErrEmpty},
		{name: "empty", doc: &Document{Name: "cv.pdf"}, want: ErrEmpty},
		{name: "too large", doc: &Document{Name: "cv.pdf", Data: make([]byte, MaxBytes+1)}, want: ErrTooLarge},
		{name: "bad extension", doc: &Document{Name: "cv.png", Data: []byte("x")}, want: ErrUnsupportedType},
		{name: "ok", doc: &Document{Name: "CV.DOCX", Data: []byte("x")}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.doc.CheckAdvisory(); !errors.Is(err, tt.want) {
				t.Fatalf("CheckAdvisory() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFromFileSniffsContentType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("Go developer"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if doc.Name != "cv.txt" || !strings.HasPrefix(doc.ContentType, "text/plain") {
		t.Fatalf("unexpected document %+v", doc)
	}
	text, err := doc.Text(context.Background())
	if err != nil || text != "Go developer" {
		t.Fatalf("Text() = %q, %v", text, err)
	}
}

func TestFromMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("hello"))
	mw.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	doc, err := FromMultipart(req.MultipartForm.File["file"][0])
	if err != nil {
		t.Fatalf("FromMultipart: %v", err)
	}
	if doc.Name != "resume.txt" || string(doc.Data) != "hello" {
		t.Fatalf("unexpected document %+v", doc)
	}
}
