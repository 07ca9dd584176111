// Package uploads is the attachment boundary: product images, supplier
// documents. Files land under a configured directory and are served back by
// relative URL. Content types are sniffed, never trusted from the client.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

var allowedTypes = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Stored describes a persisted upload.
type Stored struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store writes uploads to the local filesystem.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore constructs Store. dir is created on first save.
func NewStore(dir string, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Store{dir: dir, maxBytes: maxBytes}
}

// Save sniffs the content type, enforces the size cap and persists the file
// under a generated name.
func (s *Store) Save(_ context.Context, r io.Reader) (Stored, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Stored{}, err
	}
	head = head[:n]
	if n == 0 {
		return Stored{}, shared.NewValidationError("file", "empty upload")
	}

	contentType := http.DetectContentType(head)
	contentType = strings.Split(contentType, ";")[0]
	ext, ok := allowedTypes[contentType]
	if !ok {
		return Stored{}, shared.NewValidationError("file", fmt.Sprintf("unsupported content type %s", contentType))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Stored{}, err
	}
	id := uuid.NewString()
	name := id + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return Stored{}, err
	}
	defer f.Close()

	written, err := f.Write(head)
	if err != nil {
		return Stored{}, err
	}
	rest, err := io.Copy(f, io.LimitReader(r, s.maxBytes-int64(written)+1))
	if err != nil {
		return Stored{}, err
	}
	size := int64(written) + rest
	if size > s.maxBytes {
		_ = os.Remove(filepath.Join(s.dir, name))
		return Stored{}, shared.NewValidationError("file", fmt.Sprintf("exceeds %d byte limit", s.maxBytes))
	}

	return Stored{
		ID:          id,
		URL:         "/api/v1/uploads/" + name,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Open returns the stored file for serving. Name is restricted to a bare
// file name so path traversal cannot escape the directory.
func (s *Store) Open(name string) (*os.File, error) {
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return nil, shared.ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, shared.ErrNotFound
	}
	return f, err
}
