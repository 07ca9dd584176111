package uploads

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

// Minimal valid PNG header plus padding so sniffing sees image/png.
func pngBytes(size int) []byte {
	header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	out := make([]byte, size)
	copy(out, header)
	return out
}

func TestSaveAndOpen(t *testing.T) {
	store := NewStore(t.TempDir(), 1<<20)

	stored, err := store.Save(context.Background(), bytes.NewReader(pngBytes(1024)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", stored.ContentType)
	assert.Equal(t, int64(1024), stored.Size)
	assert.True(t, strings.HasSuffix(stored.URL, ".png"))

	f, err := store.Open(stored.ID + ".png")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestSaveRejectsUnknownType(t *testing.T) {
	store := NewStore(t.TempDir(), 1<<20)

	_, err := store.Save(context.Background(), strings.NewReader("#!/bin/sh\nrm -rf /\n"))
	assert.True(t, shared.IsValidation(err))
}

func TestSaveRejectsOversize(t *testing.T) {
	store := NewStore(t.TempDir(), 2048)

	_, err := store.Save(context.Background(), bytes.NewReader(pngBytes(4096)))
	assert.True(t, shared.IsValidation(err))
}

func TestSaveRejectsEmpty(t *testing.T) {
	store := NewStore(t.TempDir(), 1024)

	_, err := store.Save(context.Background(), bytes.NewReader(nil))
	assert.True(t, shared.IsValidation(err))
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := NewStore(t.TempDir(), 1024)

	_, err := store.Open("../etc/passwd")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
