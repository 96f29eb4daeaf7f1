package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jornal-destaque/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(config.Uploads{
		UploadDir:    t.TempDir(),
		MaxFileSize:  1024,
		FilesBaseURL: "http://localhost:8080/",
	})
	require.NoError(t, err)
	return store
}

func TestSaveCover(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(strings.NewReader("fake image bytes"), "capa.PNG", "image/png", 16, KindCover)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "covers/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestSavePDF(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(strings.NewReader("%PDF-1.7"), "edicao.pdf", "application/pdf", 8, KindPDF)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "pdfs/"))
	assert.True(t, strings.HasSuffix(rel, ".pdf"))
}

func TestSaveUniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save(strings.NewReader("a"), "same.pdf", "application/pdf", 1, KindPDF)
	require.NoError(t, err)
	second, err := store.Save(strings.NewReader("b"), "same.pdf", "application/pdf", 1, KindPDF)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveRejectsWrongType(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name        string
		contentType string
		kind        Kind
	}{
		{"pdf as cover", "application/pdf", KindCover},
		{"image as pdf", "image/png", KindPDF},
		{"text as cover", "text/plain", KindCover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(strings.NewReader("x"), "file.bin", tt.contentType, 1, tt.kind)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestSaveRejectsOversized(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(strings.NewReader("x"), "big.pdf", "application/pdf", 4096, KindPDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveRejectsOversizedBody(t *testing.T) {
	store := newTestStore(t)

	body := strings.Repeat("a", 2048)
	_, err := store.Save(strings.NewReader(body), "big.pdf", "application/pdf", 10, KindPDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(strings.NewReader("bytes"), "cover.jpg", "image/jpeg", 5, KindCover)
	require.NoError(t, err)

	require.NoError(t, store.Delete(rel))

	_, err = os.Stat(filepath.Join(store.Dir(), filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingFile(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Delete("covers/nao-existe.png"))
	assert.NoError(t, store.Delete(""))
}

func TestURL(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, "http://localhost:8080/files/covers/a.png", store.URL("covers/a.png"))
	assert.Equal(t, "", store.URL(""))
}
