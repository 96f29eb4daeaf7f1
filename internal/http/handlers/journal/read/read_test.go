package read

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/services/journal"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

type JournalServiceMock struct {
	mock.Mock
}

func (m *JournalServiceMock) Read(ctx context.Context, userID, id int64) (*models.Journal, error) {
	args := m.Called(ctx, userID, id)
	j, _ := args.Get(0).(*models.Journal)
	return j, args.Error(1)
}

type FileURLMock struct{}

func (FileURLMock) URL(relPath string) string {
	return "http://localhost:8080/files/" + relPath
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(id string, user *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journals/"+id, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	if user != nil {
		ctx = context.WithValue(ctx, middlewarectx.CurrentUser, user)
	}
	return req.WithContext(ctx)
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	cover := "covers/abc.png"
	published := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	user := &models.User{ID: 7, Role: models.RoleUser, IsActive: true}

	tests := []struct {
		name           string
		journalID      string
		mockJournal    *models.Journal
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:      "subscriber reads archive issue",
			journalID: "42",
			mockJournal: &models.Journal{
				ID:          42,
				Title:       "Edicao 120",
				PublishedAt: published,
				PDFPath:     "pdfs/edicao-120.pdf",
				CoverPath:   &cover,
				IsActive:    true,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no subscription and not today",
			journalID:      "42",
			mockErr:        journal.ErrAccessDenied,
			wantStatusCode: http.StatusForbidden,
			wantError:      "active subscription required",
		},
		{
			name:           "journal not found",
			journalID:      "42",
			mockErr:        repository.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "journal not found",
		},
		{
			name:           "malformed id",
			journalID:      "abc",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid journal id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(JournalServiceMock)
			if tt.mockJournal != nil || tt.mockErr != nil {
				serviceMock.On("Read", mock.Anything, user.ID, int64(42)).
					Return(tt.mockJournal, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock, FileURLMock{})
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, newRequest(tt.journalID, user))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				j := data["journal"].(map[string]any)
				assert.Equal(t, "Edicao 120", j["title"])
				assert.Equal(t, "http://localhost:8080/files/pdfs/edicao-120.pdf", j["pdf_url"])
				assert.Equal(t, "http://localhost:8080/files/covers/abc.png", j["cover_url"])
			}

			serviceMock.AssertExpectations(t)
		})
	}

	t.Run("missing user in context", func(t *testing.T) {
		serviceMock := new(JournalServiceMock)
		handler := New(newNoopLogger(), serviceMock, FileURLMock{})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest("42", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		serviceMock.AssertNotCalled(t, "Read")
	})
}
