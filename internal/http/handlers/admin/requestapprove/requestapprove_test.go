package requestapprove

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

type ApproveServiceMock struct {
	mock.Mock
}

func (m *ApproveServiceMock) Approve(ctx context.Context, requestID, adminID int64, note *string) (*models.SubscriptionRequest, error) {
	args := m.Called(ctx, requestID, adminID, note)
	req, _ := args.Get(0).(*models.SubscriptionRequest)
	return req, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(id string, body []byte, admin *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/requests/"+id+"/approve", bytes.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	if admin != nil {
		ctx = context.WithValue(ctx, middlewarectx.CurrentUser, admin)
	}
	return req.WithContext(ctx)
}

func TestApproveHandler_ServeHTTP(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	note := "pagamento confirmado"

	tests := []struct {
		name           string
		requestID      string
		body           []byte
		wantNote       *string
		mockRequest    *models.SubscriptionRequest
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:      "approve with note",
			requestID: "5",
			body:      []byte(`{"admin_note":"pagamento confirmado"}`),
			wantNote:  &note,
			mockRequest: &models.SubscriptionRequest{
				ID:     5,
				UserID: 7,
				Status: models.RequestApproved,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:      "approve without body",
			requestID: "5",
			body:      nil,
			wantNote:  nil,
			mockRequest: &models.SubscriptionRequest{
				ID:     5,
				UserID: 7,
				Status: models.RequestApproved,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "request not found",
			requestID:      "5",
			mockErr:        repository.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "request not found",
		},
		{
			name:           "already processed",
			requestID:      "5",
			mockErr:        repository.ErrAlreadyProcessed,
			wantStatusCode: http.StatusConflict,
			wantError:      "request already processed",
		},
		{
			name:           "malformed id",
			requestID:      "abc",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ApproveServiceMock)
			if tt.mockRequest != nil || tt.mockErr != nil {
				serviceMock.On("Approve", mock.Anything, int64(5), admin.ID, tt.wantNote).
					Return(tt.mockRequest, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, newRequest(tt.requestID, tt.body, admin))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}

			serviceMock.AssertExpectations(t)
		})
	}

	t.Run("missing admin in context", func(t *testing.T) {
		serviceMock := new(ApproveServiceMock)
		handler := New(newNoopLogger(), serviceMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest("5", nil, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		serviceMock.AssertNotCalled(t, "Approve")
	})
}
