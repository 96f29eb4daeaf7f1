package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Sessions(ctx context.Context, userID int64) ([]*models.Session, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]*models.Session)
	return list, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(user *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/my", nil)

	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	if user != nil {
		ctx = context.WithValue(ctx, middlewarectx.CurrentUser, user)
	}
	return req.WithContext(ctx)
}

func TestSessionsHandler_ServeHTTP(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RoleUser, IsActive: true}
	now := time.Now().UTC()
	device := "Chrome on Linux"

	t.Run("expired session renders unusable", func(t *testing.T) {
		list := []*models.Session{
			{
				ID:         2,
				UserID:     user.ID,
				DeviceInfo: &device,
				CreatedAt:  now.Add(-time.Hour),
				ExpiresAt:  now.Add(23 * time.Hour),
				IsActive:   true,
			},
			{
				ID:        1,
				UserID:    user.ID,
				CreatedAt: now.Add(-48 * time.Hour),
				ExpiresAt: now.Add(-24 * time.Hour),
				IsActive:  true, // флаг ещё не свёрнут, но срок прошёл
			},
		}

		serviceMock := new(AuthServiceMock)
		serviceMock.On("Sessions", mock.Anything, user.ID).Return(list, nil).Once()

		handler := New(newNoopLogger(), serviceMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest(user))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])

		data := got["data"].(map[string]any)
		views := data["sessions"].([]any)
		require.Len(t, views, 2)

		live := views[0].(map[string]any)
		assert.Equal(t, float64(2), live["id"])
		assert.Equal(t, device, live["device_info"])
		assert.True(t, live["usable"].(bool))

		expired := views[1].(map[string]any)
		assert.Equal(t, float64(1), expired["id"])
		assert.False(t, expired["usable"].(bool))

		serviceMock.AssertExpectations(t)
	})

	t.Run("no sessions", func(t *testing.T) {
		serviceMock := new(AuthServiceMock)
		serviceMock.On("Sessions", mock.Anything, user.ID).Return(nil, nil).Once()

		handler := New(newNoopLogger(), serviceMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest(user))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data := got["data"].(map[string]any)
		assert.Empty(t, data["sessions"])
	})

	t.Run("service error", func(t *testing.T) {
		serviceMock := new(AuthServiceMock)
		serviceMock.On("Sessions", mock.Anything, user.ID).Return(nil, errors.New("db down")).Once()

		handler := New(newNoopLogger(), serviceMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest(user))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing user in context", func(t *testing.T) {
		serviceMock := new(AuthServiceMock)
		handler := New(newNoopLogger(), serviceMock)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, newRequest(nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		serviceMock.AssertNotCalled(t, "Sessions")
	})
}
