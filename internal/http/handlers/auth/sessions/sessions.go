// Package sessions реализует HTTP-обработчик списка сессий текущего пользователя.
package sessions

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

// Service описывает интерфейс бизнес-логики сессий.
type Service interface {
	Sessions(ctx context.Context, userID int64) ([]*models.Session, error)
}

// View описывает сессию в ответе. Usable — пригодность для авторизации
// на момент запроса, а не сырой флаг из базы.
type View struct {
	ID         int64     `json:"id"`
	DeviceInfo *string   `json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Usable     bool      `json:"usable"`
}

// NewView собирает представление сессии на момент now.
func NewView(sess *models.Session, now time.Time) View {
	return View{
		ID:         sess.ID,
		DeviceInfo: sess.DeviceInfo,
		CreatedAt:  sess.CreatedAt,
		ExpiresAt:  sess.ExpiresAt,
		Usable:     sess.Usable(now),
	}
}

// Handler обрабатывает запросы на список своих сессий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Мои сессии
// @Description Возвращает историю сессий текущего пользователя
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Список сессий"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sessions/my [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.sessions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	list, err := h.service.Sessions(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list sessions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list sessions"))
		return
	}

	now := time.Now().UTC()
	views := make([]View, 0, len(list))
	for _, sess := range list {
		views = append(views, NewView(sess, now))
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"sessions": views,
	}))
}
