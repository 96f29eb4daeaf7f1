// Package my реализует HTTP-обработчик списка подписок текущего пользователя.
package my

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

// Service описывает интерфейс бизнес-логики подписок.
type Service interface {
	ListMy(ctx context.Context, userID int64) ([]*models.Subscription, error)
}

// View описывает подписку в ответе. IsActive — действующая активность:
// флаг записи вместе со сроком, а не сырой флаг из базы.
type View struct {
	ID            int64                   `json:"id"`
	Type          models.SubscriptionType `json:"subscription_type"`
	StartDate     time.Time               `json:"start_date"`
	EndDate       time.Time               `json:"end_date"`
	IsActive      bool                    `json:"is_active"`
	PaymentMethod models.PaymentMethod    `json:"payment_method"`
	CreatedAt     time.Time               `json:"created_at"`
}

// NewView собирает представление подписки на момент now.
func NewView(sub *models.Subscription, now time.Time) View {
	return View{
		ID:            sub.ID,
		Type:          sub.Type,
		StartDate:     sub.StartDate,
		EndDate:       sub.EndDate,
		IsActive:      sub.Effective(now),
		PaymentMethod: sub.PaymentMethod,
		CreatedAt:     sub.CreatedAt,
	}
}

// Handler обрабатывает запросы на список своих подписок.
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
// @Summary Мои подписки
// @Description Возвращает подписки текущего пользователя
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Список подписок"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions/my [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.my"

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

	subs, err := h.service.ListMy(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	now := time.Now().UTC()
	views := make([]View, 0, len(subs))
	for _, sub := range subs {
		views = append(views, NewView(sub, now))
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscriptions": views,
	}))
}
