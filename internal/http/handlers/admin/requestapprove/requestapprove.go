// Package requestapprove реализует HTTP-обработчик одобрения заявки на подписку.
// Одобрение создаёт подписку и ставит уведомление пользователю в очередь.
package requestapprove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Request представляет тело запроса на одобрение заявки.
type Request struct {
	AdminNote *string `json:"admin_note,omitempty"`
}

// Service описывает операцию одобрения заявки.
type Service interface {
	Approve(ctx context.Context, requestID, adminID int64, note *string) (*models.SubscriptionRequest, error)
}

// Handler обрабатывает запросы на одобрение заявок.
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
// @Summary Одобрение заявки на подписку
// @Description Переводит заявку в approved и оформляет подписку, повторное решение невозможно
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body Request false "Комментарий администратора"
// @Success 200 {object} response.OKResponse "Заявка одобрена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Заявка уже обработана"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/subscriptions/requests/{id}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.requestapprove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	admin, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("admin missing from context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request id"))
		return
	}

	// Тело не обязательно: решение можно принять без комментария.
	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	approved, err := h.service.Approve(r.Context(), id, admin.ID, req.AdminNote)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("request not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("request not found"))
		case errors.Is(err, repository.ErrAlreadyProcessed):
			log.Error("request already processed", slog.Int64("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("request already processed"))
		default:
			log.Error("failed to approve request", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not approve request"))
		}
		return
	}

	log.Info("request approved",
		slog.Int64("id", id),
		slog.Int64("admin_id", admin.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"request": approved,
	}))
}
