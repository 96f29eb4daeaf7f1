// Package requestlist реализует HTTP-обработчик списка заявок на подписку.
package requestlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/userlist"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

// Service описывает операцию выборки заявок.
type Service interface {
	ListRequests(ctx context.Context, status *models.RequestStatus, limit, offset int) ([]*models.SubscriptionRequest, error)
}

// Handler обрабатывает запросы на просмотр заявок.
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
// @Summary Список заявок на подписку
// @Description Возвращает заявки, опционально отфильтрованные по статусу
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param status query string false "Статус заявки" Enums(pending, approved, rejected)
// @Param limit query int false "Количество записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} response.OKResponse "Список заявок"
// @Failure 400 {object} response.ErrorResponse "Некорректный статус"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/subscriptions/requests [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.requestlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var status *models.RequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed := models.RequestStatus(raw)
		switch parsed {
		case models.RequestPending, models.RequestApproved, models.RequestRejected:
			status = &parsed
		default:
			log.Error("unknown request status", slog.String("status", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown status, expected pending, approved or rejected"))
			return
		}
	}

	limit, offset := userlist.ParsePage(r)

	requests, err := h.service.ListRequests(r.Context(), status, limit, offset)
	if err != nil {
		log.Error("failed to list requests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list requests"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":    len(requests),
		"requests": requests,
	}))
}
