// Package userremove реализует HTTP-обработчик деактивации пользователя.
// Учётная запись выключается, записи о подписках сохраняются.
package userremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Repository описывает методы деактивации пользователей.
type Repository interface {
	DeactivateUser(ctx context.Context, userID int64) error
	DeactivateAllSessions(ctx context.Context, userID int64) error
}

// Handler обрабатывает запросы на деактивацию пользователя.
type Handler struct {
	log  *slog.Logger
	repo Repository
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, repo Repository) *Handler {
	return &Handler{
		log:  log,
		repo: repo,
	}
}

// ServeHTTP godoc
// @Summary Деактивация пользователя
// @Description Выключает учётную запись и завершает все её сессии
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.OKResponse "Пользователь деактивирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуются права администратора"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	if admin, ok := middlewarectx.UserFromContext(r.Context()); ok && admin.ID == id {
		log.Error("admin tried to deactivate own account", slog.Int64("id", id))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cannot deactivate own account"))
		return
	}

	if err := h.repo.DeactivateUser(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("user not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		if errors.Is(err, repository.ErrAdminProtected) {
			log.Error("attempt to deactivate admin account", slog.Int64("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("cannot deactivate admin account"))
			return
		}
		log.Error("failed to deactivate user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deactivate user"))
		return
	}

	if err := h.repo.DeactivateAllSessions(r.Context(), id); err != nil {
		log.Error("failed to deactivate user sessions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deactivate user"))
		return
	}

	log.Info("user deactivated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user deactivated",
	}))
}
