// Package createadmin реализует HTTP-обработчик создания администратора.
// Используется при начальной настройке сервиса.
package createadmin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/jornal-destaque/internal/http/response"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/services/auth"
)

// Request — входные данные для создания администратора.
type Request struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики создания администраторов.
type Service interface {
	RegisterAdmin(ctx context.Context, name, phone, email, password string) (*models.User, error)
}

// Handler обрабатывает запросы на создание администратора.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создание администратора
// @Description Создает пользователя с ролью admin
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные администратора"
// @Success 201 {object} response.OKResponse "Администратор создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/create-admin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.createadmin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.RegisterAdmin(r.Context(), req.Name, req.Phone, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			log.Error("email already registered", slog.String("email", req.Email))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		if errors.Is(err, auth.ErrAdminExists) {
			log.Error("admin already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("admin already exists"))
			return
		}
		log.Error("failed to create admin", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create admin"))
		return
	}

	log.Info("admin created", slog.Int64("user_id", user.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
