// Package subscription содержит бизнес-логику подписок и заявок на оффлайн-оплату.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/jornal-destaque/internal/lib/duration"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Repository определяет методы для работы с подписками и заявками в хранилище.
type Repository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	ListUserSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error)
	ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*repository.SubscriptionWithUser, error)

	CreateRequest(ctx context.Context, req models.SubscriptionRequest) (*models.SubscriptionRequest, error)
	GetRequest(ctx context.Context, id int64) (*models.SubscriptionRequest, error)
	ListRequestsByUser(ctx context.Context, userID int64) ([]*models.SubscriptionRequest, error)
	ListRequests(ctx context.Context, status *models.RequestStatus, limit, offset int) ([]*models.SubscriptionRequest, error)
	// ApproveRequest атомарно переводит заявку pending -> approved
	// и создаёт подписку.
	ApproveRequest(ctx context.Context, id, adminID int64, note *string, start, end time.Time) (*models.SubscriptionRequest, error)
	RejectRequest(ctx context.Context, id, adminID int64, note *string, now time.Time) (*models.SubscriptionRequest, error)
}

// UserGetter возвращает пользователя для писем об одобрении
type UserGetter interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// Notifier публикует событие об одобренной заявке
type Notifier interface {
	PublishApproval(notice models.ApprovalNotice) error
}

// Service реализует операции над подписками и заявками.
type Service struct {
	repo     Repository
	users    UserGetter
	notifier Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service. notifier может быть nil,
// тогда уведомления не отправляются.
func New(repo Repository, users UserGetter, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// Create оформляет подписку пользователю: срок считается от start
// по фиксированной длительности тарифа.
func (s *Service) Create(ctx context.Context, userID int64, subType models.SubscriptionType, payment models.PaymentMethod, start time.Time) (*models.Subscription, error) {
	const op = "services.subscription.Create"

	end, err := duration.EndDate(subType, start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreateSubscription(ctx, models.Subscription{
		UserID:        userID,
		Type:          subType,
		StartDate:     start,
		EndDate:       end,
		IsActive:      true,
		PaymentMethod: payment,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created subscription",
		slog.Int64("user_id", userID),
		slog.String("type", string(subType)),
		slog.Time("end_date", end))
	return created, nil
}

// ListMy возвращает подписки пользователя
func (s *Service) ListMy(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	return s.repo.ListUserSubscriptions(ctx, userID)
}

// ListAll возвращает все подписки с данными владельцев
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*repository.SubscriptionWithUser, error) {
	return s.repo.ListAllSubscriptions(ctx, limit, offset)
}

// CreateRequest создаёт заявку на подписку с оффлайн-оплатой
func (s *Service) CreateRequest(ctx context.Context, userID int64, subType models.SubscriptionType, paymentRef *string) (*models.SubscriptionRequest, error) {
	const op = "services.subscription.CreateRequest"

	created, err := s.repo.CreateRequest(ctx, models.SubscriptionRequest{
		UserID:           userID,
		Type:             subType,
		Status:           models.RequestPending,
		PaymentReference: paymentRef,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created subscription request",
		slog.Int64("id", created.ID),
		slog.Int64("user_id", userID),
		slog.String("type", string(subType)))
	return created, nil
}

// ListMyRequests возвращает заявки пользователя
func (s *Service) ListMyRequests(ctx context.Context, userID int64) ([]*models.SubscriptionRequest, error) {
	return s.repo.ListRequestsByUser(ctx, userID)
}

// ListRequests возвращает заявки с фильтром по статусу
func (s *Service) ListRequests(ctx context.Context, status *models.RequestStatus, limit, offset int) ([]*models.SubscriptionRequest, error) {
	return s.repo.ListRequests(ctx, status, limit, offset)
}

// Approve одобряет заявку: подписка оформляется от момента одобрения,
// о результате уведомляется владелец заявки. Сбой уведомления не
// откатывает одобрение.
func (s *Service) Approve(ctx context.Context, requestID, adminID int64, note *string) (*models.SubscriptionRequest, error) {
	const op = "services.subscription.Approve"

	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	start := time.Now().UTC()
	end, err := duration.EndDate(req.Type, start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	approved, err := s.repo.ApproveRequest(ctx, requestID, adminID, note, start, end)
	if err != nil {
		return nil, err
	}

	s.log.Info("approved subscription request",
		slog.Int64("id", requestID),
		slog.Int64("admin_id", adminID))

	s.notifyApproval(ctx, approved, end)
	return approved, nil
}

func (s *Service) notifyApproval(ctx context.Context, req *models.SubscriptionRequest, end time.Time) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.GetUser(ctx, req.UserID)
	if err != nil {
		s.log.Warn("failed to load user for approval notice", slog.Int64("user_id", req.UserID), sl.Err(err))
		return
	}
	err = s.notifier.PublishApproval(models.ApprovalNotice{
		Email:   user.Email,
		Name:    user.Name,
		Type:    req.Type,
		EndDate: end,
	})
	if err != nil {
		s.log.Warn("failed to publish approval notice", slog.Int64("request_id", req.ID), sl.Err(err))
	}
}

// Reject отклоняет заявку без создания подписки
func (s *Service) Reject(ctx context.Context, requestID, adminID int64, note *string) (*models.SubscriptionRequest, error) {
	rejected, err := s.repo.RejectRequest(ctx, requestID, adminID, note, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Info("rejected subscription request",
		slog.Int64("id", requestID),
		slog.Int64("admin_id", adminID))
	return rejected, nil
}
