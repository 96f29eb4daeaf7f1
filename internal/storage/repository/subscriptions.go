package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

const subscriptionColumns = `id, user_id, subscription_type, start_date, end_date,
			      is_active, payment_method, created_at`

func scanSubscription(row interface{ Scan(dest ...any) error }) (*models.Subscription, error) {
	sub := &models.Subscription{}
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.Type, &sub.StartDate, &sub.EndDate,
		&sub.IsActive, &sub.PaymentMethod, &sub.CreatedAt); err != nil {
		return nil, err
	}
	return sub, nil
}

// CreateSubscription создаёт подписку и обновляет кешированный тип
// подписки пользователя в одной транзакции.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO subscriptions (user_id, subscription_type, start_date, end_date, payment_method)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + subscriptionColumns
	created, err := scanSubscription(tx.QueryRowContext(ctx, query,
		sub.UserID, string(sub.Type), sub.StartDate, sub.EndDate, string(sub.PaymentMethod)))
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 — нарушение внешнего ключа: пользователя не существует.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET subscription_type = $1, updated_at = now() WHERE id = $2`,
		string(created.Type), created.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// HasActiveSubscription сообщает, есть ли у пользователя хотя бы одна
// подписка с is_active и датой окончания в будущем. Кешированное поле
// subscription_type пользователя здесь намеренно не участвует.
func (s *Storage) HasActiveSubscription(ctx context.Context, userID int64) (bool, error) {
	const op = "storage.HasActiveSubscription"

	query := `SELECT EXISTS (
			      SELECT 1 FROM subscriptions
			      WHERE user_id = $1 AND is_active AND end_date > now()
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListUserSubscriptions возвращает активные подписки пользователя.
func (s *Storage) ListUserSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	const op = "storage.ListUserSubscriptions"

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1 AND is_active
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SubscriptionWithUser подписка вместе с краткой информацией о владельце.
type SubscriptionWithUser struct {
	Subscription models.Subscription `json:"subscription"`
	UserName     string              `json:"user_name"`
	UserEmail    string              `json:"user_email"`
}

// ListAllSubscriptions возвращает все подписки с данными владельцев.
func (s *Storage) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*SubscriptionWithUser, error) {
	const op = "storage.ListAllSubscriptions"

	query := `SELECT s.id, s.user_id, s.subscription_type, s.start_date, s.end_date,
			      s.is_active, s.payment_method, s.created_at, u.name, u.email
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  ORDER BY s.id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*SubscriptionWithUser
	for rows.Next() {
		item := &SubscriptionWithUser{}
		sub := &item.Subscription
		if err = rows.Scan(&sub.ID, &sub.UserID, &sub.Type, &sub.StartDate, &sub.EndDate,
			&sub.IsActive, &sub.PaymentMethod, &sub.CreatedAt, &item.UserName, &item.UserEmail); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
