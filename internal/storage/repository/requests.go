package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

const requestColumns = `id, user_id, subscription_type, status, payment_reference,
			      admin_note, approved_by, approved_at, created_at`

func scanRequest(row interface{ Scan(dest ...any) error }) (*models.SubscriptionRequest, error) {
	req := &models.SubscriptionRequest{}
	var paymentRef, adminNote sql.NullString
	var approvedBy sql.NullInt64
	var approvedAt sql.NullTime
	if err := row.Scan(&req.ID, &req.UserID, &req.Type, &req.Status, &paymentRef,
		&adminNote, &approvedBy, &approvedAt, &req.CreatedAt); err != nil {
		return nil, err
	}
	if paymentRef.Valid {
		req.PaymentReference = &paymentRef.String
	}
	if adminNote.Valid {
		req.AdminNote = &adminNote.String
	}
	if approvedBy.Valid {
		req.ApprovedBy = &approvedBy.Int64
	}
	if approvedAt.Valid {
		req.ApprovedAt = &approvedAt.Time
	}
	return req, nil
}

// CreateRequest сохраняет новую заявку на подписку в статусе pending.
func (s *Storage) CreateRequest(ctx context.Context, req models.SubscriptionRequest) (*models.SubscriptionRequest, error) {
	const op = "storage.CreateRequest"

	query := `INSERT INTO subscription_requests (user_id, subscription_type, payment_reference)
			  VALUES ($1, $2, $3)
			  RETURNING ` + requestColumns
	created, err := scanRequest(s.DB.QueryRowContext(ctx, query,
		req.UserID, req.Type, req.PaymentReference))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetRequest возвращает заявку по ID.
func (s *Storage) GetRequest(ctx context.Context, id int64) (*models.SubscriptionRequest, error) {
	const op = "storage.GetRequest"

	query := `SELECT ` + requestColumns + `
			  FROM subscription_requests
			  WHERE id = $1`
	req, err := scanRequest(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// ListRequestsByUser возвращает заявки пользователя, новые первыми.
func (s *Storage) ListRequestsByUser(ctx context.Context, userID int64) ([]*models.SubscriptionRequest, error) {
	const op = "storage.ListRequestsByUser"

	query := `SELECT ` + requestColumns + `
			  FROM subscription_requests
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC`
	return s.listRequests(ctx, op, query, userID)
}

// ListRequests возвращает заявки с необязательным фильтром по статусу.
func (s *Storage) ListRequests(ctx context.Context, status *models.RequestStatus, limit, offset int) ([]*models.SubscriptionRequest, error) {
	const op = "storage.ListRequests"

	var statusFilter *string
	if status != nil {
		st := string(*status)
		statusFilter = &st
	}
	query := `SELECT ` + requestColumns + `
			  FROM subscription_requests
			  WHERE ($1::TEXT IS NULL OR status = $1)
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	return s.listRequests(ctx, op, query, statusFilter, limit, offset)
}

func (s *Storage) listRequests(ctx context.Context, op, query string, args ...any) ([]*models.SubscriptionRequest, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, req)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ApproveRequest одобряет заявку: переводит статус pending -> approved,
// создаёт подписку и обновляет кешированный тип подписки пользователя.
// Все три записи меняются в одной транзакции; при сбое любой из них
// операция целиком откатывается. Повторное одобрение или одобрение
// уже отклонённой заявки возвращает ErrAlreadyProcessed.
func (s *Storage) ApproveRequest(ctx context.Context, id, adminID int64, note *string, start, end time.Time) (*models.SubscriptionRequest, error) {
	const op = "storage.ApproveRequest"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Условие status = 'pending' закрывает гонку двух конкурентных
	// модераций: вторая транзакция не найдёт строку и получит
	// ErrAlreadyProcessed.
	query := `UPDATE subscription_requests
			  SET status = $2, admin_note = $3, approved_by = $4, approved_at = $5
			  WHERE id = $1 AND status = $6
			  RETURNING ` + requestColumns
	req, err := scanRequest(tx.QueryRowContext(ctx, query,
		id, string(models.RequestApproved), note, adminID, start, string(models.RequestPending)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, s.classifyMissingRequest(ctx, tx, id))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, subscription_type, start_date, end_date, payment_method)
		 VALUES ($1, $2, $3, $4, $5)`,
		req.UserID, string(req.Type), start, end, string(models.PaymentPhysical))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET subscription_type = $1, updated_at = now() WHERE id = $2`,
		string(req.Type), req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// RejectRequest отклоняет заявку: переводит статус pending -> rejected.
func (s *Storage) RejectRequest(ctx context.Context, id, adminID int64, note *string, now time.Time) (*models.SubscriptionRequest, error) {
	const op = "storage.RejectRequest"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE subscription_requests
			  SET status = $2, admin_note = $3, approved_by = $4, approved_at = $5
			  WHERE id = $1 AND status = $6
			  RETURNING ` + requestColumns
	req, err := scanRequest(tx.QueryRowContext(ctx, query,
		id, string(models.RequestRejected), note, adminID, now, string(models.RequestPending)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, s.classifyMissingRequest(ctx, tx, id))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// classifyMissingRequest различает отсутствующую заявку и заявку
// в терминальном статусе, когда условный UPDATE не нашёл строку.
func (s *Storage) classifyMissingRequest(ctx context.Context, tx *sql.Tx, id int64) error {
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM subscription_requests WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrAlreadyProcessed
}
