package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

const sessionColumns = `id, user_id, token, device_info, created_at, expires_at, is_active`

func scanSession(row interface{ Scan(dest ...any) error }) (*models.Session, error) {
	sess := &models.Session{}
	var deviceInfo sql.NullString
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.Token, &deviceInfo,
		&sess.CreatedAt, &sess.ExpiresAt, &sess.IsActive); err != nil {
		return nil, err
	}
	if deviceInfo.Valid {
		sess.DeviceInfo = &deviceInfo.String
	}
	return sess, nil
}

// CreateSessionWithLimit создаёт сессию, применяя лимит устройств.
//
// Вся последовательность — деактивация истёкших, подсчёт действующих,
// вытеснение самой старой при переполнении и вставка новой записи —
// выполняется в одной транзакции. Блокировка строки пользователя
// (SELECT ... FOR UPDATE) сериализует конкурентные логины одного
// пользователя: два одновременных логина не могут оба проскочить
// под лимитом. При равных created_at вытесняется сессия с меньшим id.
func (s *Storage) CreateSessionWithLimit(ctx context.Context, session models.Session, maxDevices int) (*models.Session, error) {
	const op = "storage.CreateSessionWithLimit"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var lockedID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE id = $1 FOR UPDATE`, session.UserID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE sessions
		 SET is_active = FALSE
		 WHERE user_id = $1 AND is_active AND expires_at <= now()`, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var activeCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions
		 WHERE user_id = $1 AND is_active AND expires_at > now()`, session.UserID).Scan(&activeCount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if activeCount >= maxDevices {
		_, err = tx.ExecContext(ctx,
			`UPDATE sessions
			 SET is_active = FALSE
			 WHERE id = (
			     SELECT id FROM sessions
			     WHERE user_id = $1 AND is_active AND expires_at > now()
			     ORDER BY created_at, id
			     LIMIT 1
			 )`, session.UserID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	query := `INSERT INTO sessions (user_id, token, device_info, expires_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + sessionColumns
	created, err := scanSession(tx.QueryRowContext(ctx, query,
		session.UserID, session.Token, session.DeviceInfo, session.ExpiresAt))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// FindActiveSession возвращает действующую сессию по точной строке токена.
//
// Фильтр обязан проверять оба условия: флаг is_active и срок действия.
// Запись, удовлетворяющая только одному из них, для авторизации непригодна.
func (s *Storage) FindActiveSession(ctx context.Context, token string) (*models.Session, error) {
	const op = "storage.FindActiveSession"

	query := `SELECT ` + sessionColumns + `
			  FROM sessions
			  WHERE token = $1 AND is_active AND expires_at > now()
			  LIMIT 1`
	sess, err := scanSession(s.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// DeactivateAllSessions отзывает все сессии пользователя (logout).
func (s *Storage) DeactivateAllSessions(ctx context.Context, userID int64) error {
	const op = "storage.DeactivateAllSessions"

	query := `UPDATE sessions
			  SET is_active = FALSE
			  WHERE user_id = $1 AND is_active`
	if _, err := s.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SweepExpiredSessions помечает истёкшие, но всё ещё активные сессии
// пользователя неактивными. Операция идемпотентна.
func (s *Storage) SweepExpiredSessions(ctx context.Context, userID int64) error {
	const op = "storage.SweepExpiredSessions"

	query := `UPDATE sessions
			  SET is_active = FALSE
			  WHERE user_id = $1 AND is_active AND expires_at <= now()`
	if _, err := s.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUserSessions возвращает сессии пользователя, новые первыми.
func (s *Storage) ListUserSessions(ctx context.Context, userID int64) ([]*models.Session, error) {
	const op = "storage.ListUserSessions"

	query := `SELECT ` + sessionColumns + `
			  FROM sessions
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sess)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
