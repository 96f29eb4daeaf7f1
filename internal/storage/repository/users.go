package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

const userColumns = `id, name, phone, email, password_hash, subscription_type,
			      role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var subType sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Phone, &u.Email, &u.PasswordHash,
		&subType, &u.Role, &u.IsActive, &u.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if subType.Valid {
		st := models.SubscriptionType(subType.String)
		u.SubscriptionType = &st
	}
	if updatedAt.Valid {
		u.UpdatedAt = &updatedAt.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его с заполненным ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"

	var subType *string
	if user.SubscriptionType != nil {
		st := string(*user.SubscriptionType)
		subType = &st
	}
	query := `INSERT INTO users (name, phone, email, password_hash, subscription_type, role)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Phone, user.Email, user.PasswordHash, subType, string(user.Role))
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 — нарушение уникальности (email).
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает список пользователей с пагинацией.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UserUpdate описывает частичное обновление пользователя: nil-поля не трогаются.
type UserUpdate struct {
	Name             *string
	Phone            *string
	Email            *string
	SubscriptionType *models.SubscriptionType
	IsActive         *bool
}

// UpdateUser применяет частичное обновление и возвращает свежую запись.
func (s *Storage) UpdateUser(ctx context.Context, userID int64, upd UserUpdate) (*models.User, error) {
	const op = "storage.UpdateUser"

	query := `UPDATE users
			  SET name = COALESCE($2, name),
			      phone = COALESCE($3, phone),
			      email = COALESCE($4, email),
			      subscription_type = COALESCE($5, subscription_type),
			      is_active = COALESCE($6, is_active),
			      updated_at = now()
			  WHERE id = $1
			  RETURNING ` + userColumns
	var subType *string
	if upd.SubscriptionType != nil {
		st := string(*upd.SubscriptionType)
		subType = &st
	}
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		userID, upd.Name, upd.Phone, upd.Email, subType, upd.IsActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// DeactivateUser выполняет мягкое удаление пользователя.
func (s *Storage) DeactivateUser(ctx context.Context, userID int64) error {
	const op = "storage.DeactivateUser"

	query := `UPDATE users
			  SET is_active = FALSE, updated_at = now()
			  WHERE id = $1 AND role <> $2`
	result, err := s.DB.ExecContext(ctx, query, userID, string(models.RoleAdmin))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		var role string
		err := s.DB.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w", op, ErrAdminProtected)
	}
	return nil
}

// FindAdmin возвращает первого администратора системы, если он есть.
func (s *Storage) FindAdmin(ctx context.Context) (*models.User, error) {
	const op = "storage.FindAdmin"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE role = $1
			  ORDER BY id
			  LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, string(models.RoleAdmin)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
