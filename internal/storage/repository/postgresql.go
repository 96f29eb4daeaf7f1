// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, сессиями, журналами, подписками
// и заявками на подписку.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища; сервисы проверяют их через errors.Is.
var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyProcessed заявка уже была одобрена или отклонена.
	ErrAlreadyProcessed = errors.New("request already processed")
	// ErrEmailTaken email уже занят другим пользователем.
	ErrEmailTaken = errors.New("email already in use")
	// ErrAdminProtected администратора нельзя деактивировать.
	ErrAdminProtected = errors.New("admin account cannot be deactivated")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы со всеми таблицами системы.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'sessions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table sessions missing or query error: %w", err)
	}
	return nil
}
