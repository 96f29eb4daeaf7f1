// Package auth содержит бизнес-логику регистрации, входа и проверки сессий.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/jornal-destaque/internal/lib/jwt"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/password"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

var (
	// ErrInvalidCredentials неверная пара email/пароль.
	// Наружу уходит одна и та же ошибка независимо от того,
	// не найден пользователь или не совпал пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive учётная запись деактивирована
	ErrAccountInactive = errors.New("account is inactive")
	// ErrUnauthorized токен или сессия не прошли проверку
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmailTaken email уже зарегистрирован
	ErrEmailTaken = errors.New("email already registered")
	// ErrAdminExists администратор уже создан с другим email
	ErrAdminExists = errors.New("admin already exists")
)

// UserRepository контракт хранилища пользователей
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	FindAdmin(ctx context.Context) (*models.User, error)
}

// SessionRepository контракт хранилища сессий
type SessionRepository interface {
	// CreateSessionWithLimit атомарно создаёт сессию, соблюдая лимит
	// активных устройств пользователя.
	CreateSessionWithLimit(ctx context.Context, session models.Session, maxDevices int) (*models.Session, error)
	FindActiveSession(ctx context.Context, token string) (*models.Session, error)
	DeactivateAllSessions(ctx context.Context, userID int64) error
	SweepExpiredSessions(ctx context.Context, userID int64) error
	ListUserSessions(ctx context.Context, userID int64) ([]*models.Session, error)
}

// Service отвечает за учётные записи и жизненный цикл сессий
type Service struct {
	users      UserRepository
	sessions   SessionRepository
	jwtMaker   jwt.Maker
	maxDevices int
}

// New создаёт сервис аутентификации
func New(users UserRepository, sessions SessionRepository, jwtMaker jwt.Maker, maxDevices int) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		jwtMaker:   jwtMaker,
		maxDevices: maxDevices,
	}
}

// Register создаёт пользователя с ролью "user" и хэшированным паролем
func (s *Service) Register(ctx context.Context, name, phone, email, rawPassword string) (*models.User, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Name:         name,
		Phone:        phone,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// RegisterAdmin создаёт пользователя с ролью "admin".
// Повторный вызов с email существующего администратора возвращает его,
// с другим email — ErrAdminExists.
func (s *Service) RegisterAdmin(ctx context.Context, name, phone, email, rawPassword string) (*models.User, error) {
	const op = "services.auth.RegisterAdmin"

	existing, err := s.users.FindAdmin(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		if existing.Email == email {
			return existing, nil
		}
		return nil, ErrAdminExists
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Name:         name,
		Phone:        phone,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// LoginResult результат успешного входа
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresIn int64 // секунды до истечения токена
}

// Login проверяет пароль, выпускает JWT и регистрирует сессию.
// При превышении лимита устройств самая старая сессия деактивируется.
func (s *Service) Login(ctx context.Context, email, rawPassword string, deviceInfo *string) (*LoginResult, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !password.Verify(user.PasswordHash, rawPassword) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	_, err = s.sessions.CreateSessionWithLimit(ctx, models.Session{
		UserID:     user.ID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.jwtMaker.TTL()),
		IsActive:   true,
	}, s.maxDevices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.jwtMaker.TTL().Seconds()),
	}, nil
}

// Resolve проверяет токен на каждом запросе: подпись и срок JWT,
// активную запись сессии в базе и существование пользователя.
// Любой сбой проверки превращается в ErrUnauthorized.
func (s *Service) Resolve(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.Resolve"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthorized
	}

	session, err := s.sessions.FindActiveSession(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if session.UserID != userID {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// Logout деактивирует все сессии пользователя
func (s *Service) Logout(ctx context.Context, userID int64) error {
	const op = "services.auth.Logout"
	if err := s.sessions.DeactivateAllSessions(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Sessions возвращает список сессий пользователя. Перед выборкой гасит
// просроченные записи, чтобы флаг is_active совпадал со сроком жизни.
func (s *Service) Sessions(ctx context.Context, userID int64) ([]*models.Session, error) {
	const op = "services.auth.Sessions"
	if err := s.sessions.SweepExpiredSessions(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	list, err := s.sessions.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
