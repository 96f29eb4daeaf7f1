package auth_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	realjwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/jornal-destaque/internal/lib/jwt"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/password"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/services/auth"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) FindAdmin(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type SessionRepoMock struct {
	mock.Mock
}

func (m *SessionRepoMock) CreateSessionWithLimit(ctx context.Context, session models.Session, maxDevices int) (*models.Session, error) {
	args := m.Called(ctx, session, maxDevices)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *SessionRepoMock) FindActiveSession(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *SessionRepoMock) DeactivateAllSessions(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *SessionRepoMock) SweepExpiredSessions(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *SessionRepoMock) ListUserSessions(ctx context.Context, userID int64) ([]*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userID int64, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(tokenStr string) (*customjwt.Claims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.Claims), args.Error(1)
}

func (m *JwtMakerMock) TTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func claimsFor(userID int64, email string) *customjwt.Claims {
	return &customjwt.Claims{
		Email: email,
		RegisteredClaims: realjwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: realjwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "successful registration",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "leitor@example.com" &&
						user.Name == "Leitor" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "senha123" &&
						user.Role == models.RoleUser &&
						user.IsActive
				})).Return(&models.User{ID: 7, Email: "leitor@example.com", Role: models.RoleUser}, nil).Once()
			},
		},
		{
			name: "duplicate email",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(nil, repository.ErrEmailTaken).Once()
			},
			wantErr: auth.ErrEmailTaken,
		},
		{
			name: "repository error",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(nil, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.New(users, sessions, jwtMock, 2)

			tt.setupMocks(users)

			got, err := svc.Register(context.Background(), "Leitor", "+5511999990000", "leitor@example.com", "senha123")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), got.ID)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestService_RegisterAdmin(t *testing.T) {
	existingAdmin := &models.User{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin}

	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "first admin is created",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindAdmin", mock.Anything).
					Return(nil, repository.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Role == models.RoleAdmin
				})).Return(existingAdmin, nil).Once()
			},
		},
		{
			name: "repeated call with same email returns existing admin",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindAdmin", mock.Anything).Return(existingAdmin, nil).Once()
			},
		},
		{
			name: "different email is rejected once admin exists",
			setupMocks: func(r *UserRepoMock) {
				r.On("FindAdmin", mock.Anything).
					Return(&models.User{ID: 2, Email: "other@example.com", Role: models.RoleAdmin}, nil).Once()
			},
			wantErr: auth.ErrAdminExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.New(users, sessions, jwtMock, 2)

			tt.setupMocks(users)

			got, err := svc.RegisterAdmin(context.Background(), "Admin", "", "admin@example.com", "senha123")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.RoleAdmin, got.Role)
				assert.Equal(t, "admin@example.com", got.Email)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	rawPassword := "senha-correta"
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	activeUser := &models.User{
		ID:           10,
		Email:        "leitor@example.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(u *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name:     "successful login creates session",
			email:    "leitor@example.com",
			password: rawPassword,
			setupMocks: func(u *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock) {
				u.On("GetUserByEmail", mock.Anything, "leitor@example.com").Return(activeUser, nil).Once()
				j.On("GenerateToken", int64(10), "leitor@example.com").Return("signed-token", nil).Once()
				j.On("TTL").Return(24 * time.Hour)
				s.On("CreateSessionWithLimit", mock.Anything, mock.MatchedBy(func(sess models.Session) bool {
					return sess.UserID == 10 &&
						sess.Token == "signed-token" &&
						sess.IsActive &&
						sess.ExpiresAt.After(sess.CreatedAt)
				}), 2).Return(&models.Session{ID: 1, UserID: 10, Token: "signed-token"}, nil).Once()
			},
		},
		{
			name:     "unknown email",
			email:    "ninguem@example.com",
			password: rawPassword,
			setupMocks: func(u *UserRepoMock, _ *SessionRepoMock, _ *JwtMakerMock) {
				u.On("GetUserByEmail", mock.Anything, "ninguem@example.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "leitor@example.com",
			password: "senha-errada",
			setupMocks: func(u *UserRepoMock, _ *SessionRepoMock, _ *JwtMakerMock) {
				u.On("GetUserByEmail", mock.Anything, "leitor@example.com").Return(activeUser, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "inactive account",
			email:    "leitor@example.com",
			password: rawPassword,
			setupMocks: func(u *UserRepoMock, _ *SessionRepoMock, _ *JwtMakerMock) {
				inactive := *activeUser
				inactive.IsActive = false
				u.On("GetUserByEmail", mock.Anything, "leitor@example.com").Return(&inactive, nil).Once()
			},
			wantErr: auth.ErrAccountInactive,
		},
		{
			name:     "session store failure",
			email:    "leitor@example.com",
			password: rawPassword,
			setupMocks: func(u *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock) {
				u.On("GetUserByEmail", mock.Anything, "leitor@example.com").Return(activeUser, nil).Once()
				j.On("GenerateToken", int64(10), "leitor@example.com").Return("signed-token", nil).Once()
				j.On("TTL").Return(24 * time.Hour)
				s.On("CreateSessionWithLimit", mock.Anything, mock.Anything, 2).
					Return(nil, errors.New("db down")).Once()
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.New(users, sessions, jwtMock, 2)

			tt.setupMocks(users, sessions, jwtMock)

			got, err := svc.Login(context.Background(), tt.email, tt.password, nil)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "signed-token", got.Token)
				assert.Equal(t, int64((24 * time.Hour).Seconds()), got.ExpiresIn)
			}

			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestService_Resolve(t *testing.T) {
	activeUser := &models.User{ID: 10, Email: "leitor@example.com", Role: models.RoleUser, IsActive: true}
	session := &models.Session{ID: 3, UserID: 10, Token: "token", IsActive: true}

	tests := []struct {
		name       string
		setupMocks func(u *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name: "valid token with active session",
			setupMocks: func(u *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(claimsFor(10, "leitor@example.com"), nil).Once()
				s.On("FindActiveSession", mock.Anything, "token").Return(session, nil).Once()
				u.On("GetUser", mock.Anything, int64(10)).Return(activeUser, nil).Once()
			},
		},
		{
			name: "bad signature",
			setupMocks: func(_ *UserRepoMock, _ *SessionRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(nil, customjwt.ErrInvalidToken).Once()
			},
			wantErr: auth.ErrUnauthorized,
		},
		{
			name: "valid token but session revoked",
			setupMocks: func(_ *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(claimsFor(10, "leitor@example.com"), nil).Once()
				s.On("FindActiveSession", mock.Anything, "token").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: auth.ErrUnauthorized,
		},
		{
			name: "session belongs to another user",
			setupMocks: func(_ *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(claimsFor(99, "outro@example.com"), nil).Once()
				s.On("FindActiveSession", mock.Anything, "token").Return(session, nil).Once()
			},
			wantErr: auth.ErrUnauthorized,
		},
		{
			name: "user deleted after token issued",
			setupMocks: func(u *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "token").Return(claimsFor(10, "leitor@example.com"), nil).Once()
				s.On("FindActiveSession", mock.Anything, "token").Return(session, nil).Once()
				u.On("GetUser", mock.Anything, int64(10)).Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: auth.ErrUnauthorized,
		},
		{
			name: "user deactivated after token issued",
			setupMocks: func(u *UserRepoMock, s *SessionRepoMock, j *JwtMakerMock) {
				inactive := *activeUser
				inactive.IsActive = false
				j.On("ParseToken", "token").Return(claimsFor(10, "leitor@example.com"), nil).Once()
				s.On("FindActiveSession", mock.Anything, "token").Return(session, nil).Once()
				u.On("GetUser", mock.Anything, int64(10)).Return(&inactive, nil).Once()
			},
			wantErr: auth.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.New(users, sessions, jwtMock, 2)

			tt.setupMocks(users, sessions, jwtMock)

			got, err := svc.Resolve(context.Background(), "token")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, auth.ErrUnauthorized)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(10), got.ID)
			}

			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestService_Logout(t *testing.T) {
	users := new(UserRepoMock)
	sessions := new(SessionRepoMock)
	jwtMock := new(JwtMakerMock)
	svc := auth.New(users, sessions, jwtMock, 2)

	sessions.On("DeactivateAllSessions", mock.Anything, int64(10)).Return(nil).Once()

	require.NoError(t, svc.Logout(context.Background(), 10))
	sessions.AssertExpectations(t)
}

func TestService_Sessions(t *testing.T) {
	t.Run("sweeps expired sessions before listing", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		jwtMock := new(JwtMakerMock)
		svc := auth.New(users, sessions, jwtMock, 2)

		stored := []*models.Session{
			{ID: 2, UserID: 10, IsActive: true, ExpiresAt: time.Now().Add(time.Hour)},
			{ID: 1, UserID: 10, IsActive: false, ExpiresAt: time.Now().Add(-time.Hour)},
		}
		sessions.On("SweepExpiredSessions", mock.Anything, int64(10)).Return(nil).Once()
		sessions.On("ListUserSessions", mock.Anything, int64(10)).Return(stored, nil).Once()

		got, err := svc.Sessions(context.Background(), 10)
		require.NoError(t, err)
		require.Equal(t, stored, got)
		sessions.AssertExpectations(t)
	})

	t.Run("sweep failure stops listing", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		jwtMock := new(JwtMakerMock)
		svc := auth.New(users, sessions, jwtMock, 2)

		sessions.On("SweepExpiredSessions", mock.Anything, int64(10)).Return(errors.New("db down")).Once()

		_, err := svc.Sessions(context.Background(), 10)
		require.Error(t, err)
		sessions.AssertNotCalled(t, "ListUserSessions", mock.Anything, mock.Anything)
	})
}
