package journal_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/services/journal"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateJournal(ctx context.Context, j models.Journal) (*models.Journal, error) {
	args := m.Called(ctx, j)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Journal), args.Error(1)
}

func (m *RepoMock) GetJournal(ctx context.Context, id int64, activeOnly bool) (*models.Journal, error) {
	args := m.Called(ctx, id, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Journal), args.Error(1)
}

func (m *RepoMock) ListJournals(ctx context.Context, filter repository.JournalFilter) ([]*models.Journal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Journal), args.Error(1)
}

func (m *RepoMock) UpdateJournal(ctx context.Context, id int64, upd repository.JournalUpdate) (*models.Journal, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Journal), args.Error(1)
}

func (m *RepoMock) DeactivateJournal(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		*(result.(*models.Journal)) = args.Get(2).(models.Journal)
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type AccessMock struct {
	mock.Mock
}

func (m *AccessMock) CanRead(ctx context.Context, userID int64, publishedAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, publishedAt)
	return args.Bool(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(repo *RepoMock, cache *CacheMock, access *AccessMock) *journal.Service {
	return journal.New(repo, cache, access, discardLogger())
}

func sampleJournal(id int64, publishedAt time.Time) *models.Journal {
	return &models.Journal{
		ID:          id,
		Title:       "Edicao de sabado",
		PDFPath:     "pdfs/abc.pdf",
		PublishedAt: publishedAt,
		IsActive:    true,
		CreatedAt:   publishedAt,
	}
}

func TestService_Create(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	access := new(AccessMock)
	svc := newService(repo, cache, access)

	in := models.Journal{Title: "Edicao de sabado", PDFPath: "pdfs/abc.pdf", PublishedAt: time.Now().UTC(), IsActive: true}
	created := sampleJournal(5, in.PublishedAt)

	repo.On("CreateJournal", mock.Anything, in).Return(created, nil).Once()
	cache.On("Set", "journal:5", created, time.Hour).Return(nil).Once()

	got, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_CreateCacheFailureIsNotFatal(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	access := new(AccessMock)
	svc := newService(repo, cache, access)

	created := sampleJournal(5, time.Now().UTC())
	repo.On("CreateJournal", mock.Anything, mock.Anything).Return(created, nil).Once()
	cache.On("Set", "journal:5", created, time.Hour).Return(errors.New("redis down")).Once()

	got, err := svc.Create(context.Background(), models.Journal{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
}

func TestService_GetCacheHit(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	access := new(AccessMock)
	svc := newService(repo, cache, access)

	cached := *sampleJournal(7, time.Now().UTC())
	cache.On("Get", "journal:7", mock.Anything).Return(true, nil, cached).Once()

	got, err := svc.Get(context.Background(), 7, true)
	require.NoError(t, err)
	assert.Equal(t, cached.Title, got.Title)

	repo.AssertNotCalled(t, "GetJournal", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetCacheHitHiddenJournal(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	access := new(AccessMock)
	svc := newService(repo, cache, access)

	hidden := *sampleJournal(7, time.Now().UTC())
	hidden.IsActive = false
	cache.On("Get", "journal:7", mock.Anything).Return(true, nil, hidden).Once()

	_, err := svc.Get(context.Background(), 7, true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestService_GetCacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	access := new(AccessMock)
	svc := newService(repo, cache, access)

	stored := sampleJournal(7, time.Now().UTC())
	cache.On("Get", "journal:7", mock.Anything).Return(false, nil).Once()
	repo.On("GetJournal", mock.Anything, int64(7), true).Return(stored, nil).Once()
	cache.On("Set", "journal:7", stored, time.Hour).Return(nil).Once()

	got, err := svc.Get(context.Background(), 7, true)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Read(t *testing.T) {
	archiveDate := time.Now().UTC().AddDate(0, 0, -3)

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock, cache *CacheMock, access *AccessMock)
		wantErr    error
	}{
		{
			name: "subscriber reads archive issue",
			setupMocks: func(repo *RepoMock, cache *CacheMock, access *AccessMock) {
				cache.On("Get", "journal:7", mock.Anything).Return(false, nil).Once()
				repo.On("GetJournal", mock.Anything, int64(7), true).Return(sampleJournal(7, archiveDate), nil).Once()
				cache.On("Set", "journal:7", mock.Anything, time.Hour).Return(nil).Once()
				access.On("CanRead", mock.Anything, int64(10), archiveDate).Return(true, nil).Once()
			},
		},
		{
			name: "free user denied archive issue",
			setupMocks: func(repo *RepoMock, cache *CacheMock, access *AccessMock) {
				cache.On("Get", "journal:7", mock.Anything).Return(false, nil).Once()
				repo.On("GetJournal", mock.Anything, int64(7), true).Return(sampleJournal(7, archiveDate), nil).Once()
				cache.On("Set", "journal:7", mock.Anything, time.Hour).Return(nil).Once()
				access.On("CanRead", mock.Anything, int64(10), archiveDate).Return(false, nil).Once()
			},
			wantErr: journal.ErrAccessDenied,
		},
		{
			name: "missing journal",
			setupMocks: func(repo *RepoMock, cache *CacheMock, access *AccessMock) {
				cache.On("Get", "journal:7", mock.Anything).Return(false, nil).Once()
				repo.On("GetJournal", mock.Anything, int64(7), true).Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			access := new(AccessMock)
			svc := newService(repo, cache, access)

			tt.setupMocks(repo, cache, access)

			got, err := svc.Read(context.Background(), 10, 7)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), got.ID)
			}

			repo.AssertExpectations(t)
			access.AssertExpectations(t)
		})
	}
}

func TestService_UpdateInvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	access := new(AccessMock)
	svc := newService(repo, cache, access)

	title := "Nova capa"
	upd := repository.JournalUpdate{Title: &title}
	updated := sampleJournal(7, time.Now().UTC())
	updated.Title = title

	repo.On("UpdateJournal", mock.Anything, int64(7), upd).Return(updated, nil).Once()
	cache.On("Invalidate", "journal:7").Return(nil).Once()

	got, err := svc.Update(context.Background(), 7, upd)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)

	cache.AssertExpectations(t)
}

func TestService_DeactivateInvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	access := new(AccessMock)
	svc := newService(repo, cache, access)

	repo.On("DeactivateJournal", mock.Anything, int64(7)).Return(nil).Once()
	cache.On("Invalidate", "journal:7").Return(nil).Once()

	require.NoError(t, svc.Deactivate(context.Background(), 7))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
