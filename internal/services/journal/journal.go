// Package journal содержит бизнес-логику каталога изданий и доступа к их содержимому.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// ErrAccessDenied у пользователя нет права читать содержимое издания
var ErrAccessDenied = errors.New("access to journal content denied")

// Repository определяет методы для работы с изданиями в хранилище.
type Repository interface {
	CreateJournal(ctx context.Context, journal models.Journal) (*models.Journal, error)
	GetJournal(ctx context.Context, id int64, activeOnly bool) (*models.Journal, error)
	ListJournals(ctx context.Context, filter repository.JournalFilter) ([]*models.Journal, error)
	UpdateJournal(ctx context.Context, id int64, upd repository.JournalUpdate) (*models.Journal, error)
	DeactivateJournal(ctx context.Context, id int64) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// AccessChecker решает, доступно ли пользователю содержимое издания
type AccessChecker interface {
	CanRead(ctx context.Context, userID int64, publishedAt time.Time) (bool, error)
}

// Service реализует операции над каталогом изданий с кешированием.
type Service struct {
	repo   Repository
	cache  Cache
	access AccessChecker
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, access AccessChecker, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		access: access,
		log:    log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("journal:%d", id)
}

// Create сохраняет новое издание и кладёт его в кеш
func (s *Service) Create(ctx context.Context, journal models.Journal) (*models.Journal, error) {
	created, err := s.repo.CreateJournal(ctx, journal)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new journal", slog.Int64("id", created.ID))

	if err := s.cache.Set(cacheKey(created.ID), created, time.Hour); err != nil {
		s.log.Warn("failed to cache journal", slog.String("key", cacheKey(created.ID)), sl.Err(err))
	}
	return created, nil
}

// Get возвращает издание по ID, сначала из кеша. При activeOnly
// скрытые издания считаются отсутствующими.
func (s *Service) Get(ctx context.Context, id int64, activeOnly bool) (*models.Journal, error) {
	var cached models.Journal
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		if activeOnly && !cached.IsActive {
			return nil, repository.ErrNotFound
		}
		return &cached, nil
	}

	journal, err := s.repo.GetJournal(ctx, id, activeOnly)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(id), journal, time.Hour); err != nil {
		s.log.Warn("failed to cache journal", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return journal, nil
}

// List возвращает издания по фильтру
func (s *Service) List(ctx context.Context, filter repository.JournalFilter) ([]*models.Journal, error) {
	return s.repo.ListJournals(ctx, filter)
}

// Read выдаёт издание вместе с правом на чтение содержимого:
// активная подписка либо публикация сегодняшним днём.
func (s *Service) Read(ctx context.Context, userID, id int64) (*models.Journal, error) {
	journal, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}

	allowed, err := s.access.CanRead(ctx, userID, journal.PublishedAt)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}
	return journal, nil
}

// Update изменяет издание и инвалидирует кеш
func (s *Service) Update(ctx context.Context, id int64, upd repository.JournalUpdate) (*models.Journal, error) {
	updated, err := s.repo.UpdateJournal(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate journal cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return updated, nil
}

// Deactivate скрывает издание из каталога
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.DeactivateJournal(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate journal cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return nil
}
