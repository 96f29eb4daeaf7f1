package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

const journalColumns = `id, title, cover_path, pdf_path, published_at, is_active, created_at, updated_at`

func scanJournal(row interface{ Scan(dest ...any) error }) (*models.Journal, error) {
	j := &models.Journal{}
	var coverPath sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&j.ID, &j.Title, &coverPath, &j.PDFPath,
		&j.PublishedAt, &j.IsActive, &j.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if coverPath.Valid {
		j.CoverPath = &coverPath.String
	}
	if updatedAt.Valid {
		j.UpdatedAt = &updatedAt.Time
	}
	return j, nil
}

// CreateJournal сохраняет новый выпуск журнала.
func (s *Storage) CreateJournal(ctx context.Context, journal models.Journal) (*models.Journal, error) {
	const op = "storage.CreateJournal"

	query := `INSERT INTO journals (title, cover_path, pdf_path)
			  VALUES ($1, $2, $3)
			  RETURNING ` + journalColumns
	created, err := scanJournal(s.DB.QueryRowContext(ctx, query,
		journal.Title, journal.CoverPath, journal.PDFPath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetJournal возвращает выпуск по ID. При activeOnly неактивные выпуски
// считаются отсутствующими.
func (s *Storage) GetJournal(ctx context.Context, id int64, activeOnly bool) (*models.Journal, error) {
	const op = "storage.GetJournal"

	query := `SELECT ` + journalColumns + `
			  FROM journals
			  WHERE id = $1 AND (NOT $2 OR is_active)`
	j, err := scanJournal(s.DB.QueryRowContext(ctx, query, id, activeOnly))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return j, nil
}

// JournalFilter параметры выборки выпусков.
type JournalFilter struct {
	// ActiveOnly ограничивает выборку активными выпусками.
	ActiveOnly bool
	// TitleSearch подстрока для поиска по заголовку (без учёта регистра).
	TitleSearch *string
	// From и To ограничивают дату публикации включительно.
	From *time.Time
	To   *time.Time
	// Limit и Offset пагинация.
	Limit  int
	Offset int
}

// ListJournals возвращает выпуски по фильтру, новые первыми.
func (s *Storage) ListJournals(ctx context.Context, filter JournalFilter) ([]*models.Journal, error) {
	const op = "storage.ListJournals"

	query := `SELECT ` + journalColumns + `
			  FROM journals
			  WHERE (NOT $1 OR is_active)
			    AND ($2::TEXT IS NULL OR title ILIKE '%' || $2 || '%')
			    AND ($3::TIMESTAMPTZ IS NULL OR published_at >= $3)
			    AND ($4::TIMESTAMPTZ IS NULL OR published_at <= $4)
			  ORDER BY published_at DESC, id DESC
			  LIMIT $5 OFFSET $6`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.ActiveOnly, filter.TitleSearch, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Journal
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, j)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// JournalUpdate описывает частичное обновление выпуска: nil-поля не трогаются.
type JournalUpdate struct {
	Title       *string
	CoverPath   *string
	PDFPath     *string
	PublishedAt *time.Time
	IsActive    *bool
}

// UpdateJournal применяет частичное обновление и возвращает свежую запись.
func (s *Storage) UpdateJournal(ctx context.Context, id int64, upd JournalUpdate) (*models.Journal, error) {
	const op = "storage.UpdateJournal"

	query := `UPDATE journals
			  SET title = COALESCE($2, title),
			      cover_path = COALESCE($3, cover_path),
			      pdf_path = COALESCE($4, pdf_path),
			      published_at = COALESCE($5, published_at),
			      is_active = COALESCE($6, is_active),
			      updated_at = now()
			  WHERE id = $1
			  RETURNING ` + journalColumns
	j, err := scanJournal(s.DB.QueryRowContext(ctx, query,
		id, upd.Title, upd.CoverPath, upd.PDFPath, upd.PublishedAt, upd.IsActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return j, nil
}

// DeactivateJournal выполняет мягкое удаление выпуска.
func (s *Storage) DeactivateJournal(ctx context.Context, id int64) error {
	const op = "storage.DeactivateJournal"

	query := `UPDATE journals
			  SET is_active = FALSE, updated_at = now()
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
