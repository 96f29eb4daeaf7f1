package models

import "time"

// Journal представляет выпуск журнала.
//
// CoverPath и PDFPath хранят относительные пути файлов в каталоге
// загрузок; в ответах API они преобразуются в абсолютные URL.
type Journal struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	CoverPath   *string    `json:"cover"`
	PDFPath     string     `json:"pdf"`
	PublishedAt time.Time  `json:"published_at"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
