package models

import "time"

// Session представляет серверную запись выданного токена.
//
// Запись пригодна для авторизации только пока IsActive и ExpiresAt
// в будущем. Сессии никогда не удаляются, только деактивируются:
// история нужна для аудита и отзыва токенов.
type Session struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Token      string     `json:"-"`
	DeviceInfo *string    `json:"device_info"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	IsActive   bool       `json:"is_active"`
}

// Usable сообщает, пригодна ли сессия для авторизации в момент now.
func (s Session) Usable(now time.Time) bool {
	return s.IsActive && s.ExpiresAt.After(now)
}
