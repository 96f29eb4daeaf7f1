// Package models содержит доменные структуры системы: пользователей,
// журналы, подписки, заявки на подписку и серверные сессии токенов.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Role роль пользователя в системе.
type Role string

const (
	// RoleAdmin роль администратора.
	RoleAdmin Role = "admin"
	// RoleUser роль обычного пользователя.
	RoleUser Role = "user"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя системы.
//
// SubscriptionType хранит тип последней оформленной подписки и служит
// только подсказкой: право доступа определяется по строкам таблицы
// subscriptions, а не по этому полю.
type User struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	PasswordHash     string            `json:"-"`
	SubscriptionType *SubscriptionType `json:"subscription_type"`
	Role             Role              `json:"role"`
	IsActive         bool              `json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        *time.Time        `json:"updated_at"`
}
