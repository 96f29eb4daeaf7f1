package models

import "time"

// SubscriptionType тип подписки, определяет длительность доступа.
type SubscriptionType string

const (
	// SubscriptionDaily дневная подписка.
	SubscriptionDaily SubscriptionType = "diario"
	// SubscriptionWeekly недельная подписка.
	SubscriptionWeekly SubscriptionType = "semanal"
	// SubscriptionMonthly месячная подписка.
	SubscriptionMonthly SubscriptionType = "mensal"
	// SubscriptionYearly годовая подписка.
	SubscriptionYearly SubscriptionType = "anual"
)

// Valid сообщает, является ли тип подписки одним из известных.
func (t SubscriptionType) Valid() bool {
	switch t {
	case SubscriptionDaily, SubscriptionWeekly, SubscriptionMonthly, SubscriptionYearly:
		return true
	}
	return false
}

// PaymentMethod способ оплаты подписки.
type PaymentMethod string

const (
	// PaymentDigital оплата онлайн.
	PaymentDigital PaymentMethod = "digital"
	// PaymentPhysical оплата офлайн, подтверждается администратором.
	PaymentPhysical PaymentMethod = "fisico"
)

// Subscription представляет оформленную подписку пользователя.
//
// EndDate всегда равна StartDate плюс фиксированная длительность типа.
// Пользователь может иметь несколько исторических подписок; действующей
// считается запись с IsActive и EndDate в будущем.
type Subscription struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	Type          SubscriptionType `json:"subscription_type"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	IsActive      bool             `json:"is_active"`
	PaymentMethod PaymentMethod    `json:"payment_method"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Effective сообщает, даёт ли подписка доступ в момент now.
func (s Subscription) Effective(now time.Time) bool {
	return s.IsActive && s.EndDate.After(now)
}
