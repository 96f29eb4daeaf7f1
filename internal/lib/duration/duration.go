// Package duration задаёт фиксированные длительности типов подписки.
//
// Длительности намеренно не календарные: месяц — это всегда 30 суток,
// год — 365, независимо от числа дней в конкретном месяце или
// високосности года. Дата окончания подписки считается как
// start + For(type) и в создании подписок, и в одобрении заявок.
package duration

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

// For возвращает длительность доступа для типа подписки.
func For(t models.SubscriptionType) (time.Duration, error) {
	const op = "duration.For"
	switch t {
	case models.SubscriptionDaily:
		return 24 * time.Hour, nil
	case models.SubscriptionWeekly:
		return 7 * 24 * time.Hour, nil
	case models.SubscriptionMonthly:
		return 30 * 24 * time.Hour, nil
	case models.SubscriptionYearly:
		return 365 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("%s: unknown subscription type %q", op, t)
}

// EndDate возвращает дату окончания подписки типа t, начатой в start.
func EndDate(t models.SubscriptionType, start time.Time) (time.Time, error) {
	d, err := For(t)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(d), nil
}
