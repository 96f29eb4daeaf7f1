// Package access решает, доступно ли издание пользователю для чтения.
package access

import (
	"context"
	"fmt"
	"time"
)

// SubscriptionChecker контракт проверки активной подписки
type SubscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, userID int64) (bool, error)
}

// Service применяет правило доступа к содержимому изданий
type Service struct {
	subscriptions SubscriptionChecker
}

// New создаёт сервис проверки доступа
func New(subscriptions SubscriptionChecker) *Service {
	return &Service{subscriptions: subscriptions}
}

// PublishedToday сравнивает даты публикации и текущего момента в UTC,
// время суток не учитывается.
func PublishedToday(publishedAt, now time.Time) bool {
	py, pm, pd := publishedAt.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return py == ny && pm == nm && pd == nd
}

// Decide возвращает true, если чтение разрешено: либо есть активная
// подписка, либо издание вышло сегодня.
func Decide(hasSubscription bool, publishedAt, now time.Time) bool {
	return hasSubscription || PublishedToday(publishedAt, now)
}

// CanRead проверяет право пользователя на чтение издания,
// опубликованного в момент publishedAt.
func (s *Service) CanRead(ctx context.Context, userID int64, publishedAt time.Time) (bool, error) {
	const op = "services.access.CanRead"

	now := time.Now().UTC()
	if PublishedToday(publishedAt, now) {
		return true, nil
	}
	hasSub, err := s.subscriptions.HasActiveSubscription(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return hasSub, nil
}
