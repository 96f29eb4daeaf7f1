// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов, несущих
// идентификатор пользователя и email. MakerImpl — конкретная реализация
// с использованием секретного ключа и срока действия.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создает подписанный токен для пользователя.
	GenerateToken(userID int64, email string) (string, error)
	// ParseToken возвращает *Claims, если токен корректен и не истёк.
	ParseToken(tokenStr string) (*Claims, error)
	// TTL возвращает время жизни выдаваемых токенов.
	TTL() time.Duration
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// TTL возвращает настроенное время жизни выдаваемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
