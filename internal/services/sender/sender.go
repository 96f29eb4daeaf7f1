// Package sender отправляет email-уведомления об одобренных заявках.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/smtp"
	"github.com/magabrotheeeer/jornal-destaque/internal/models"
)

// Service читает сообщения брокера и рассылает письма подписчикам
type Service struct {
	mailer smtp.Mailer
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(mailer smtp.Mailer, log *slog.Logger) *Service {
	return &Service{
		mailer: mailer,
		log:    log,
	}
}

// SendSubscriptionApproved отправляет письмо об одобрении заявки на подписку
func (s *Service) SendSubscriptionApproved(body []byte) error {
	var notice models.ApprovalNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	msg := smtp.Message{
		To:      []string{notice.Email},
		Subject: "Sua assinatura do Jornal Destaque foi aprovada",
		Body: fmt.Sprintf("Ola, %s!\n\nSua solicitacao de assinatura (%s) foi aprovada.\nSeu acesso as edicoes vale ate %s.\n\nBoa leitura!",
			notice.Name, notice.Type, notice.EndDate.Format("02/01/2006")),
	}

	if err := s.mailer.Send(msg); err != nil {
		s.log.Error("failed to send approval email", slog.String("email", notice.Email), sl.Err(err))
		return fmt.Errorf("send approval email: %w", err)
	}
	return nil
}
