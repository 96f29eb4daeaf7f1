package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/jornal-destaque/internal/config"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
)

// Transport доставляет письма через SMTP с STARTTLS и plain-аутентификацией.
// Соединение открывается на каждое письмо: рассылка редкая, держать
// постоянный канал к серверу незачем.
type Transport struct {
	host string
	port string
	user string
	pass string
	log  *slog.Logger
}

// NewTransport создает транспорт по настройкам из конфигурации.
func NewTransport(cfg *config.Config, log *slog.Logger) *Transport {
	return &Transport{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		log:  log,
	}
}

// Send открывает соединение, проводит протокольный обмен и отправляет письмо.
func (t *Transport) Send(msg Message) error {
	client, err := t.dial()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			t.log.Debug("failed to close smtp client", sl.Err(closeErr))
		}
	}()

	if err := client.Mail(t.user); err != nil {
		t.log.Error("failed to set MAIL FROM", slog.String("from", t.user), sl.Err(err))
		return fmt.Errorf("mail from: %w", err)
	}
	for _, addr := range msg.To {
		if err := client.Rcpt(addr); err != nil {
			t.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return fmt.Errorf("rcpt to: %w", err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		t.log.Error("failed to open data writer", sl.Err(err))
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write(msg.Encode(t.user)); err != nil {
		t.log.Error("failed to write message", sl.Err(err))
		return fmt.Errorf("write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		t.log.Error("failed to close data writer", sl.Err(err))
		return fmt.Errorf("close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		t.log.Error("failed to quit smtp session", sl.Err(err))
		return fmt.Errorf("quit: %w", err)
	}

	t.log.Info("email sent", slog.Any("to", msg.To), slog.String("subject", msg.Subject))
	return nil
}

// dial устанавливает TCP-соединение, поднимает STARTTLS и аутентифицируется.
func (t *Transport) dial() (Client, error) {
	addr := net.JoinHostPort(t.host, t.port)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.log.Error("failed to dial smtp server", slog.String("addr", addr), sl.Err(err))
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		t.log.Error("failed to create smtp client", sl.Err(err))
		return nil, fmt.Errorf("new client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		t.log.Error("smtp server does not support STARTTLS")
		return nil, fmt.Errorf("smtp server does not support STARTTLS")
	}
	tlsConfig := &tls.Config{
		ServerName: t.host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		_ = client.Close()
		t.log.Error("failed to start TLS", sl.Err(err))
		return nil, fmt.Errorf("starttls: %w", err)
	}

	auth := smtp.PlainAuth("", t.user, t.pass, t.host)
	if err := client.Auth(auth); err != nil {
		_ = client.Close()
		t.log.Error("smtp auth failed", sl.Err(err))
		return nil, fmt.Errorf("auth: %w", err)
	}

	return &clientConn{client: client}, nil
}

// clientConn адаптирует *smtp.Client к интерфейсу Client.
type clientConn struct {
	client *smtp.Client
}

func (c *clientConn) Mail(from string) error        { return c.client.Mail(from) }
func (c *clientConn) Rcpt(to string) error          { return c.client.Rcpt(to) }
func (c *clientConn) Data() (io.WriteCloser, error) { return c.client.Data() }
func (c *clientConn) Quit() error                   { return c.client.Quit() }
func (c *clientConn) Close() error                  { return c.client.Close() }
