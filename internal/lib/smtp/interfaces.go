// Package smtp отправляет письма через внешний SMTP-сервер.
package smtp

import "io"

// Client описывает протокольную сессию с SMTP-сервером.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Mailer описывает доставку готового письма.
type Mailer interface {
	Send(msg Message) error
}
