package smtp

import "strings"

// Message описывает письмо до кадрирования в протокол.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Encode кадрирует письмо в формат RFC 5322: заголовки, пустая строка,
// тело, разделители CRLF.
func (m Message) Encode(from string) []byte {
	lines := []string{
		"From: " + from,
		"To: " + strings.Join(m.To, ", "),
		"Subject: " + m.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		m.Body,
	}
	return []byte(strings.Join(lines, "\r\n"))
}
