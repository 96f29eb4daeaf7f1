package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Encode(t *testing.T) {
	msg := Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Assinatura aprovada",
		Body:    "Ola!\n\nBoa leitura!",
	}

	raw := string(msg.Encode("noreply@jornaldestaque.example"))

	headers, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found, "headers must be separated from body by an empty line")

	assert.Contains(t, headers, "From: noreply@jornaldestaque.example")
	assert.Contains(t, headers, "To: a@example.com, b@example.com")
	assert.Contains(t, headers, "Subject: Assinatura aprovada")
	assert.Contains(t, headers, "Content-Type: text/plain; charset=\"UTF-8\"")
	assert.Equal(t, "Ola!\n\nBoa leitura!", body)
}
