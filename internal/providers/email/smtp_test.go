package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/smallbiznis/gestionale/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSMTPProviderBuildsMultipartMessage(t *testing.T) {
	p := NewSMTP(Config{Host: "smtp.example", Port: "587", From: "studio@example.it"})

	var gotAddr string
	var gotTo []string
	var gotBody string
	p.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		return nil
	}

	err := p.Send(context.Background(), Message{
		To:      []string{"cliente@example.it"},
		ReplyTo: "info@example.it",
		Subject: "Preventivo accettato",
		HTML:    "<p>Ciao</p>",
		Text:    "Ciao",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example:587", gotAddr)
	assert.Equal(t, []string{"cliente@example.it"}, gotTo)
	assert.Contains(t, gotBody, "multipart/alternative")
	assert.Contains(t, gotBody, "Reply-To: info@example.it")
	assert.Contains(t, gotBody, "text/plain; charset=utf-8")
	assert.Contains(t, gotBody, "<p>Ciao</p>")
	assert.Less(t, strings.Index(gotBody, "text/plain"), strings.Index(gotBody, "text/html"))
}

func TestSMTPProviderRequiresRecipient(t *testing.T) {
	p := NewSMTP(Config{Host: "smtp.example", Port: "587"})
	assert.Error(t, p.Send(context.Background(), Message{}))
}

func TestNewFromConfigFallsBackToNoOp(t *testing.T) {
	provider := NewFromConfig(config.Config{}, zap.NewNop())
	assert.IsType(t, &NoOpProvider{}, provider)

	provider = NewFromConfig(config.Config{SMTP: config.SMTPConfig{Host: "smtp.example", Port: "25"}}, zap.NewNop())
	assert.IsType(t, &SMTPProvider{}, provider)
}
