package mail_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/expertzappdev/bizfree-backend/internal/infrastructure/mail"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSendPasswordReset_EnviaHTML(t *testing.T) {
	s := &fakeSender{}
	n := mail.NewNotifierWithSender("no-reply@bizfree.io", s, nil)

	err := n.SendPasswordReset(context.Background(), "a@x.com", "https://app/reset?email=a%40x.com&token=abc")
	require.NoError(t, err)
	require.Len(t, s.sent, 1)

	m := s.sent[0]
	assert.Equal(t, []string{"a@x.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@bizfree.io"}, m.GetHeader("From"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "text/html"))
}

func TestSendPasswordReset_DireccionesInvalidasNoEnvia(t *testing.T) {
	s := &fakeSender{}

	n := mail.NewNotifierWithSender("", s, nil)
	assert.NoError(t, n.SendPasswordReset(context.Background(), "a@x.com", "l"))

	n = mail.NewNotifierWithSender("no-reply@bizfree.io", s, nil)
	assert.NoError(t, n.SendPasswordReset(context.Background(), "no es un correo", "l"))

	assert.Empty(t, s.sent)
}

func TestSendPasswordReset_ErrorDeTransporte(t *testing.T) {
	s := &fakeSender{err: errors.New("connection refused")}
	n := mail.NewNotifierWithSender("no-reply@bizfree.io", s, nil)
	assert.Error(t, n.SendPasswordReset(context.Background(), "a@x.com", "l"))
}
