package mail

import (
	"bytes"
	"context"
	"html/template"
	netmail "net/mail"

	"gopkg.in/gomail.v2"

	"github.com/expertzappdev/bizfree-backend/internal/application/ports"
	"github.com/expertzappdev/bizfree-backend/pkg/config"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

var _ ports.Notifier = (*SMTPNotifier)(nil)

// Sender envía mensajes ya armados. *gomail.Dialer lo implementa.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier envía correos HTML por SMTP.
type SMTPNotifier struct {
	from   string
	sender Sender
	log    *logger.Logger
}

// NewSMTPNotifier crea el notificador con un gomail.Dialer.
func NewSMTPNotifier(cfg config.SMTPConfig, log *logger.Logger) *SMTPNotifier {
	return NewNotifierWithSender(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), log)
}

// NewNotifierWithSender permite inyectar el transporte.
func NewNotifierWithSender(from string, sender Sender, log *logger.Logger) *SMTPNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &SMTPNotifier{from: from, sender: sender, log: log.Component("mail")}
}

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html><body style="font-family: sans-serif">
<p>Recibimos una solicitud para restablecer tu contraseña.</p>
<p><a href="{{.Link}}">Restablecer contraseña</a></p>
<p>El enlace vence en una hora. Si no solicitaste el cambio, ignora este correo.</p>
</body></html>`))

// SendPasswordReset envía el enlace de restablecimiento. Si el remitente
// configurado o el destinatario no son direcciones válidas no envía nada,
// deja constancia en el log y devuelve nil.
func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	if !validAddress(n.from) {
		n.log.Warn().Str("from", n.from).Msg("remitente SMTP inválido; correo no enviado")
		return nil
	}
	if !validAddress(to) {
		n.log.Warn().Msg("destinatario inválido; correo no enviado")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, struct{ Link string }{resetLink}); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Restablecer contraseña")
	m.SetBody("text/html", body.String())

	if err := n.sender.DialAndSend(m); err != nil {
		return err
	}
	n.log.Debug().Msg("correo de restablecimiento enviado")
	return nil
}

func validAddress(s string) bool {
	if s == "" {
		return false
	}
	_, err := netmail.ParseAddress(s)
	return err == nil
}
