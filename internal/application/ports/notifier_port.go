package ports

import "context"

// Notifier puerto de salida para correo saliente.
// La implementación valida remitente y destinatario antes de enviar; si alguno
// es inválido no envía nada y solo deja registro en el log.
type Notifier interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}
