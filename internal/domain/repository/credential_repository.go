package repository

import (
	"context"
	"time"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// CredentialRepository define el puerto de persistencia para credenciales (DIP).
// Las búsquedas devuelven (nil, nil) cuando no hay fila.
type CredentialRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Credential, error)
	// FindActiveByEmail busca por email sin distinguir mayúsculas, solo activas y no borradas.
	FindActiveByEmail(ctx context.Context, email string) (*entity.Credential, error)

	// SetRefreshToken reemplaza el digest y su vencimiento sin condiciones.
	// Con digest nil limpia la sesión.
	SetRefreshToken(ctx context.Context, userID int64, digest *string, expiry *time.Time) error
	// RotateRefreshToken escribe nextDigest solo si el valor guardado sigue siendo
	// currentDigest y no ha vencido en now (compare-and-set). Devuelve false si no se aplicó.
	RotateRefreshToken(ctx context.Context, userID int64, currentDigest, nextDigest string, nextExpiry, now time.Time) (bool, error)

	UpdatePassword(ctx context.Context, userID int64, passwordHash string, now time.Time) error
	// ConsumeResetToken fija el nuevo verificador y limpia el token si email + digest
	// coinciden, el token no ha vencido y la cuenta no está borrada. Un solo uso.
	ConsumeResetToken(ctx context.Context, email, digest, passwordHash string, now time.Time) (bool, error)
}
