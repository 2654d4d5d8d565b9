package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

// CredentialRepo implementación del puerto CredentialRepository sobre la tabla users.
type CredentialRepo struct {
	q Querier
}

// NewCredentialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCredentialRepository(q Querier) *CredentialRepo {
	return &CredentialRepo{q: q}
}

const credentialColumns = `id, email, name, password_hash, is_active, is_deleted, role_id, company_id,
	refresh_token, refresh_token_expiry, created_at, updated_at`

func scanCredential(row interface{ Scan(...any) error }) (*entity.Credential, error) {
	var c entity.Credential
	err := row.Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.IsActive, &c.IsDeleted, &c.RoleID, &c.CompanyID,
		&c.RefreshToken, &c.RefreshTokenExpiry, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID obtiene la credencial por ID (incluye inactivas y borradas).
func (r *CredentialRepo) FindByID(ctx context.Context, id int64) (*entity.Credential, error) {
	c, err := scanCredential(r.q.QueryRow(ctx, `SELECT `+credentialColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return c, nil
}

// FindActiveByEmail busca por email sin distinguir mayúsculas.
func (r *CredentialRepo) FindActiveByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM users
		WHERE lower(email) = lower($1) AND is_active = TRUE AND is_deleted = FALSE`
	c, err := scanCredential(r.q.QueryRow(ctx, query, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential by email: %w", err)
	}
	return c, nil
}

// SetRefreshToken reemplaza (o limpia con nil) el digest del refresh token.
func (r *CredentialRepo) SetRefreshToken(ctx context.Context, userID int64, digest *string, expiry *time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET refresh_token = $2, refresh_token_expiry = $3 WHERE id = $1`,
		userID, digest, expiry)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	return nil
}

// RotateRefreshToken compare-and-set en una sola sentencia: solo una de dos
// rotaciones concurrentes con el mismo token ve la fila.
func (r *CredentialRepo) RotateRefreshToken(ctx context.Context, userID int64, currentDigest, nextDigest string, nextExpiry, now time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET refresh_token = $3, refresh_token_expiry = $4
		WHERE id = $1 AND refresh_token = $2 AND refresh_token_expiry > $5
		  AND is_active = TRUE AND is_deleted = FALSE`,
		userID, currentDigest, nextDigest, nextExpiry, now)
	if err != nil {
		return false, fmt.Errorf("rotate refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdatePassword guarda un nuevo verificador.
func (r *CredentialRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string, now time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, userID, passwordHash, now)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ConsumeResetToken fija la contraseña y limpia el token en la misma sentencia.
func (r *CredentialRepo) ConsumeResetToken(ctx context.Context, email, digest, passwordHash string, now time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET password_hash = $3, refresh_token = NULL, refresh_token_expiry = NULL, updated_at = $4
		WHERE lower(email) = lower($1) AND refresh_token = $2 AND refresh_token_expiry > $4 AND is_deleted = FALSE`,
		email, digest, passwordHash, now)
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
