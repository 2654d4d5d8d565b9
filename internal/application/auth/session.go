package auth

import (
	"context"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/pkg/jwt"
	"github.com/expertzappdev/bizfree-backend/pkg/randtoken"
)

var errStaleRefresh = domain.Authentication("refresh token inválido o vencido")

// Refresh rota el par de tokens. El access token se valida ignorando su vencimiento;
// el refresh guardado se reemplaza con compare-and-set, así que dos llamadas
// simultáneas con el mismo par producen un solo éxito.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshTokenRequest) (*dto.TokenPair, error) {
	pair, err := uc.refresh(ctx, in)
	observe("refresh", err)
	return pair, err
}

func (uc *AuthUseCase) refresh(ctx context.Context, in dto.RefreshTokenRequest) (*dto.TokenPair, error) {
	if in.Token == "" || in.RefreshToken == "" {
		return nil, domain.Validation("token y refreshToken son obligatorios")
	}
	claims, err := jwt.ParseIgnoringExpiry(uc.cfg.Secret, uc.cfg.Issuer, in.Token)
	if err != nil {
		uc.log.Debug().Err(err).Msg("refresh con access token inválido")
		return nil, domain.InvalidToken("access token inválido")
	}
	cred, err := uc.creds.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.Storage("no se pudo consultar la cuenta", err)
	}
	if !cred.CanSignIn() {
		return nil, errStaleRefresh
	}
	role, err := uc.roleName(ctx, cred.RoleID)
	if err != nil {
		return nil, err
	}

	next, err := randtoken.New()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	rotated, err := uc.creds.RotateRefreshToken(ctx, cred.ID,
		randtoken.Digest(in.RefreshToken), randtoken.Digest(next), now.Add(uc.cfg.RefreshTTL), now)
	if err != nil {
		return nil, domain.Storage("no se pudo rotar la sesión", err)
	}
	if !rotated {
		return nil, errStaleRefresh
	}
	access, _, err := jwt.Generate(uc.cfg.Secret, uc.cfg.Issuer, identity(cred, role), uc.cfg.AccessTTL, now)
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Int64("user_id", cred.ID).Msg("sesión rotada")
	return &dto.TokenPair{Token: access, RefreshToken: next}, nil
}

// Logout limpia el refresh token. Es idempotente.
func (uc *AuthUseCase) Logout(ctx context.Context, userID int64) error {
	err := uc.logout(ctx, userID)
	observe("logout", err)
	return err
}

func (uc *AuthUseCase) logout(ctx context.Context, userID int64) error {
	cred, err := uc.creds.FindByID(ctx, userID)
	if err != nil {
		return domain.Storage("no se pudo consultar la cuenta", err)
	}
	if !cred.CanSignIn() {
		return domain.NotFound("usuario no encontrado o inactivo")
	}
	if err := uc.creds.SetRefreshToken(ctx, userID, nil, nil); err != nil {
		return domain.Storage("no se pudo cerrar la sesión", err)
	}
	uc.log.Info().Int64("user_id", userID).Msg("logout")
	return nil
}
