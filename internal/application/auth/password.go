package auth

import (
	"context"
	"errors"
	"net/mail"
	"net/url"

	"golang.org/x/crypto/bcrypt"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/pkg/password"
	"github.com/expertzappdev/bizfree-backend/pkg/randtoken"
)

var (
	errPasswordMismatch = domain.Validation("la nueva contraseña y su confirmación no coinciden")
	errWeakPassword     = domain.Validation("la contraseña debe tener entre 8 caracteres y 72 bytes, una mayúscula, una minúscula, un dígito y un símbolo")
	errBadEmailFormat   = domain.Validation("formato de email inválido")
)

// ChangePassword cambia la contraseña del usuario autenticado.
// Orden: campos, confirmación, política de complejidad y contraseña actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID int64, in dto.ChangePasswordRequest) error {
	err := uc.changePassword(ctx, userID, in)
	observe("change_password", err)
	return err
}

func (uc *AuthUseCase) changePassword(ctx context.Context, userID int64, in dto.ChangePasswordRequest) error {
	if in.CurrentPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return domain.Validation("currentPassword, newPassword y confirmPassword son obligatorios")
	}
	if in.NewPassword != in.ConfirmPassword {
		return errPasswordMismatch
	}
	if !password.Complex(in.NewPassword) {
		return errWeakPassword
	}
	cred, err := uc.creds.FindByID(ctx, userID)
	if err != nil {
		return domain.Storage("no se pudo consultar la cuenta", err)
	}
	if !cred.CanSignIn() {
		return domain.NotFound("usuario no encontrado o inactivo")
	}
	if ok, _ := uc.hasher.Verify(in.CurrentPassword, cred.PasswordHash); !ok {
		return domain.Authentication("la contraseña actual no es correcta")
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return hashErr(err)
	}
	if err := uc.creds.UpdatePassword(ctx, userID, hash, uc.now()); err != nil {
		return domain.Storage("no se pudo guardar la contraseña", err)
	}
	uc.log.Info().Int64("user_id", userID).Msg("contraseña cambiada")
	return nil
}

// ForgotPassword genera un token de un solo uso, lo guarda en el hueco del refresh
// token (lo que cierra cualquier sesión pendiente) y envía el enlace por correo.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	err := uc.forgotPassword(ctx, in)
	observe("forgot_password", err)
	return err
}

func (uc *AuthUseCase) forgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	email := NormalizeEmail(in.Email)
	if !ValidEmail(email) {
		return errBadEmailFormat
	}
	cred, err := uc.creds.FindActiveByEmail(ctx, email)
	if err != nil {
		return domain.Storage("no se pudo consultar la cuenta", err)
	}
	if !cred.CanSignIn() {
		return domain.NotFound("no existe una cuenta con ese email")
	}
	if !ValidEmail(cred.Email) {
		uc.log.Error().Int64("user_id", cred.ID).Msg("email almacenado con formato inválido")
		return domain.Storage("email almacenado inválido", nil)
	}

	token, err := randtoken.New()
	if err != nil {
		return err
	}
	digest := randtoken.Digest(token)
	expiry := uc.now().Add(uc.cfg.ResetTTL)
	if err := uc.creds.SetRefreshToken(ctx, cred.ID, &digest, &expiry); err != nil {
		return domain.Storage("no se pudo guardar el token de restablecimiento", err)
	}
	if err := uc.notifier.SendPasswordReset(ctx, cred.Email, uc.resetLink(cred.Email, token)); err != nil {
		uc.log.Error().Err(err).Int64("user_id", cred.ID).Msg("envío de correo de restablecimiento fallido")
		return domain.Storage("no se pudo enviar el correo", err)
	}
	uc.log.Info().Int64("user_id", cred.ID).Msg("enlace de restablecimiento enviado")
	return nil
}

// ResetPassword fija la nueva contraseña si email + token coinciden y no vencieron.
// El token se consume en la misma escritura.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	err := uc.resetPassword(ctx, in)
	observe("reset_password", err)
	return err
}

func (uc *AuthUseCase) resetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Token == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return domain.Validation("email, token, newPassword y confirmPassword son obligatorios")
	}
	if in.NewPassword != in.ConfirmPassword {
		return errPasswordMismatch
	}
	if !password.Complex(in.NewPassword) {
		return errWeakPassword
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return hashErr(err)
	}
	ok, err := uc.creds.ConsumeResetToken(ctx, email, randtoken.Digest(in.Token), hash, uc.now())
	if err != nil {
		return domain.Storage("no se pudo restablecer la contraseña", err)
	}
	if !ok {
		return domain.InvalidToken("token de restablecimiento inválido o vencido")
	}
	uc.log.Info().Msg("contraseña restablecida")
	return nil
}

// hashErr clasifica un fallo de bcrypt: la longitud es un error de entrada.
func hashErr(err error) error {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return errWeakPassword
	}
	return domain.Storage("no se pudo generar el hash de la contraseña", err)
}

func (uc *AuthUseCase) resetLink(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return uc.cfg.ResetURL + "?" + q.Encode()
}

// ValidEmail exige una dirección simple (sin nombre visible) bien formada.
func ValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
