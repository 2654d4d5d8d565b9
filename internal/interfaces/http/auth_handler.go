package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/expertzappdev/bizfree-backend/internal/application/auth"
	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

// AuthHandler maneja login, sesiones y contraseñas.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.APIResponse{data=dto.LoginResponse}
// @Failure      400   {object}  dto.APIResponse
// @Failure      401   {object}  dto.APIResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "sesión iniciada", out)
}

// LoginCached igual que Login pero con permisos desde la caché.
// POST /api/auth/login-cached
func (h *AuthHandler) LoginCached(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.LoginCached(c.UserContext(), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "sesión iniciada", out)
}

// RefreshToken godoc
// @Summary      Rotar tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshTokenRequest  true  "token, refreshToken"
// @Success      200   {object}  dto.APIResponse{data=dto.TokenPair}
// @Failure      400   {object}  dto.APIResponse
// @Failure      401   {object}  dto.APIResponse
// @Router       /api/auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var in dto.RefreshTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.Refresh(c.UserContext(), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "tokens renovados", out)
}

// Logout invalida el refresh token de la sesión actual.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	if err := h.uc.Logout(c.UserContext(), userID); err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "sesión cerrada", nil)
}

// ChangePassword cambia la contraseña del usuario autenticado.
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	if err := h.uc.ChangePassword(c.UserContext(), userID, in); err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "contraseña actualizada", nil)
}

// ForgotPassword envía el enlace de restablecimiento.
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	if err := h.uc.ForgotPassword(c.UserContext(), in); err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "se envió el correo de restablecimiento", nil)
}

// ResetPassword fija una contraseña nueva con el token recibido por correo.
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "contraseña restablecida", nil)
}
