package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse identidad pública del usuario autenticado.
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	RoleID    int64  `json:"roleId"`
	CompanyID *int64 `json:"companyId,omitempty"`
}

// LoginResponse par de tokens más usuario y permisos.
type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
	Permissions  []string     `json:"permissions"`
}

// RefreshTokenRequest access token (normalmente vencido) y refresh token vigente.
type RefreshTokenRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// TokenPair tokens emitidos por una rotación.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest cambio de contraseña de la sesión actual.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ForgotPasswordRequest solicitud de enlace de restablecimiento.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest restablecimiento con el token recibido por correo.
type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
