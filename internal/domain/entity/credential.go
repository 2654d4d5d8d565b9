package entity

import "time"

// Credential representa la cuenta con la que un usuario inicia sesión.
// CompanyID es nil para cuentas de plataforma (SuperAdmin).
type Credential struct {
	ID           int64
	Email        string // único, comparación sin distinguir mayúsculas
	Name         string
	PasswordHash string // verificador bcrypt
	IsActive     bool
	IsDeleted    bool
	RoleID       int64
	CompanyID    *int64

	// RefreshToken guarda el digest del refresh token vigente (o del token de
	// restablecimiento de contraseña, que comparte el mismo campo).
	RefreshToken       *string
	RefreshTokenExpiry *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanSignIn informa si la cuenta puede autenticarse.
func (c *Credential) CanSignIn() bool {
	return c != nil && c.IsActive && !c.IsDeleted
}

// Company devuelve el ID de empresa o 0 si la cuenta es de plataforma.
func (c *Credential) Company() int64 {
	if c == nil || c.CompanyID == nil {
		return 0
	}
	return *c.CompanyID
}
