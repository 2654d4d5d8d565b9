package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrEmptySecret   = errors.New("jwt: secret vacío")
	ErrMissingUserID = errors.New("jwt: claim UserId ausente")
	ErrWrongIssuer   = errors.New("jwt: emisor inesperado")
)

// Claims incluye los claims estándar JWT más la identidad del usuario.
// RegisteredClaims.ID (jti) es único por token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"UserId"`
	Email     string `json:"Email"`
	Role      string `json:"role"`
	RoleID    int64  `json:"RoleId"`
	CompanyID *int64 `json:"CompanyId,omitempty"`
}

// Identity datos del usuario que viajan en el token.
type Identity struct {
	UserID    int64
	Email     string
	RoleName  string
	RoleID    int64
	CompanyID *int64
}

// Company devuelve el CompanyId del claim o 0.
func (c *Claims) Company() int64 {
	if c.CompanyID == nil {
		return 0
	}
	return *c.CompanyID
}

// Generate genera un access token HS256 firmado con vencimiento now+ttl.
func Generate(secret, issuer string, id Identity, ttl time.Duration, now time.Time) (string, *Claims, error) {
	if secret == "" {
		return "", nil, ErrEmptySecret
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    id.UserID,
		Email:     id.Email,
		Role:      id.RoleName,
		RoleID:    id.RoleID,
		CompanyID: id.CompanyID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("jwt: firmar: %w", err)
	}
	return signed, claims, nil
}

// Parse valida firma, algoritmo, vencimiento y emisor.
func Parse(secret, issuer, tokenString string) (*Claims, error) {
	return parse(secret, issuer, tokenString, jwt.WithExpirationRequired())
}

// ParseIgnoringExpiry valida firma, algoritmo, emisor y UserId pero no el vencimiento.
// Se usa solo en el refresh, donde el access token normalmente ya expiró.
func ParseIgnoringExpiry(secret, issuer, tokenString string) (*Claims, error) {
	return parse(secret, issuer, tokenString, jwt.WithoutClaimsValidation())
}

func parse(secret, issuer, tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if issuer != "" && claims.Issuer != issuer {
		return nil, ErrWrongIssuer
	}
	if claims.UserID == 0 {
		return nil, ErrMissingUserID
	}
	return claims, nil
}
