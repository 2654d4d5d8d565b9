package password

import (
	"crypto/subtle"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinLength longitud mínima de la política de complejidad.
const MinLength = 8

// MaxBytes límite de bcrypt: GenerateFromPassword rechaza entradas más largas.
const MaxBytes = 72

// Hasher verificador de contraseñas basado en bcrypt.
type Hasher struct {
	cost        int
	allowLegacy bool
}

// NewHasher crea un Hasher. Con allowLegacy las filas antiguas guardadas sin hash
// se comparan en tiempo constante y Verify indica que deben migrarse.
func NewHasher(cost int, allowLegacy bool) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost, allowLegacy: allowLegacy}
}

// Hash genera el verificador bcrypt (incluye sal).
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compara password contra el verificador guardado.
// needsRehash es true cuando coincidió una fila antigua en texto plano.
func (h *Hasher) Verify(password, stored string) (ok, needsRehash bool) {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	if !h.allowLegacy || stored == "" {
		return false, false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1 {
		return true, true
	}
	return false, false
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Complex valida la política: al menos MinLength caracteres y como máximo
// MaxBytes bytes, con una mayúscula, una minúscula, un dígito y un símbolo.
func Complex(password string) bool {
	if len([]rune(password)) < MinLength || len(password) > MaxBytes {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
