// Package randtoken genera los tokens opacos de sesión y de restablecimiento de
// contraseña, y el digest con el que se guardan.
package randtoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Size bytes de entropía por token.
const Size = 64

// New devuelve Size bytes aleatorios codificados en base64 estándar.
func New() (string, error) {
	b := make([]byte, Size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("randtoken: leer entropía: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Digest SHA-256 del token en base64. Es lo único que se persiste.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(sum[:])
}
