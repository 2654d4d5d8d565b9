package domain

import (
	"errors"
	"fmt"
)

// Categorías de error de dominio (sin dependencias externas).
// La capa HTTP traduce cada categoría a un código de estado.
var (
	ErrValidation     = errors.New("entrada inválida")
	ErrAuthentication = errors.New("autenticación fallida")
	ErrAuthorization  = errors.New("acceso denegado")
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrStorage        = errors.New("error de almacenamiento")

	// ErrInvalidToken token con firma, algoritmo o claims inválidos.
	// Es un fallo de autenticación que se reporta como 400 en refresh/reset.
	ErrInvalidToken = &Error{Kind: ErrAuthentication, Message: "token inválido"}
)

// Error error de dominio con un mensaje apto para el cliente.
// Unwrap devuelve la categoría para que errors.Is funcione contra los sentinelas.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Validation construye un ErrValidation con mensaje.
func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

// Authentication construye un ErrAuthentication con mensaje.
func Authentication(msg string) error { return &Error{Kind: ErrAuthentication, Message: msg} }

// Authorization construye un ErrAuthorization con mensaje.
func Authorization(msg string) error { return &Error{Kind: ErrAuthorization, Message: msg} }

// NotFound construye un ErrNotFound con mensaje.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Conflict construye un ErrConflict con mensaje.
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Storage envuelve un fallo de infraestructura como ErrStorage.
func Storage(msg string, cause error) error {
	return &Error{Kind: ErrStorage, Message: msg, Cause: cause}
}

// PublicMessage devuelve el mensaje seguro para el cliente, o fallback si err no es un *Error.
// Los errores de almacenamiento nunca exponen la causa.
func PublicMessage(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return fallback
}

// InvalidToken construye un error de token inválido con mensaje específico.
func InvalidToken(msg string) error { return &Error{Kind: ErrInvalidToken, Message: msg} }
