package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/pkg/jwt"
)

// LocalClaims clave de c.Locals con los claims del access token.
const LocalClaims = "claims"

// AuthMiddleware valida el Bearer Token JWT (firma, algoritmo, vencimiento y
// emisor) y deja los claims en c.Locals.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fail(c, fiber.StatusUnauthorized, CodeMissingToken, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return fail(c, fiber.StatusUnauthorized, CodeMissingToken, "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "token inválido o expirado")
		}
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Va después de AuthMiddleware.
func RequireRole(roleIDs ...int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
		}
		for _, r := range roleIDs {
			if claims.RoleID == r {
				return c.Next()
			}
		}
		return fail(c, fiber.StatusForbidden, CodeForbidden, "rol sin permiso para esta ruta")
	}
}

// GetClaims devuelve los claims del contexto o nil.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}

// GetUserID devuelve el UserId del token o 0.
func GetUserID(c *fiber.Ctx) int64 {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// GetActor arma el actor de autorización a partir de los claims.
func GetActor(c *fiber.Ctx) (access.Actor, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return access.Actor{}, false
	}
	return access.Actor{UserID: claims.UserID, RoleID: claims.RoleID, CompanyID: claims.Company()}, true
}
