package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/pkg/jwt"
)

// Locals keys del usuario autenticado en Fiber.
const (
	LocalActor = "actor"
	LocalName  = "actor_name"
)

// TokenVerifier lo implementa *jwt.Verifier (HS256 o JWKS).
type TokenVerifier interface {
	Parse(tokenString string) (*jwt.Claims, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja el actor en c.Locals.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := verifier.Parse(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalActor, claims.Actor())
		c.Locals(LocalName, claims.Name)
		return c.Next()
	}
}

// GetActor devuelve la referencia al usuario autenticado (después del middleware de auth).
func GetActor(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActor).(string)
	return s
}
