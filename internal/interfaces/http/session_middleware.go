package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/beneficios-api/internal/application/dto"
	"github.com/jhoicas/beneficios-api/internal/application/verification"
)

const localGuardSession = "guard_session"

// GuardSessionMiddleware carga la sesión de guardia del token desde el registro.
// Debe usarse DESPUÉS de AuthMiddleware. Una sesión terminada o vencida responde 401.
func GuardSessionMiddleware(sessions *verification.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetSessionID(c)
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_SESSION", Message: "el token no trae sesión de guardia"})
		}
		sess, err := sessions.Get(id)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_TERMINATED", Message: err.Error()})
		}
		c.Locals(localGuardSession, sess)
		return c.Next()
	}
}

func getGuardSession(c *fiber.Ctx) *verification.GuardSession {
	sess, _ := c.Locals(localGuardSession).(*verification.GuardSession)
	return sess
}
