package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/application/dto"
	"github.com/jhoicas/beneficios-api/internal/application/verification"
	"github.com/jhoicas/beneficios-api/internal/domain"
)

var validate = validator.New()

// parseBody decodifica el cuerpo y valida los tags `validate` del DTO.
// Devuelve nil si el cuerpo es válido; si no, el error a responder con 400.
func parseBody(c *fiber.Ctx, out any) *dto.ErrorResponse {
	if err := c.BodyParser(out); err != nil {
		return &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	if err := validate.Struct(out); err != nil {
		return &dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)}
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "datos inválidos"
	}
	f := verrs[0]
	switch f.Tag() {
	case "required":
		return f.Field() + " es requerido"
	case "max":
		return f.Field() + " es demasiado largo"
	}
	return f.Field() + " inválido"
}

// writeError traduce un error de la aplicación a respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	if already, ok := verification.IsAlreadyCollected(err); ok {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:        "ALREADY_COLLECTED",
			Message:     "Este beneficio ya fue retirado el " + verification.DisplayFecha(already.FechaRetiro),
			FechaRetiro: already.FechaRetiro,
		})
	}
	var rejected *domain.RejectedError
	if errors.As(err, &rejected) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "GUARD_REJECTED", Message: rejected.Error()})
	}

	switch {
	case errors.Is(err, domain.ErrSessionTerminated):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_TERMINATED", Message: domain.ErrSessionTerminated.Error()})
	case errors.Is(err, domain.ErrNotEnrolled):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_ENROLLED", Message: domain.ErrNotEnrolled.Error()})
	case errors.Is(err, domain.ErrWriteConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WRITE_CONFLICT", Message: domain.ErrWriteConflict.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrPayloadParse):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDeviceUnavailable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "DEVICE_UNAVAILABLE", Message: domain.ErrDeviceUnavailable.Error()})
	case errors.Is(err, domain.ErrQRNotFound):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "QR_NOT_FOUND", Message: domain.ErrQRNotFound.Error()})
	case errors.Is(err, domain.ErrCorruptData):
		log.Error().Err(err).Str("path", c.Path()).Msg("nómina ilegible")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "CORRUPT_DATA",
			Message: "La nómina guardada está dañada (" + domain.ErrCorruptData.Error() + "). Contacte al administrador.",
		})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente nuevamente"})
}
