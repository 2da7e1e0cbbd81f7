package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/beneficios-api/internal/application/dto"
	"github.com/jhoicas/beneficios-api/internal/application/employee"
	"github.com/jhoicas/beneficios-api/pkg/config"
	"github.com/jhoicas/beneficios-api/pkg/jwt"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

// EmployeeHandler portal del empleado: beneficio asignado y código QR.
type EmployeeHandler struct {
	uc  *employee.UseCase
	jwt config.JWTConfig
}

// NewEmployeeHandler construye el handler del portal del empleado.
func NewEmployeeHandler(uc *employee.UseCase, jwtCfg config.JWTConfig) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, jwt: jwtCfg}
}

// Login godoc
// @Summary      Login de empleado
// @Tags         empleado
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeLoginRequest  true  "rut, password (RUT sin puntos ni dígito verificador)"
// @Success      200   {object}  dto.EmployeeLoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/empleado/login [post]
func (h *EmployeeHandler) Login(c *fiber.Ctx) error {
	var in dto.EmployeeLoginRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	rec, err := h.uc.Login(c.Context(), in.Rut, in.Password)
	if err != nil {
		return writeError(c, err)
	}
	token, err := jwt.Generate(h.jwt.Secret, rec.Key(), "", jwt.RoleEmpleado, h.jwt.Issuer, h.jwt.Expiration)
	if err != nil {
		return writeError(c, fmt.Errorf("firmar token: %w", err))
	}
	return c.JSON(dto.EmployeeLoginResponse{Token: token, Nombre: rec.Nombre, Rut: rut.Format(rec.Rut)})
}

// Benefit godoc
// @Summary      Beneficio del empleado
// @Tags         empleado
// @Produce      json
// @Success      200  {object}  dto.BenefitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/empleado/beneficio [get]
func (h *EmployeeHandler) Benefit(c *fiber.Ctx) error {
	v, err := h.uc.View(c.Context(), GetSubject(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BenefitResponse{
		Nombre:            v.Nombre,
		Rut:               v.Rut,
		Cargo:             v.Cargo,
		TipoContrato:      v.TipoContrato,
		BeneficioAsignado: v.BeneficioAsignado,
		EstadoBeneficio:   v.EstadoBeneficio,
		FechaLimite:       v.FechaLimite,
		TipoCaja:          v.TipoCaja,
		Correo:            v.Correo,
		Localidad:         v.Localidad,
	})
}

// QR devuelve el código QR del beneficio como PNG.
// GET /api/empleado/qr
func (h *EmployeeHandler) QR(c *fiber.Ctx) error {
	enc, err := h.uc.QRImage(c.Context(), GetSubject(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("png")
	return c.Send(enc.PNG)
}

// Card descarga la tarjeta imprimible con el QR (PDF).
// GET /api/empleado/qr/tarjeta
func (h *EmployeeHandler) Card(c *fiber.Ctx) error {
	card, err := h.uc.QRCard(c.Context(), GetSubject(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(card.Filename)
	return c.Send(card.Content)
}
