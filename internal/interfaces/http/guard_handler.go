package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/application/dto"
	"github.com/jhoicas/beneficios-api/internal/application/guard"
	"github.com/jhoicas/beneficios-api/internal/application/verification"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/camera"
	"github.com/jhoicas/beneficios-api/pkg/config"
	"github.com/jhoicas/beneficios-api/pkg/jwt"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

// Límites de la ráfaga de cuadros que sube el navegador del guardia.
const (
	maxScanFrames     = 30
	maxScanFrameBytes = 4 << 20
)

// GuardHandler portal de portería: login, consulta, escaneo y confirmación de entregas.
type GuardHandler struct {
	gate     *guard.Gate
	deps     verification.SessionDeps
	sessions *verification.SessionRegistry
	jwt      config.JWTConfig
}

// NewGuardHandler construye el handler del portal de guardia.
func NewGuardHandler(gate *guard.Gate, deps verification.SessionDeps, sessions *verification.SessionRegistry, jwtCfg config.JWTConfig) *GuardHandler {
	return &GuardHandler{gate: gate, deps: deps, sessions: sessions, jwt: jwtCfg}
}

// Login godoc
// @Summary      Login de guardia
// @Tags         guardia
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GuardLoginRequest  true  "usuario (RUT), password"
// @Success      200   {object}  dto.GuardLoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/guardia/login [post]
func (h *GuardHandler) Login(c *fiber.Ctx) error {
	var in dto.GuardLoginRequest
	if e := parseBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	account, err := h.gate.Login(c.Context(), in.Usuario, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Usuario o contraseña incorrectos"})
		}
		return writeError(c, err)
	}
	sess, err := verification.StartSession(c.Context(), h.deps, *account)
	if err != nil {
		return writeError(c, err)
	}
	subject := rut.NormalizeUser(account.Usuario)
	if subject == "" {
		subject = rut.NormalizeUser(account.Rut)
	}
	token, err := jwt.Generate(h.jwt.Secret, subject, sess.ID, jwt.RoleGuardia, h.jwt.Issuer, h.jwt.Expiration)
	if err != nil {
		return writeError(c, fmt.Errorf("firmar token: %w", err))
	}
	h.sessions.Put(sess)
	log.Info().Str("usuario", subject).Str("session_id", sess.ID).Msg("guardia inició sesión")

	return c.JSON(dto.GuardLoginResponse{
		Token: token,
		Guardia: dto.GuardResponse{
			Nombre:  account.Nombre,
			Rut:     account.Rut,
			Usuario: account.Usuario,
		},
	})
}

// Logout cierra la sesión del guardia.
// POST /api/guardia/logout
func (h *GuardHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Remove(GetSessionID(c))
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// Worker godoc
// @Summary      Consultar trabajador por RUT
// @Tags         guardia
// @Produce      json
// @Param        rut  path  string  true  "RUT con o sin puntuación"
// @Success      200  {object}  dto.WorkerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/guardia/trabajadores/{rut} [get]
func (h *GuardHandler) Worker(c *fiber.Ctx) error {
	sess := getGuardSession(c)
	view, err := sess.Resolve(c.Context(), c.Params("rut"))
	if err != nil {
		return h.fail(c, sess, err)
	}
	return c.JSON(toWorkerResponse(*view))
}

// Current trabajador en pantalla de la sesión (204 si no hay).
// GET /api/guardia/actual
func (h *GuardHandler) Current(c *fiber.Ctx) error {
	view := getGuardSession(c).Current()
	if view == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toWorkerResponse(*view))
}

// Cancel descarta el trabajador en pantalla.
// DELETE /api/guardia/actual
func (h *GuardHandler) Cancel(c *fiber.Ctx) error {
	getGuardSession(c).Cancel()
	return c.SendStatus(fiber.StatusNoContent)
}

// Confirm godoc
// @Summary      Confirmar entrega del beneficio
// @Tags         guardia
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmDeliveryRequest  false  "rut (vacío = trabajador en pantalla)"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/guardia/entregas [post]
func (h *GuardHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmDeliveryRequest
	if len(c.Body()) > 0 {
		if e := parseBody(c, &in); e != nil {
			return c.Status(fiber.StatusBadRequest).JSON(e)
		}
	}
	sess := getGuardSession(c)
	d, err := sess.Confirm(c.Context(), in.Rut)
	if err != nil {
		return h.fail(c, sess, err)
	}
	return c.JSON(dto.DeliveryResponse{
		Message:    d.Message,
		Trabajador: toWorkerResponse(d.Record),
		Nota:       d.Note,
	})
}

// Scan godoc
// @Summary      Escanear QR desde una ráfaga de cuadros
// @Description  multipart con uno o más archivos "frames" (png/jpeg/gif/webp) o un campo "payload" con el texto ya leído.
// @Tags         guardia
// @Accept       mpfd
// @Produce      json
// @Success      200  {object}  dto.ScanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/guardia/escaneos [post]
func (h *GuardHandler) Scan(c *fiber.Ctx) error {
	sess := getGuardSession(c)
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se esperaba multipart/form-data"})
	}

	if files := form.File["frames"]; len(files) > 0 {
		if len(files) > maxScanFrames {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: fmt.Sprintf("máximo %d cuadros por escaneo", maxScanFrames)})
		}
		raw := make([][]byte, 0, len(files))
		for _, fh := range files {
			b, err := readFormFile(fh)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FRAME", Message: err.Error()})
			}
			raw = append(raw, b)
		}
		burst, err := camera.BurstFromBytes(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FRAME", Message: err.Error()})
		}
		view, err := sess.Scan(c.Context(), burst)
		return h.scanResult(c, sess, view, err)
	}

	if payload := form.Value["payload"]; len(payload) > 0 && payload[0] != "" {
		view, err := sess.ResolvePayload(c.Context(), payload[0])
		return h.scanResult(c, sess, view, err)
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "envíe cuadros (frames) o el texto del QR (payload)"})
}

func (h *GuardHandler) scanResult(c *fiber.Ctx, sess *verification.GuardSession, view *verification.RecordView, err error) error {
	if errors.Is(err, domain.ErrQRNotFound) {
		return c.JSON(dto.ScanResponse{Encontrado: false})
	}
	if err != nil {
		return h.fail(c, sess, err)
	}
	w := toWorkerResponse(*view)
	return c.JSON(dto.ScanResponse{Encontrado: true, Trabajador: &w})
}

// LastDelivery nota de la última entrega confirmada en la sesión.
// GET /api/guardia/ultima-entrega
func (h *GuardHandler) LastDelivery(c *fiber.Ctx) error {
	return c.JSON(dto.LastDeliveryResponse{Nota: getGuardSession(c).LastDelivery()})
}

// fail responde el error; si el guardia fue rechazado la sesión sale del registro.
func (h *GuardHandler) fail(c *fiber.Ctx, sess *verification.GuardSession, err error) error {
	if errors.Is(err, domain.ErrGuardRejected) || errors.Is(err, domain.ErrSessionTerminated) {
		h.sessions.Remove(sess.ID)
	}
	return writeError(c, err)
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxScanFrameBytes {
		return nil, fmt.Errorf("cuadro %s demasiado grande (%d bytes)", fh.Filename, fh.Size)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("leer cuadro: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxScanFrameBytes))
}

func toWorkerResponse(v verification.RecordView) dto.WorkerResponse {
	return dto.WorkerResponse{
		Rut:          v.Rut,
		Nombre:       v.Nombre,
		Correo:       v.Correo,
		TipoContrato: v.TipoContrato,
		Beneficio:    v.Beneficio,
		TipoCaja:     v.TipoCaja,
		Retirado:     v.Retirado,
		FechaRetiro:  verification.DisplayFecha(v.FechaRetiro),
	}
}
