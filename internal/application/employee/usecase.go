package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
	"github.com/jhoicas/beneficios-api/pkg/config"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

// CardRenderer genera la tarjeta imprimible con el QR (PDF).
type CardRenderer interface {
	RenderCard(card Card) ([]byte, error)
}

// Card datos de la tarjeta imprimible.
type Card struct {
	Empresa     string
	Payload     entity.QRPayload
	QRText      string
	GeneratedAt time.Time
}

// CardFile tarjeta lista para descargar.
type CardFile struct {
	Filename string
	Content  []byte
}

// View vista del beneficio para el portal del empleado (los mismos datos que viajan en el QR).
type View struct {
	entity.QRPayload
	Correo    string
	Localidad string
}

// UseCase portal del empleado: ingreso por RUT, vista del beneficio y QR.
type UseCase struct {
	roster repository.RosterStore
	codec  *qr.Codec
	cards  CardRenderer
	cfg    config.BeneficioConfig
	now    func() time.Time
}

// NewUseCase construye el caso de uso del portal del empleado.
func NewUseCase(roster repository.RosterStore, codec *qr.Codec, cards CardRenderer, cfg config.BeneficioConfig) *UseCase {
	return &UseCase{roster: roster, codec: codec, cards: cards, cfg: cfg, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *UseCase) SetClock(now func() time.Time) { uc.now = now }

// Login valida RUT y contraseña. La contraseña es el RUT antes del guion, sin puntos.
func (uc *UseCase) Login(ctx context.Context, rutValue, password string) (*entity.BenefitRecord, error) {
	rec, err := uc.find(ctx, rutValue)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) != rut.DefaultPassword(rec.Rut) {
		return nil, fmt.Errorf("%w: RUT o contraseña incorrectos", domain.ErrUnauthorized)
	}
	if strings.EqualFold(strings.TrimSpace(rec.Rol), "Guardia") {
		return nil, fmt.Errorf("%w: Los guardias deben usar el portal de guardia", domain.ErrUnauthorized)
	}
	return rec, nil
}

// View arma la vista del beneficio desde la nómina actual.
func (uc *UseCase) View(ctx context.Context, rutValue string) (*View, error) {
	rec, err := uc.find(ctx, rutValue)
	if err != nil {
		return nil, err
	}
	p := qr.BuildPayload(*rec, uc.cfg.FechaLimite, uc.now())
	return &View{QRPayload: p, Correo: rec.Correo, Localidad: rec.Localidad}, nil
}

// QRImage genera el QR del beneficio (PNG) con la nómina actual.
func (uc *UseCase) QRImage(ctx context.Context, rutValue string) (*qr.Encoded, error) {
	rec, err := uc.find(ctx, rutValue)
	if err != nil {
		return nil, err
	}
	return uc.codec.Encode(*rec, uc.now())
}

// QRCard genera la tarjeta imprimible. Nombre: QR-Beneficio-<rut sin puntos>-<unix ms>.pdf.
func (uc *UseCase) QRCard(ctx context.Context, rutValue string) (*CardFile, error) {
	rec, err := uc.find(ctx, rutValue)
	if err != nil {
		return nil, err
	}
	at := uc.now()
	payload := qr.BuildPayload(*rec, uc.cfg.FechaLimite, at)
	text, err := qr.MarshalPayload(payload)
	if err != nil {
		return nil, err
	}
	content, err := uc.cards.RenderCard(Card{
		Empresa:     uc.cfg.EmpresaNombre,
		Payload:     payload,
		QRText:      text,
		GeneratedAt: at,
	})
	if err != nil {
		return nil, fmt.Errorf("generar tarjeta: %w", err)
	}
	name := fmt.Sprintf("QR-Beneficio-%s-%d.pdf", strings.ReplaceAll(strings.TrimSpace(rec.Rut), ".", ""), at.UnixMilli())
	return &CardFile{Filename: name, Content: content}, nil
}

func (uc *UseCase) find(ctx context.Context, rutValue string) (*entity.BenefitRecord, error) {
	if rut.Normalize(rutValue) == "" {
		return nil, fmt.Errorf("%w: Ingrese un RUT válido", domain.ErrInvalidInput)
	}
	list, err := uc.roster.LoadRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer nómina: %w", err)
	}
	idx := entity.FindByRut(list, rutValue)
	if idx < 0 {
		return nil, domain.ErrNotEnrolled
	}
	rec := list[idx]
	return &rec, nil
}
