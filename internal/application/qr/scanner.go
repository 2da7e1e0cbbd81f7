package qr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"iter"
	"sync"

	"github.com/google/uuid"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
)

// Outcome resultado del análisis de un cuadro.
type Outcome int

const (
	OutcomeNotFound Outcome = iota // sin símbolo legible
	OutcomeInvalid                 // símbolo leído pero el contenido no es un payload válido
	OutcomeDecoded                 // payload válido
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDecoded:
		return "decodificado"
	case OutcomeInvalid:
		return "invalido"
	default:
		return "sin_qr"
	}
}

// ErrScanClosed se devuelve al pedir cuadros a una sesión de escaneo ya cerrada.
var ErrScanClosed = errors.New("sesión de escaneo cerrada")

// FrameResult resultado de un cuadro. Payload solo viene con OutcomeDecoded.
type FrameResult struct {
	Outcome Outcome
	Text    string
	Payload *entity.QRPayload
}

// Scanner abre sesiones de escaneo sobre una cámara.
type Scanner struct {
	codec    *Codec
	recorder FrameRecorder
}

// NewScanner construye el escáner. recorder puede ser nil.
func NewScanner(codec *Codec, recorder FrameRecorder) *Scanner {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Scanner{codec: codec, recorder: recorder}
}

// Start abre la cámara y devuelve la sesión. La cámara queda tomada hasta Close.
func (s *Scanner) Start(ctx context.Context, cam Camera) (*ScanSession, error) {
	if cam == nil {
		return nil, domain.ErrDeviceUnavailable
	}
	src, err := cam.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDeviceUnavailable, err)
	}
	return &ScanSession{ID: uuid.NewString(), src: src, scanner: s}, nil
}

// ScanRUT escanea hasta obtener un payload válido y devuelve el rut leído.
// La cámara se libera en todas las salidas. Si una fuente finita se agota sin leer nada
// devuelve domain.ErrQRNotFound.
func (s *Scanner) ScanRUT(ctx context.Context, cam Camera) (*entity.QRPayload, error) {
	session, err := s.Start(ctx, cam)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	for res, err := range session.Frames(ctx) {
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, domain.ErrQRNotFound
			}
			return nil, err
		}
		if res.Outcome == OutcomeDecoded {
			return res.Payload, nil
		}
	}
	return nil, domain.ErrQRNotFound
}

// ScanSession iterador cancelable sobre los cuadros de una cámara abierta.
// Por sí mismo no termina: termina cuando el operador la cierra o cancela ctx.
type ScanSession struct {
	ID      string
	src     FrameSource
	scanner *Scanner

	mu     sync.Mutex
	closed bool
	frames int
}

// Next pide el siguiente cuadro y lo analiza. Un cuadro sin QR no es error: vuelve con OutcomeNotFound.
// Errores: ErrScanClosed, ctx.Err(), io.EOF (fuente finita agotada) o domain.ErrDeviceUnavailable.
func (s *ScanSession) Next(ctx context.Context) (FrameResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return FrameResult{}, ErrScanClosed
	}
	src := s.src
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return FrameResult{}, err
	}
	frame, err := src.NextFrame(ctx)
	if err != nil {
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return FrameResult{}, err
		default:
			return FrameResult{}, fmt.Errorf("%w: %v", domain.ErrDeviceUnavailable, err)
		}
	}

	s.mu.Lock()
	s.frames++
	s.mu.Unlock()

	res := s.analyze(frame)
	s.scanner.recorder.ObserveFrame(res.Outcome)
	return res, nil
}

func (s *ScanSession) analyze(frame image.Image) FrameResult {
	text, err := s.scanner.codec.Decode(frame)
	if err != nil {
		return FrameResult{Outcome: OutcomeNotFound}
	}
	payload, err := ParsePayload(text)
	if err != nil {
		return FrameResult{Outcome: OutcomeInvalid, Text: text}
	}
	return FrameResult{Outcome: OutcomeDecoded, Text: text, Payload: payload}
}

// Frames recorre la sesión cuadro a cuadro. El recorrido termina con el primer error
// (que se entrega al cuerpo del for) o cuando quien itera corta el ciclo.
func (s *ScanSession) Frames(ctx context.Context) iter.Seq2[FrameResult, error] {
	return func(yield func(FrameResult, error) bool) {
		for {
			res, err := s.Next(ctx)
			if err != nil {
				yield(FrameResult{}, err)
				return
			}
			if !yield(res, nil) {
				return
			}
		}
	}
}

// Held indica si la sesión todavía tiene la cámara tomada.
func (s *ScanSession) Held() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// FrameCount cantidad de cuadros analizados.
func (s *ScanSession) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Close libera la cámara. Es idempotente.
func (s *ScanSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	src := s.src
	s.mu.Unlock()
	return src.Close()
}
