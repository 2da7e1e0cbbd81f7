package verification_test

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
)

// stubRoster nómina en memoria con fallas configurables.
type stubRoster struct {
	mu      sync.Mutex
	records []entity.BenefitRecord
	loadErr error
	saveErr error
	saves   int
}

func (s *stubRoster) LoadRoster(context.Context) ([]entity.BenefitRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]entity.BenefitRecord(nil), s.records...), nil
}

func (s *stubRoster) SaveRoster(_ context.Context, records []entity.BenefitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = append([]entity.BenefitRecord(nil), records...)
	s.saves++
	return nil
}

func (s *stubRoster) get(i int) entity.BenefitRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[i]
}

// stubNotifier cuenta avisos; err simula una falla de publicación.
type stubNotifier struct {
	mu    sync.Mutex
	count int
	err   error
}

func (n *stubNotifier) NotifyRosterChanged(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	return n.err
}

func (n *stubNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// stubGate autoriza según el error configurado y cuenta las llamadas.
type stubGate struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (g *stubGate) Authorize(context.Context, entity.GuardAccount) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.err
}

func (g *stubGate) set(err error) {
	g.mu.Lock()
	g.err = err
	g.mu.Unlock()
}

// textFrame cuadro que lleva el texto del QR.
type textFrame struct {
	*image.Gray
	text string
}

type fakeSymbols struct{}

func (fakeSymbols) EncodePNG(text string) ([]byte, error) { return []byte(text), nil }

func (fakeSymbols) DecodeImage(img image.Image) (string, error) {
	if f, ok := img.(textFrame); ok {
		return f.text, nil
	}
	return "", domain.ErrQRNotFound
}

// listCamera fuente finita de cuadros.
type listCamera struct {
	texts   []string
	openErr error
	held    bool
}

func (c *listCamera) Open(context.Context) (qr.FrameSource, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.held = true
	return &listSource{cam: c}, nil
}

type listSource struct {
	cam  *listCamera
	next int
}

func (s *listSource) NextFrame(context.Context) (image.Image, error) {
	if s.next >= len(s.cam.texts) {
		return nil, io.EOF
	}
	t := s.cam.texts[s.next]
	s.next++
	blank := image.NewGray(image.Rect(0, 0, 4, 4))
	if t == "" {
		return blank, nil
	}
	return textFrame{Gray: blank, text: t}, nil
}

func (s *listSource) Close() error {
	s.cam.held = false
	return nil
}

var errDisk = errors.New("disco lleno")
