package qr_test

import (
	"context"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/domain"
)

// textFrame cuadro de prueba que "contiene" un texto QR sin necesidad de dibujarlo.
type textFrame struct {
	*image.Gray
	text string
}

func blankFrame() image.Image {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = uint8(color.White.Y >> 8)
	}
	return img
}

func frameWithText(text string) image.Image {
	return textFrame{Gray: image.NewGray(image.Rect(0, 0, 8, 8)), text: text}
}

// fakeSymbols codificador/decodificador en memoria.
type fakeSymbols struct{}

func (fakeSymbols) EncodePNG(text string) ([]byte, error) { return []byte("PNG:" + text), nil }

func (fakeSymbols) DecodeImage(img image.Image) (string, error) {
	if f, ok := img.(textFrame); ok {
		return f.text, nil
	}
	return "", domain.ErrQRNotFound
}

// fakeCamera entrega cuadros de una lista o, si infinite, siempre el mismo cuadro en blanco.
type fakeCamera struct {
	frames   []image.Image
	infinite bool
	openErr  error

	mu     sync.Mutex
	opened int
	closed int
}

func (c *fakeCamera) Open(context.Context) (qr.FrameSource, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.mu.Lock()
	c.opened++
	c.mu.Unlock()
	return &fakeSource{cam: c}, nil
}

func (c *fakeCamera) isHeld() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened > c.closed
}

type fakeSource struct {
	cam    *fakeCamera
	next   int
	closed bool
}

func (s *fakeSource) NextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.cam.infinite {
		return blankFrame(), nil
	}
	if s.next >= len(s.cam.frames) {
		return nil, io.EOF
	}
	f := s.cam.frames[s.next]
	s.next++
	return f, nil
}

func (s *fakeSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cam.mu.Lock()
	s.cam.closed++
	s.cam.mu.Unlock()
	return nil
}

// countingRecorder cuenta resultados por tipo.
type countingRecorder struct {
	mu     sync.Mutex
	counts map[qr.Outcome]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{counts: map[qr.Outcome]int{}}
}

func (r *countingRecorder) ObserveFrame(o qr.Outcome) {
	r.mu.Lock()
	r.counts[o]++
	r.mu.Unlock()
}

func (r *countingRecorder) count(o qr.Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[o]
}
