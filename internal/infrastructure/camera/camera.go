// Package camera provee fuentes de cuadros finitas para el escáner: ráfagas subidas por el
// navegador del guardia y archivos de imagen.
package camera

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
)

var (
	_ qr.Camera = (*Burst)(nil)
	_ qr.Camera = (*Files)(nil)
)

// DecodeFrame decodifica una imagen (png, jpeg, gif o webp).
func DecodeFrame(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imagen ilegible: %w", err)
	}
	return img, nil
}

// Burst ráfaga de cuadros ya decodificados.
type Burst struct {
	frames []image.Image
}

// NewBurst crea la ráfaga.
func NewBurst(frames ...image.Image) *Burst {
	return &Burst{frames: frames}
}

// BurstFromBytes decodifica cada imagen de la ráfaga.
func BurstFromBytes(raw [][]byte) (*Burst, error) {
	frames := make([]image.Image, 0, len(raw))
	for i, b := range raw {
		img, err := DecodeFrame(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("cuadro %d: %w", i+1, err)
		}
		frames = append(frames, img)
	}
	return NewBurst(frames...), nil
}

// Open falla si la ráfaga está vacía: no hay cámara que leer.
func (b *Burst) Open(context.Context) (qr.FrameSource, error) {
	if len(b.frames) == 0 {
		return nil, fmt.Errorf("ráfaga vacía")
	}
	return &sliceSource{frames: b.frames}, nil
}

// Files lee cada archivo como un cuadro, en orden.
type Files struct {
	paths []string
}

// NewFiles crea la fuente sobre las rutas dadas.
func NewFiles(paths ...string) *Files {
	return &Files{paths: paths}
}

// Open decodifica todos los archivos; uno ilegible hace fallar la apertura.
func (f *Files) Open(context.Context) (qr.FrameSource, error) {
	if len(f.paths) == 0 {
		return nil, fmt.Errorf("sin archivos")
	}
	frames := make([]image.Image, 0, len(f.paths))
	for _, p := range f.paths {
		img, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return &sliceSource{frames: frames}, nil
}

func decodeFile(path string) (image.Image, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	img, err := DecodeFrame(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// sliceSource entrega los cuadros en orden y luego io.EOF.
type sliceSource struct {
	mu     sync.Mutex
	frames []image.Image
	next   int
	closed bool
}

func (s *sliceSource) NextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("fuente cerrada")
	}
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

func (s *sliceSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.frames = nil
	s.mu.Unlock()
	return nil
}
