package qr

import (
	"context"
	"image"
)

// SymbolEncoder dibuja un texto como símbolo QR y devuelve la imagen en PNG.
type SymbolEncoder interface {
	EncodePNG(text string) ([]byte, error)
}

// SymbolDecoder busca un símbolo QR en un cuadro. Devuelve domain.ErrQRNotFound si no hay ninguno legible.
type SymbolDecoder interface {
	DecodeImage(img image.Image) (string, error)
}

// Camera abre una fuente de cuadros. Si el dispositivo no está disponible Open falla.
type Camera interface {
	Open(ctx context.Context) (FrameSource, error)
}

// FrameSource entrega cuadros a su propio ritmo. Una fuente finita devuelve io.EOF al agotarse.
// Close libera el dispositivo y debe poder llamarse más de una vez.
type FrameSource interface {
	NextFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// FrameRecorder registra el resultado de cada cuadro analizado (métricas).
type FrameRecorder interface {
	ObserveFrame(outcome Outcome)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFrame(Outcome) {}
