// Package qrcode dibuja y lee símbolos QR.
package qrcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	bqr "github.com/boombuler/barcode/qr"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/pkg/config"
)

var _ qr.SymbolEncoder = (*Encoder)(nil)

// Encoder genera PNG en blanco y negro con densidad fija: ModulePixels pixeles por módulo
// y QuietZone módulos de margen en cada lado.
type Encoder struct {
	modulePixels int
	quietZone    int
	level        bqr.ErrorCorrectionLevel
}

// NewEncoder construye el codificador desde la configuración.
func NewEncoder(cfg config.QRConfig) *Encoder {
	return &Encoder{
		modulePixels: max(cfg.ModulePixels, 1),
		quietZone:    max(cfg.QuietZone, 0),
		level:        correctionLevel(cfg.ErrorCorrection),
	}
}

func correctionLevel(s string) bqr.ErrorCorrectionLevel {
	switch s {
	case "L":
		return bqr.L
	case "Q":
		return bqr.Q
	case "H":
		return bqr.H
	default:
		return bqr.M
	}
}

// Render dibuja el símbolo con su margen.
func (e *Encoder) Render(text string) (image.Image, error) {
	code, err := bqr.Encode(text, e.level, bqr.Unicode)
	if err != nil {
		return nil, fmt.Errorf("codificar qr: %w", err)
	}
	modules := code.Bounds().Dx()
	side := modules * e.modulePixels
	scaled, err := barcode.Scale(code, side, side)
	if err != nil {
		return nil, fmt.Errorf("escalar qr: %w", err)
	}

	margin := e.quietZone * e.modulePixels
	canvas := image.NewGray(image.Rect(0, 0, side+2*margin, side+2*margin))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(margin, margin, margin+side, margin+side), scaled, image.Point{}, draw.Src)
	return canvas, nil
}

// EncodePNG dibuja el símbolo y lo devuelve como PNG.
func (e *Encoder) EncodePNG(text string) ([]byte, error) {
	img, err := e.Render(text)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png: %w", err)
	}
	return buf.Bytes(), nil
}
