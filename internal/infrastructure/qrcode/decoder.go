package qrcode

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	zqr "github.com/makiuchi-d/gozxing/qrcode"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/domain"
)

var _ qr.SymbolDecoder = (*Decoder)(nil)

// Decoder busca un símbolo QR en un cuadro con gozxing.
type Decoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewDecoder construye el lector. tryHarder sacrifica velocidad por tolerancia a cuadros de cámara.
func NewDecoder(tryHarder bool) *Decoder {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	if tryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	return &Decoder{hints: hints}
}

// DecodeImage devuelve el texto del símbolo. Cualquier falla del lector (sin símbolo, símbolo
// dañado, checksum) es domain.ErrQRNotFound: para el escaneo continuo todas significan "siguiente cuadro".
func (d *Decoder) DecodeImage(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", domain.ErrQRNotFound
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", domain.ErrQRNotFound
	}
	result, err := zqr.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		return "", domain.ErrQRNotFound
	}
	return result.GetText(), nil
}
