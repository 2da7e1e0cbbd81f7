// qrcheck diagnostica imágenes con códigos QR de beneficio: trata los archivos como los cuadros
// de una cámara, los pasa por el escáner y muestra el resultado de cada cuadro.
//
// Uso: go run ./cmd/qrcheck foto1.png foto2.jpg ...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/camera"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/qrcode"
	"github.com/jhoicas/beneficios-api/pkg/config"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: qrcheck <imagen> [imagen...]")
		os.Exit(2)
	}
	paths := os.Args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("🔍 DIAGNÓSTICO DE CÓDIGO QR")
	fmt.Println("--------------------------")

	// El encoder no se usa para leer, pero el codec lo requiere
	codec := qr.NewCodec(qrcode.NewEncoder(config.QRConfig{ModulePixels: 8, QuietZone: 4, ErrorCorrection: "M"}), qrcode.NewDecoder(true), "")
	scanner := qr.NewScanner(codec, nil)

	sess, err := scanner.Start(ctx, camera.NewFiles(paths...))
	if err != nil {
		fmt.Println("\n❌ NO SE PUDIERON ABRIR LAS IMÁGENES:")
		fmt.Printf("   Detalle técnico: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	decoded := 0
	i := 0
	for res, err := range sess.Frames(ctx) {
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Printf("\n❌ Escaneo interrumpido: %v\n", err)
			}
			break
		}
		name := paths[i]
		i++
		switch res.Outcome {
		case qr.OutcomeDecoded:
			decoded++
			p := res.Payload
			fmt.Printf("✅ %s: QR válido\n", name)
			fmt.Printf("   RUT:        %s (normalizado %s)\n", rut.Format(p.Rut), rut.Normalize(p.Rut))
			if err := rut.Validate(p.Rut); err != nil {
				fmt.Printf("   ⚠️  %v\n", err)
			}
			fmt.Printf("   Nombre:     %s\n", p.Nombre)
			fmt.Printf("   Beneficio:  %s • %s\n", p.BeneficioAsignado, p.TipoCaja)
			fmt.Printf("   Generado:   %s\n", p.Timestamp)
		case qr.OutcomeInvalid:
			fmt.Printf("⚠️  %s: se leyó un QR pero no es de beneficio\n", name)
			fmt.Printf("   Contenido: %q\n", res.Text)
		default:
			fmt.Printf("❌ %s: no se detectó un código QR\n", name)
		}
	}

	fmt.Printf("\n%d de %d imágenes con QR válido.\n", decoded, len(paths))
	if decoded == 0 {
		os.Exit(1)
	}
}
