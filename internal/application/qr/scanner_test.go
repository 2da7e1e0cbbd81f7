package qr_test

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/domain"
)

func newScanner(rec qr.FrameRecorder) *qr.Scanner {
	return qr.NewScanner(qr.NewCodec(fakeSymbols{}, fakeSymbols{}, ""), rec)
}

// 50 cuadros sin símbolo: 50 NotFound, ningún error, cámara tomada hasta Close.
func TestScanSession_CincuentaCuadrosSinQR(t *testing.T) {
	cam := &fakeCamera{infinite: true}
	rec := newCountingRecorder()
	ctx := context.Background()

	session, err := newScanner(rec).Start(ctx, cam)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		res, err := session.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, qr.OutcomeNotFound, res.Outcome)
	}

	assert.Equal(t, 50, rec.count(qr.OutcomeNotFound))
	assert.Equal(t, 50, session.FrameCount())
	assert.True(t, session.Held())
	assert.True(t, cam.isHeld(), "la cámara sigue tomada mientras el operador no cancele")

	require.NoError(t, session.Close())
	assert.False(t, session.Held())
	assert.False(t, cam.isHeld())

	_, err = session.Next(ctx)
	assert.ErrorIs(t, err, qr.ErrScanClosed)
	assert.NoError(t, session.Close(), "Close es idempotente")
}

func TestScanSession_ContenidoInvalidoSigueEscaneando(t *testing.T) {
	cam := &fakeCamera{frames: []image.Image{
		blankFrame(),
		frameWithText("https://example.cl"),
		frameWithText(`{"rut":"16234567-8"}`),
	}}
	ctx := context.Background()

	session, err := newScanner(nil).Start(ctx, cam)
	require.NoError(t, err)
	defer session.Close()

	var outcomes []qr.Outcome
	for res, err := range session.Frames(ctx) {
		require.NoError(t, err)
		outcomes = append(outcomes, res.Outcome)
		if res.Outcome == qr.OutcomeDecoded {
			assert.Equal(t, "16234567-8", res.Payload.Rut)
			break
		}
	}
	assert.Equal(t, []qr.Outcome{qr.OutcomeNotFound, qr.OutcomeInvalid, qr.OutcomeDecoded}, outcomes)
}

func TestScanSession_CancelarContexto(t *testing.T) {
	cam := &fakeCamera{infinite: true}
	ctx, cancel := context.WithCancel(context.Background())

	session, err := newScanner(nil).Start(ctx, cam)
	require.NoError(t, err)

	_, err = session.Next(ctx)
	require.NoError(t, err)

	cancel()
	_, err = session.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, session.Close())
	assert.False(t, cam.isHeld())
}

// ──────────────────────────────────────────────────────────────────────────────
// ScanRUT
// ──────────────────────────────────────────────────────────────────────────────

func TestScanRUT_LiberaCamaraEnTodasLasSalidas(t *testing.T) {
	ctx := context.Background()

	t.Run("decodificado", func(t *testing.T) {
		cam := &fakeCamera{frames: []image.Image{blankFrame(), frameWithText(`{"rut":"11111111-1"}`)}}
		p, err := newScanner(nil).ScanRUT(ctx, cam)
		require.NoError(t, err)
		assert.Equal(t, "11111111-1", p.Rut)
		assert.False(t, cam.isHeld())
	})

	t.Run("fuente agotada", func(t *testing.T) {
		cam := &fakeCamera{frames: []image.Image{blankFrame(), blankFrame()}}
		_, err := newScanner(nil).ScanRUT(ctx, cam)
		assert.ErrorIs(t, err, domain.ErrQRNotFound)
		assert.False(t, errors.Is(err, io.EOF))
		assert.False(t, cam.isHeld())
	})

	t.Run("cancelado", func(t *testing.T) {
		cam := &fakeCamera{infinite: true}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newScanner(nil).ScanRUT(cctx, cam)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, cam.isHeld())
	})
}

func TestStart_CamaraNoDisponible(t *testing.T) {
	cam := &fakeCamera{openErr: errors.New("permiso denegado")}

	_, err := newScanner(nil).Start(context.Background(), cam)
	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
}
