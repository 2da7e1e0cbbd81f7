package rut_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beneficios-api/pkg/rut"
)

func TestNormalize_PuntuacionEquivalente(t *testing.T) {
	assert.Equal(t, "162345678", rut.Normalize("16.234.567-8"))
	assert.Equal(t, rut.Normalize("16.234.567-8"), rut.Normalize("16234567-8"))
	assert.Equal(t, "12345678K", rut.Normalize(" 12.345.678-k "))
	assert.Equal(t, "", rut.Normalize(""))
}

func TestNormalizeUser_AceptaConYSinGuion(t *testing.T) {
	assert.Equal(t, rut.NormalizeUser("15123456-7"), rut.NormalizeUser("151234567"))
	assert.Equal(t, rut.NormalizeUser("15.123.456-7"), rut.NormalizeUser("151234567"))
}

func TestCheckDigit_VectoresConocidos(t *testing.T) {
	cases := map[string]byte{
		"11111111": '1',
		"16234567": '2',
		"15123456": '9',
		"12345678": '5',
		"6":        'K',
	}
	for body, want := range cases {
		got, err := rut.CheckDigit(body)
		require.NoError(t, err, body)
		assert.Equal(t, string(want), string(got), "cuerpo %s", body)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, rut.Validate("11.111.111-1"))
	assert.NoError(t, rut.Validate("6-k"))
	assert.Error(t, rut.Validate("16.234.567-8"), "dígito verificador incorrecto")
	assert.Error(t, rut.Validate("abc"))
	assert.Error(t, rut.Validate("1"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "16.234.567-8", rut.Format("162345678"))
	assert.Equal(t, "16.234.567-8", rut.Format("16234567-8"))
	assert.Equal(t, "1.234.567-K", rut.Format("1234567k"))
	assert.Equal(t, "no-es-rut", rut.Format("no-es-rut"))
}

func TestDefaultPassword(t *testing.T) {
	assert.Equal(t, "15123456", rut.DefaultPassword("15.123.456-7"))
	assert.Equal(t, "16234567", rut.DefaultPassword("16234567-8"))
}
