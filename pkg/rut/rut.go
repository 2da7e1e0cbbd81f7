// Package rut agrupa las utilidades del RUT chileno: normalización para comparar,
// formato de despliegue y cálculo del dígito verificador (módulo 11).
package rut

import (
	"fmt"
	"strings"
	"unicode"
)

// Normalize deja el RUT listo para comparar: sin puntos, guiones ni espacios y en mayúsculas.
// "16.234.567-8", "16234567-8" y "162345678" normalizan igual.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '.' || r == '-':
			continue
		case unicode.IsSpace(r):
			continue
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// NormalizeUser normaliza el usuario de un guardia. Por convención el usuario es el RUT,
// así que se aplica la misma regla que a un RUT.
func NormalizeUser(s string) string {
	return Normalize(s)
}

// Split separa un RUT en cuerpo numérico y dígito verificador.
func Split(s string) (body string, dv byte, err error) {
	n := Normalize(s)
	if len(n) < 2 {
		return "", 0, fmt.Errorf("rut: valor demasiado corto %q", s)
	}
	body, last := n[:len(n)-1], n[len(n)-1]
	for _, r := range body {
		if r < '0' || r > '9' {
			return "", 0, fmt.Errorf("rut: cuerpo no numérico %q", s)
		}
	}
	if (last < '0' || last > '9') && last != 'K' {
		return "", 0, fmt.Errorf("rut: dígito verificador inválido %q", s)
	}
	return body, last, nil
}

// CheckDigit calcula el dígito verificador del cuerpo numérico (módulo 11, pesos 2..7 de derecha a izquierda).
func CheckDigit(body string) (byte, error) {
	digits := Normalize(body)
	if digits == "" {
		return 0, fmt.Errorf("rut: cuerpo vacío")
	}
	sum, weight := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("rut: cuerpo no numérico %q", body)
		}
		sum += int(d-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + r), nil
	}
}

// Validate verifica que el dígito verificador corresponda al cuerpo.
func Validate(s string) error {
	body, dv, err := Split(s)
	if err != nil {
		return err
	}
	expected, err := CheckDigit(body)
	if err != nil {
		return err
	}
	if dv != expected {
		return fmt.Errorf("rut: dígito verificador incorrecto: esperado %c, recibido %c", expected, dv)
	}
	return nil
}

// Format devuelve el RUT en formato de despliegue: "16.234.567-8".
// Si el valor no tiene forma de RUT se devuelve tal cual.
func Format(s string) string {
	body, dv, err := Split(s)
	if err != nil {
		return s
	}
	n := len(body)
	buf := make([]byte, 0, n+n/3+2)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, body[i])
	}
	buf = append(buf, '-', dv)
	return string(buf)
}

// DefaultPassword es la contraseña inicial de un guardia: los dígitos antes del guion, sin puntos.
// "15.123.456-7" → "15123456".
func DefaultPassword(s string) string {
	head, _, _ := strings.Cut(strings.TrimSpace(s), "-")
	return strings.ReplaceAll(head, ".", "")
}
