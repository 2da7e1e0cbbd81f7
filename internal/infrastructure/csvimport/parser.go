// Package csvimport lee la nómina desde una planilla CSV exportada por RR.HH.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/beneficios-api/internal/application/bootstrap"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

// DefaultBeneficio beneficio asignado cuando la columna viene vacía.
const DefaultBeneficio = "Caja Navidad"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Columnas reconocidas. Cada campo acepta varios encabezados ya normalizados.
const (
	colNombre = iota
	colRut
	colCorreo
	colContrato
	colRol
	colLocalidad
	colBeneficio
	colCount
)

var headerAliases = map[string]int{
	"nombre":           colNombre,
	"nombre completo":  colNombre,
	"rut":              colRut,
	"correo":           colCorreo,
	"email":            colCorreo,
	"tipo contrato":    colContrato,
	"tipo de contrato": colContrato,
	"contrato":         colContrato,
	"rol":              colRol,
	"cargo":            colRol,
	"localidad":        colLocalidad,
	"sucursal":         colLocalidad,
	"beneficio":        colBeneficio,
}

// Parser implementa bootstrap.RosterParser sobre encoding/csv.
type Parser struct{}

var _ bootstrap.RosterParser = (*Parser)(nil)

// NewParser construye el parser.
func NewParser() *Parser { return &Parser{} }

// ParseRoster lee la planilla completa. Acepta UTF-8 (con o sin BOM) o Latin-1 y separador ';' o ','.
// Las filas sin RUT o sin nombre se omiten con advertencia; un RUT repetido conserva la primera fila.
func (p *Parser) ParseRoster(r io.Reader) (*bootstrap.ParsedRoster, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csvimport: leer archivo: %w", err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: codificación no soportada: %v", domain.ErrInvalidInput, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: encabezado: %v", domain.ErrInvalidInput, err)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	out := &bootstrap.ParsedRoster{}
	seen := make(map[string]int)
	line := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			out.Warnings = append(out.Warnings, bootstrap.ImportWarning{Row: line, Message: err.Error()})
			continue
		}
		if blank(fields) {
			continue
		}
		rec, warns := buildRecord(fields, cols, line)
		out.Warnings = append(out.Warnings, warns...)
		if rec == nil {
			continue
		}
		if first, dup := seen[rec.Key()]; dup {
			out.Warnings = append(out.Warnings, bootstrap.ImportWarning{
				Row:     line,
				Message: fmt.Sprintf("RUT %s repetido (se conserva la fila %d)", rec.Rut, first),
			})
			continue
		}
		seen[rec.Key()] = line
		out.Records = append(out.Records, *rec)
	}
	return out, nil
}

func buildRecord(fields []string, cols [colCount]int, line int) (*entity.BenefitRecord, []bootstrap.ImportWarning) {
	get := func(c int) string {
		i := cols[c]
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	warn := func(format string, args ...any) bootstrap.ImportWarning {
		return bootstrap.ImportWarning{Row: line, Message: fmt.Sprintf(format, args...)}
	}

	var warns []bootstrap.ImportWarning
	nombre, rutValue := get(colNombre), get(colRut)
	if rut.Normalize(rutValue) == "" {
		return nil, append(warns, warn("fila sin RUT, omitida"))
	}
	if nombre == "" {
		return nil, append(warns, warn("fila sin nombre (RUT %s), omitida", rutValue))
	}
	if err := rut.Validate(rutValue); err != nil {
		warns = append(warns, warn("RUT %s: %v", rutValue, err))
	}

	contrato, ok := parseContrato(get(colContrato))
	if !ok {
		warns = append(warns, warn("tipo de contrato %q desconocido, se asume %s", get(colContrato), contrato))
	}
	beneficio := get(colBeneficio)
	if beneficio == "" {
		beneficio = DefaultBeneficio
	}

	return &entity.BenefitRecord{
		Rut:          rutValue,
		Nombre:       nombre,
		Correo:       get(colCorreo),
		TipoContrato: contrato,
		Rol:          get(colRol),
		Localidad:    get(colLocalidad),
		Beneficio:    beneficio,
		Estado:       entity.EstadoPendiente,
	}, warns
}

// parseContrato reconoce "Planta" y "Plazo Fijo" en cualquier escritura. Lo desconocido es Plazo Fijo.
func parseContrato(s string) (entity.TipoContrato, bool) {
	switch strings.ReplaceAll(foldHeader(s), " ", "") {
	case "planta", "indefinido":
		return entity.ContratoPlanta, true
	case "plazofijo":
		return entity.ContratoPlazoFijo, true
	}
	return entity.ContratoPlazoFijo, false
}

func mapHeader(header []string) ([colCount]int, error) {
	var cols [colCount]int
	for i := range cols {
		cols[i] = -1
	}
	for i, h := range header {
		c, ok := headerAliases[foldHeader(h)]
		if ok && cols[c] < 0 {
			cols[c] = i
		}
	}
	if cols[colRut] < 0 || cols[colNombre] < 0 {
		return cols, fmt.Errorf("%w: el encabezado debe incluir las columnas nombre y rut", domain.ErrInvalidInput)
	}
	return cols, nil
}

// foldHeader pasa a minúsculas, quita tildes y colapsa espacios: "Tipo  Contrató" → "tipo contrato".
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return unicode.ToLower(r)
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// decodeText quita el BOM de UTF-8 o, si el contenido no es UTF-8 válido, lo lee como Latin-1.
func decodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// detectDelimiter elige ';' si aparece en la primera línea más veces que ','.
func detectDelimiter(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
