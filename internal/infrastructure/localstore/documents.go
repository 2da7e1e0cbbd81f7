// Package localstore implementa la nómina y el directorio de guardias sobre un almacén
// clave/valor. Cada colección es un único arreglo JSON bajo una clave conocida y se reemplaza
// completa en cada escritura. Los documentos se validan al leer y al escribir.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

// recordDoc forma persistida de un registro de la nómina.
type recordDoc struct {
	ID           int    `json:"id"`
	Nombre       string `json:"nombre" validate:"required"`
	Rut          string `json:"rut" validate:"required,rut_normalizable"`
	Correo       string `json:"correo,omitempty"`
	TipoContrato string `json:"tipoContrato" validate:"required,tipo_contrato"`
	Rol          string `json:"rol,omitempty"`
	Localidad    string `json:"localidad,omitempty"`
	Beneficio    string `json:"beneficio"`
	Estado       string `json:"estado" validate:"required,oneof=Pendiente Retirado"`
	FechaRetiro  string `json:"fechaRetiro,omitempty" validate:"required_if=Estado Retirado,excluded_unless=Estado Retirado"`
}

// guardDoc forma persistida de un guardia.
type guardDoc struct {
	ID            int    `json:"id"`
	Nombre        string `json:"nombre" validate:"required"`
	Rut           string `json:"rut" validate:"required"`
	Usuario       string `json:"usuario" validate:"required"`
	Password      string `json:"password" validate:"required"`
	Activo        bool   `json:"activo"`
	FechaCreacion string `json:"fechaCreacion,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tipo_contrato", func(fl validator.FieldLevel) bool {
		switch entity.TipoContrato(fl.Field().String()) {
		case entity.ContratoPlanta, entity.ContratoPlazoFijo:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("rut_normalizable", func(fl validator.FieldLevel) bool {
		return rut.Normalize(fl.Field().String()) != ""
	})
	return v
}

// normalizeTipoContrato acepta variantes de escritura ("PlazoFijo", "plazo fijo").
func normalizeTipoContrato(s string) string {
	compact := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch compact {
	case "planta":
		return string(entity.ContratoPlanta)
	case "plazofijo":
		return string(entity.ContratoPlazoFijo)
	}
	return s
}

func toRecordDoc(r entity.BenefitRecord) recordDoc {
	return recordDoc{
		ID:           r.ID,
		Nombre:       r.Nombre,
		Rut:          r.Rut,
		Correo:       r.Correo,
		TipoContrato: string(r.TipoContrato),
		Rol:          r.Rol,
		Localidad:    r.Localidad,
		Beneficio:    r.Beneficio,
		Estado:       string(r.Estado),
		FechaRetiro:  r.FechaRetiro,
	}
}

func (d recordDoc) entity() entity.BenefitRecord {
	return entity.BenefitRecord{
		ID:           d.ID,
		Nombre:       d.Nombre,
		Rut:          d.Rut,
		Correo:       d.Correo,
		TipoContrato: entity.TipoContrato(d.TipoContrato),
		Rol:          d.Rol,
		Localidad:    d.Localidad,
		Beneficio:    d.Beneficio,
		Estado:       entity.EstadoBeneficio(d.Estado),
		FechaRetiro:  d.FechaRetiro,
	}
}

func toGuardDoc(g entity.GuardAccount) guardDoc {
	return guardDoc{
		ID:            g.ID,
		Nombre:        g.Nombre,
		Rut:           g.Rut,
		Usuario:       g.Usuario,
		Password:      g.Password,
		Activo:        g.Activo,
		FechaCreacion: g.FechaCreacion,
	}
}

func (d guardDoc) entity() entity.GuardAccount {
	return entity.GuardAccount{
		ID:            d.ID,
		Nombre:        d.Nombre,
		Rut:           d.Rut,
		Usuario:       d.Usuario,
		Password:      d.Password,
		Activo:        d.Activo,
		FechaCreacion: d.FechaCreacion,
	}
}

// validateAll valida cada documento y devuelve el primer error con su posición.
func validateAll[T any](v *validator.Validate, docs []T) error {
	for i := range docs {
		if err := v.Struct(docs[i]); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return fmt.Errorf("elemento %d: campo %s no cumple %q", i, verrs[0].Field(), verrs[0].Tag())
			}
			return fmt.Errorf("elemento %d: %w", i, err)
		}
	}
	return nil
}

func decodeArray[T any](blob []byte) ([]T, error) {
	var docs []T
	if len(strings.TrimSpace(string(blob))) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(blob, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
