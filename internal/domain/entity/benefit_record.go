package entity

import (
	"strings"

	"github.com/jhoicas/beneficios-api/pkg/rut"
)

// TipoContrato tipo de contrato del trabajador.
type TipoContrato string

const (
	ContratoPlanta    TipoContrato = "Planta"
	ContratoPlazoFijo TipoContrato = "Plazo Fijo"
)

// EstadoBeneficio estado del beneficio. Retirado es terminal.
type EstadoBeneficio string

const (
	EstadoPendiente EstadoBeneficio = "Pendiente"
	EstadoRetirado  EstadoBeneficio = "Retirado"
)

// BenefitRecord registro de la nómina: un trabajador y su beneficio asignado.
// La clave es el RUT normalizado. FechaRetiro existe si y solo si Estado == Retirado.
type BenefitRecord struct {
	ID           int
	Rut          string
	Nombre       string
	Correo       string // opcional
	TipoContrato TipoContrato
	Rol          string // opcional, se muestra como cargo
	Localidad    string // opcional
	Beneficio    string
	Estado       EstadoBeneficio
	FechaRetiro  string // opcional, se fija una sola vez al retirar
}

// Key devuelve el RUT normalizado del registro.
func (r BenefitRecord) Key() string {
	return rut.Normalize(r.Rut)
}

// Retirado indica si el beneficio ya fue entregado.
func (r BenefitRecord) Retirado() bool {
	return r.Estado == EstadoRetirado
}

// BeneficioAsignado beneficio a mostrar; un valor vacío en la nómina se muestra genérico.
func (r BenefitRecord) BeneficioAsignado() string {
	if s := strings.TrimSpace(r.Beneficio); s != "" {
		return s
	}
	return "Beneficio asignado"
}

// TipoCaja caja que corresponde según el contrato.
func (r BenefitRecord) TipoCaja() string {
	if r.TipoContrato == ContratoPlanta {
		return "Caja Grande"
	}
	return "Caja Estándar"
}

// FindByRut busca un registro por RUT normalizado y devuelve su índice (-1 si no existe).
func FindByRut(list []BenefitRecord, rutValue string) int {
	target := rut.Normalize(rutValue)
	if target == "" {
		return -1
	}
	for i := range list {
		if list[i].Key() == target {
			return i
		}
	}
	return -1
}
