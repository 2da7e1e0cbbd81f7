package entity

import "github.com/jhoicas/beneficios-api/pkg/rut"

// GuardAccount guardia enrolado por el administrador.
// Password se compara literal (ver GUARD_PASSWORD_MODE para el modo bcrypt opcional).
type GuardAccount struct {
	ID            int
	Nombre        string
	Rut           string
	Usuario       string // por convención el RUT sin puntuación
	Password      string
	Activo        bool
	FechaCreacion string
}

// Matches indica si el identificador ingresado corresponde a este guardia (por usuario o por RUT).
func (g GuardAccount) Matches(usuario string) bool {
	target := rut.NormalizeUser(usuario)
	if target == "" {
		return false
	}
	return rut.NormalizeUser(g.Usuario) == target || rut.NormalizeUser(g.Rut) == target
}

// FindGuard busca un guardia por usuario o RUT normalizado y devuelve su índice (-1 si no existe).
func FindGuard(list []GuardAccount, usuario string) int {
	for i := range list {
		if list[i].Matches(usuario) {
			return i
		}
	}
	return -1
}
