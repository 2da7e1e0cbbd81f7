package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los mensajes se muestran tal cual al operador.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("credenciales inválidas")
	ErrCorruptData       = errors.New("datos almacenados con formato inválido")
	ErrNotEnrolled       = errors.New("RUT no encontrado en la nómina")
	ErrAlreadyCollected  = errors.New("beneficio ya retirado")
	ErrWriteConflict     = errors.New("no se pudo actualizar la nómina, intente nuevamente")
	ErrQRNotFound        = errors.New("no se detectó un código QR")
	ErrPayloadParse      = errors.New("contenido del código QR inválido")
	ErrEncode            = errors.New("no se pudo generar el código QR")
	ErrDeviceUnavailable = errors.New("no se pudo acceder a la cámara")
	ErrGuardRejected     = errors.New("guardia no autorizado o inactivo")
	ErrSessionTerminated = errors.New("sesión de guardia terminada")
)

// AlreadyCollectedError informa que el beneficio ya fue retirado y cuándo.
// No es una falla: Confirm es idempotente y no modifica nada en este caso.
type AlreadyCollectedError struct {
	Rut         string
	FechaRetiro string
}

func (e *AlreadyCollectedError) Error() string {
	if e.FechaRetiro == "" {
		return "Este beneficio ya fue retirado"
	}
	return fmt.Sprintf("Este beneficio ya fue retirado el %s", e.FechaRetiro)
}

func (e *AlreadyCollectedError) Unwrap() error { return ErrAlreadyCollected }

// Motivos de rechazo de un guardia.
const (
	ReasonNotEnrolled = "not enrolled"
	ReasonInactive    = "inactive"
)

// RejectedError rechazo de un guardia por el control de sesión. Termina la sesión.
type RejectedError struct {
	Reason string // ReasonNotEnrolled | ReasonInactive
}

func (e *RejectedError) Error() string {
	switch e.Reason {
	case ReasonNotEnrolled:
		return "Guardia no enrolado. Contacte al administrador."
	case ReasonInactive:
		return "Usuario de guardia inactivo. Contacte al administrador."
	default:
		return ErrGuardRejected.Error()
	}
}

func (e *RejectedError) Unwrap() error { return ErrGuardRejected }
