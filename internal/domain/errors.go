package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidCredentials = errors.New("usuario o contraseña inválidos")
	ErrItemNotFound       = errors.New("ítem no encontrado")
	ErrInvalidAction      = errors.New("acción inválida")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrActorRequired      = errors.New("se requiere un usuario autenticado")
	ErrStorage            = errors.New("error de almacenamiento")
)

// StorageError envuelve cualquier falla de persistencia o conectividad.
// errors.Is(err, ErrStorage) es verdadero y Unwrap expone la causa del driver.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError construye el error; si err ya es StorageError lo devuelve tal cual.
func NewStorageError(op string, err error) error {
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage.Error(), e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is hace que errors.Is(err, ErrStorage) funcione sin comparar la causa.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// IsBusinessError indica si err es un error de validación o regla de negocio
// (se muestra al usuario tal cual, sin log de error).
func IsBusinessError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrActorRequired):
		return true
	}
	return false
}
