package entity

import "github.com/jhoicas/stock-tracker/internal/domain"

// ChangeType tipo de cambio de stock (enum cerrado).
type ChangeType uint8

const (
	ChangeAdd ChangeType = iota + 1
	ChangeRemove
)

// ParseChangeType convierte "add"/"remove" en ChangeType. La comparación es exacta:
// mayúsculas o espacios son ErrInvalidAction.
func ParseChangeType(s string) (ChangeType, error) {
	switch s {
	case "add":
		return ChangeAdd, nil
	case "remove":
		return ChangeRemove, nil
	default:
		return 0, domain.ErrInvalidAction
	}
}

// String devuelve el valor persistido en stock_history.change_type.
func (c ChangeType) String() string {
	switch c {
	case ChangeAdd:
		return "add"
	case ChangeRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// PastTense forma usada en los mensajes al usuario ("added", "removed").
func (c ChangeType) PastTense() string {
	switch c {
	case ChangeAdd:
		return "added"
	case ChangeRemove:
		return "removed"
	default:
		return "changed"
	}
}

// Valid indica si c es uno de los valores definidos.
func (c ChangeType) Valid() bool {
	return c == ChangeAdd || c == ChangeRemove
}
