package repository

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// UserRepository puerto de solo lectura sobre el almacén de credenciales.
// FindByUsername devuelve (nil, nil) si el usuario no existe.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
