package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Las consultas devuelven (nil, nil) cuando no hay fila.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
