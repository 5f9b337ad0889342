package repository

import "github.com/tu-usuario/farmacia-pos/internal/domain/entity"

// UserRepository puerto de persistencia del personal de la farmacia.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
}
