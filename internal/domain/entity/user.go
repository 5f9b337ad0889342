package entity

import "time"

// Roles de los usuarios de la farmacia.
const (
	RoleAdmin        = "admin"
	RolePharmacist   = "pharmacist"
	RoleStoreManager = "store_manager"
)

// User es un miembro del personal de la farmacia.
type User struct {
	ID           string
	Username     string // único
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
