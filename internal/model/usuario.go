package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolAdministrador = "administrador"
	RolGerente       = "gerente"
	RolCoordinador   = "coordinador"
	RolCajero        = "cajero"
)

func RolValido(rol string) bool {
	switch rol {
	case RolAdministrador, RolGerente, RolCoordinador, RolCajero:
		return true
	}
	return false
}

// Usuario stores staff accounts with role-based access.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
