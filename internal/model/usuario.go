package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolAdmin        = "admin"
	RolDistribuidor = "distribuidor"
)

// Usuario is the account an earnings ledger hangs off: the single admin or
// one of N distributors.
type Usuario struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Rol       string    `gorm:"not null;default:'distribuidor'"` // "admin" | "distribuidor"
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
