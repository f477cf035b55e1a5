package model

import (
	"time"

	"github.com/google/uuid"
)

// NivelComision is the rank-derived commission tier written by a period
// evaluation and read by the commission resolver. The whole table is
// replaced on every evaluation, so the presence of a row means the tier is
// the active one; sales already recorded keep their frozen percentage
// regardless of what happens here.
type NivelComision struct {
	DistribuidorID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Posicion       int       `gorm:"not null"`
	PeriodoInicio  time.Time `gorm:"not null"`
	PeriodoFin     time.Time `gorm:"not null"`
	VigenteDesde   time.Time `gorm:"not null"`
}

// TableName overrides GORM's default pluralization.
func (NivelComision) TableName() string { return "niveles_comision" }
