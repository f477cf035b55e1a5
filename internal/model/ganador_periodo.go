package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GanadorPeriodo is the immutable record of one closed evaluation window.
// The unique index on (fecha_inicio, fecha_fin) is the DB-level backstop
// against evaluating the same window twice.
type GanadorPeriodo struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TipoPeriodo    string    `gorm:"not null"`
	FechaInicio    time.Time `gorm:"not null;uniqueIndex:idx_ventana_periodo,priority:1"`
	FechaFin       time.Time `gorm:"not null;uniqueIndex:idx_ventana_periodo,priority:2"`
	GanadorID      uuid.UUID `gorm:"type:uuid;not null;index"`
	GanadorNombre  string    `gorm:"not null"`
	GanadorEmail   string    `gorm:"not null"`
	CantidadVentas int       `gorm:"not null"`
	IngresoTotal   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MontoBonus     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BonusPagado    bool            `gorm:"not null;default:false"`
	Notas          *string
	CreatedAt      time.Time
}

// TableName overrides GORM's default pluralization.
func (GanadorPeriodo) TableName() string { return "ganadores_periodo" }
