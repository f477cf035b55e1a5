package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefectoPendiente  = "pendiente"
	DefectoConfirmado = "confirmado"
	DefectoRechazado  = "rechazado"
)

// ReporteDefectuoso es el reclamo de que una cantidad de stock no es
// vendible. Las unidades solo salen del sistema cuando el reporte pasa a
// "confirmado"; "confirmado" y "rechazado" son estados terminales.
//
// DistribuidorID == nil marks a warehouse-origin report, which is
// auto-confirmed at creation time.
type ReporteDefectuoso struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	DistribuidorID *uuid.UUID `gorm:"type:uuid;index"`
	Cantidad       int        `gorm:"not null"`
	Motivo         string     `gorm:"not null"`
	Estado         string     `gorm:"not null;default:'pendiente';index"` // pendiente | confirmado | rechazado
	FechaReporte   time.Time  `gorm:"not null"`
	ConfirmadoAt   *time.Time
	NotasAdmin     *string
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (ReporteDefectuoso) TableName() string { return "reportes_defectuosos" }
