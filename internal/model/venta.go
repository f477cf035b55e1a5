package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PagoPendiente  = "pendiente"
	PagoConfirmado = "confirmado"
)

// Venta records one sale with its profit split computed once at sale time.
// PorcentajeDistribuidor is the commission rate in effect when the sale was
// registered — later re-rankings never touch it, so GananciaAdmin and
// GananciaDistribuidor stay consistent with the ledger entries they fed.
//
// DistribuidorID == nil means an admin-direct (venta especial) sale: no
// distributor stock is consumed and the full margin goes to the admin.
type Venta struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	DistribuidorID         *uuid.UUID `gorm:"type:uuid;index"`
	Cantidad               int        `gorm:"not null"`
	PrecioVenta            decimal.Decimal `gorm:"type:decimal(12,2);not null"` // unit price
	PorcentajeDistribuidor decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	GananciaAdmin          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GananciaDistribuidor   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EstadoPago             string          `gorm:"not null;default:'pendiente';index"` // pendiente | confirmado
	FechaVenta             time.Time       `gorm:"not null;index"`
	Notas                  *string
	CreatedAt              time.Time

	Producto     *Producto `gorm:"foreignKey:ProductoID"`
	Distribuidor *Usuario  `gorm:"foreignKey:DistribuidorID"`
}
