package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransferenciaCompletada = "completada"
	TransferenciaFallida    = "fallida"
	TransferenciaCancelada  = "cancelada"
)

// TransferenciaStock is the audit record of a distributor-to-distributor
// transfer. The before/after snapshots are taken inside the same
// transaction that moves the units, so the record can never disagree with
// the balances. Rejected transfers are not persisted; a row only exists
// for a transfer that actually moved stock.
type TransferenciaStock struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID          uuid.UUID `gorm:"type:uuid;not null;index"`
	OrigenID            uuid.UUID `gorm:"type:uuid;not null;index"`
	DestinoID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Cantidad            int       `gorm:"not null"`
	StockOrigenAntes    int       `gorm:"not null"`
	StockOrigenDespues  int       `gorm:"not null"`
	StockDestinoAntes   int       `gorm:"not null"`
	StockDestinoDespues int       `gorm:"not null"`
	Estado              string    `gorm:"not null;default:'completada'"` // completada | fallida | cancelada
	CreatedAt           time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (TransferenciaStock) TableName() string { return "transferencias_stock" }
