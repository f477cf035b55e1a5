package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto holds the warehouse pool and the running conservation counters.
//
// Invariante global por producto (verificable en cualquier punto quiescente):
//
//	stock_deposito + Σ stock_distribuidores.cantidad
//	  + unidades_vendidas + unidades_defectuosas = stock_total
//
// Every mutation goes through the stock ledger so that units leaving one
// pool always land in another pool or in one of the two counters.
type Producto struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre             string    `gorm:"index;not null"`
	Descripcion        *string
	PrecioCompra       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioDistribuidor decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioCliente      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// StockTotal counts units ever provisioned; it only grows.
	StockTotal    int `gorm:"not null;default:0"`
	StockDeposito int `gorm:"not null;default:0;check:stock_deposito >= 0"`
	// UnidadesVendidas / UnidadesDefectuosas are the "left the system" side
	// of the conservation equation.
	UnidadesVendidas    int `gorm:"not null;default:0"`
	UnidadesDefectuosas int `gorm:"not null;default:0"`
	AlertaStockBajo     int `gorm:"not null;default:5"`
	Activo              bool `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
