package model

import (
	"time"

	"github.com/google/uuid"
)

// StockDistribuidor is the per-(producto, distribuidor) stock pool. The row
// is created lazily on the first assignment and never deleted; Cantidad
// never goes below zero (guarded UPDATEs, not clamping).
type StockDistribuidor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_distribuidor,priority:1"`
	DistribuidorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_distribuidor,priority:2"`
	Cantidad        int       `gorm:"not null;default:0;check:cantidad >= 0"`
	AlertaStockBajo int       `gorm:"not null;default:5"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Producto     *Producto `gorm:"foreignKey:ProductoID"`
	Distribuidor *Usuario  `gorm:"foreignKey:DistribuidorID"`
}

// TableName overrides GORM's default pluralization.
func (StockDistribuidor) TableName() string { return "stock_distribuidores" }
