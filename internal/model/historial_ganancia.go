package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EntradaVentaNormal   = "venta_normal"
	EntradaVentaEspecial = "venta_especial"
	EntradaAjuste        = "ajuste"
	EntradaBonus         = "bonus"
)

// HistorialGanancia is one append-only ledger entry for one account.
// SaldoDespues of entry n equals SaldoDespues of entry n-1 plus Monto
// (entry 1's predecessor balance is zero). Secuencia is the per-user
// logical write order — history is always read in Secuencia order, never
// re-sorted by Fecha, so the chain stays verifiable.
//
// Entries are never updated or deleted; reversals are compensating
// "ajuste" entries with the opposite sign.
type HistorialGanancia struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_usuario_secuencia,priority:1"`
	Tipo         string          `gorm:"not null;index"` // venta_normal | venta_especial | ajuste | bonus
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"` // signed
	SaldoDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Secuencia    int64           `gorm:"not null;uniqueIndex:idx_usuario_secuencia,priority:2"`
	Fecha        time.Time       `gorm:"not null;index"`
	Descripcion  string          `gorm:"not null"`
	CreatedAt    time.Time
}

// TableName overrides GORM's default pluralization.
func (HistorialGanancia) TableName() string { return "historial_ganancias" }

// SaldoUsuario is the per-user last-balance pointer. The posting
// transaction locks this row FOR UPDATE, which serializes concurrent
// appends for the same account and keeps the SaldoDespues chain intact.
type SaldoUsuario struct {
	UsuarioID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Saldo     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Secuencia int64           `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization.
func (SaldoUsuario) TableName() string { return "saldos_usuario" }
