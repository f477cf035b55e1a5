package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistrarAjusteRequest posts a manual signed adjustment to one account.
type RegistrarAjusteRequest struct {
	UsuarioID   string          `json:"usuario_id" validate:"required,uuid"`
	Monto       decimal.Decimal `json:"monto" validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required"`
}

type EntradaGananciaResponse struct {
	ID           string          `json:"id"`
	Tipo         string          `json:"tipo"`
	Monto        decimal.Decimal `json:"monto"`
	SaldoDespues decimal.Decimal `json:"saldo_despues"`
	Secuencia    int64           `json:"secuencia"`
	Fecha        string          `json:"fecha"`
	Descripcion  string          `json:"descripcion"`
}

// SaldoResponse is the read-only aggregate of one account.
type SaldoResponse struct {
	UsuarioID     string                     `json:"usuario_id"`
	SaldoTotal    decimal.Decimal            `json:"saldo_total"`
	PorTipo       map[string]decimal.Decimal `json:"por_tipo"`
	Transacciones int64                      `json:"transacciones"`
	UltimaFecha   *string                    `json:"ultima_fecha,omitempty"`
}

type HistorialFilter struct {
	Tipo  string     `form:"tipo"`
	Desde *time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta *time.Time `form:"hasta" time_format:"2006-01-02"`
	Page  int        `form:"page"`
	Limit int        `form:"limit"`
}

type HistorialResponse struct {
	Data  []EntradaGananciaResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
