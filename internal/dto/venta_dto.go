package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistrarVentaRequest is one sale. DistribuidorID empty / absent means an
// admin-direct (venta especial) sale.
type RegistrarVentaRequest struct {
	ProductoID     string          `json:"producto_id" validate:"required,uuid"`
	DistribuidorID *string         `json:"distribuidor_id" validate:"omitempty,uuid"`
	Cantidad       int             `json:"cantidad" validate:"required,gt=0"`
	PrecioVenta    decimal.Decimal `json:"precio_venta" validate:"min=0"`
	FechaVenta     *time.Time      `json:"fecha_venta"`
	Notas          *string         `json:"notas"`
}

type VentaResponse struct {
	ID                     string          `json:"id"`
	ProductoID             string          `json:"producto_id"`
	Producto               string          `json:"producto,omitempty"`
	DistribuidorID         *string         `json:"distribuidor_id,omitempty"`
	Cantidad               int             `json:"cantidad"`
	PrecioVenta            decimal.Decimal `json:"precio_venta"`
	PorcentajeDistribuidor decimal.Decimal `json:"porcentaje_distribuidor"`
	GananciaAdmin          decimal.Decimal `json:"ganancia_admin"`
	GananciaDistribuidor   decimal.Decimal `json:"ganancia_distribuidor"`
	EstadoPago             string          `json:"estado_pago"`
	FechaVenta             string          `json:"fecha_venta"`
	CreatedAt              string          `json:"created_at"`
}

type VentaFilter struct {
	DistribuidorID string     `form:"distribuidor_id"`
	EstadoPago     string     `form:"estado_pago"`
	Desde          *time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta          *time.Time `form:"hasta" time_format:"2006-01-02"`
	Page           int        `form:"page"`
	Limit          int        `form:"limit"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
