package dto

import "github.com/shopspring/decimal"

// CrearProductoRequest provisions a product: the initial stock lands in the
// warehouse pool and defines StockTotal.
type CrearProductoRequest struct {
	Nombre             string          `json:"nombre" validate:"required"`
	Descripcion        *string         `json:"descripcion"`
	PrecioCompra       decimal.Decimal `json:"precio_compra" validate:"min=0"`
	PrecioDistribuidor decimal.Decimal `json:"precio_distribuidor" validate:"min=0"`
	PrecioCliente      decimal.Decimal `json:"precio_cliente" validate:"min=0"`
	StockInicial       int             `json:"stock_inicial" validate:"min=0"`
	AlertaStockBajo    int             `json:"alerta_stock_bajo" validate:"min=0"`
}

// ReponerStockRequest adds freshly provisioned units to the warehouse pool
// (grows StockTotal by the same amount — conservation is preserved).
type ReponerStockRequest struct {
	Cantidad int `json:"cantidad" validate:"required,gt=0"`
}

type ProductoResponse struct {
	ID                  string          `json:"id"`
	Nombre              string          `json:"nombre"`
	Descripcion         *string         `json:"descripcion,omitempty"`
	PrecioCompra        decimal.Decimal `json:"precio_compra"`
	PrecioDistribuidor  decimal.Decimal `json:"precio_distribuidor"`
	PrecioCliente       decimal.Decimal `json:"precio_cliente"`
	StockTotal          int             `json:"stock_total"`
	StockDeposito       int             `json:"stock_deposito"`
	UnidadesVendidas    int             `json:"unidades_vendidas"`
	UnidadesDefectuosas int             `json:"unidades_defectuosas"`
	AlertaStockBajo     int             `json:"alerta_stock_bajo"`
	StockBajo           bool            `json:"stock_bajo"`
	Activo              bool            `json:"activo"`
}

type ProductoFilter struct {
	Nombre string `form:"nombre"`
	Activo string `form:"activo"` // "true" (default) | "false" | "all"
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
