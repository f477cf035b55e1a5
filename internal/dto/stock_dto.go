package dto

// AsignarStockRequest moves units warehouse → distributor.
type AsignarStockRequest struct {
	ProductoID     string `json:"producto_id" validate:"required,uuid"`
	DistribuidorID string `json:"distribuidor_id" validate:"required,uuid"`
	Cantidad       int    `json:"cantidad" validate:"required,gt=0"`
}

// RetirarStockRequest moves units distributor → warehouse.
type RetirarStockRequest struct {
	ProductoID     string `json:"producto_id" validate:"required,uuid"`
	DistribuidorID string `json:"distribuidor_id" validate:"required,uuid"`
	Cantidad       int    `json:"cantidad" validate:"required,gt=0"`
}

// TransferirStockRequest moves units between two distributors.
type TransferirStockRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	OrigenID   string `json:"origen_id" validate:"required,uuid"`
	DestinoID  string `json:"destino_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad" validate:"required,gt=0"`
}

type StockDistribuidorResponse struct {
	ProductoID     string `json:"producto_id"`
	Producto       string `json:"producto,omitempty"`
	DistribuidorID string `json:"distribuidor_id"`
	Cantidad       int    `json:"cantidad"`
	AlertaStockBajo int   `json:"alerta_stock_bajo"`
	StockBajo      bool   `json:"stock_bajo"`
}

type TransferenciaResponse struct {
	ID                  string `json:"id"`
	ProductoID          string `json:"producto_id"`
	OrigenID            string `json:"origen_id"`
	DestinoID           string `json:"destino_id"`
	Cantidad            int    `json:"cantidad"`
	StockOrigenAntes    int    `json:"stock_origen_antes"`
	StockOrigenDespues  int    `json:"stock_origen_despues"`
	StockDestinoAntes   int    `json:"stock_destino_antes"`
	StockDestinoDespues int    `json:"stock_destino_despues"`
	Estado              string `json:"estado"`
	CreatedAt           string `json:"created_at"`
}
