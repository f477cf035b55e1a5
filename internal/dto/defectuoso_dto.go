package dto

// ReportarDefectuosoRequest creates a defect claim. DistribuidorID absent
// means warehouse-origin (auto-confirmed).
type ReportarDefectuosoRequest struct {
	ProductoID     string  `json:"producto_id" validate:"required,uuid"`
	DistribuidorID *string `json:"distribuidor_id" validate:"omitempty,uuid"`
	Cantidad       int     `json:"cantidad" validate:"required,gt=0"`
	Motivo         string  `json:"motivo" validate:"required"`
}

// ResolverDefectuosoRequest confirms or rejects a pending report.
type ResolverDefectuosoRequest struct {
	Notas *string `json:"notas"`
}

type ReporteDefectuosoResponse struct {
	ID             string  `json:"id"`
	ProductoID     string  `json:"producto_id"`
	Producto       string  `json:"producto,omitempty"`
	DistribuidorID *string `json:"distribuidor_id,omitempty"`
	Cantidad       int     `json:"cantidad"`
	Motivo         string  `json:"motivo"`
	Estado         string  `json:"estado"`
	FechaReporte   string  `json:"fecha_reporte"`
	ConfirmadoAt   *string `json:"confirmado_at,omitempty"`
	NotasAdmin     *string `json:"notas_admin,omitempty"`
}

type DefectuosoFilter struct {
	Estado string `form:"estado"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
