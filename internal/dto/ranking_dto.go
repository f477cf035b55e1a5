package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EvaluarPeriodoRequest closes and evaluates the window [desde, hasta).
type EvaluarPeriodoRequest struct {
	Desde time.Time `json:"desde" validate:"required"`
	Hasta time.Time `json:"hasta" validate:"required"`
	Notas *string   `json:"notas"`
}

// PosicionRanking is one distributor's row in a ranking recomputation.
// Never persisted — always derivable from the raw sales.
type PosicionRanking struct {
	Posicion       int             `json:"posicion"`
	DistribuidorID string          `json:"distribuidor_id"`
	Nombre         string          `json:"nombre"`
	CantidadVentas int             `json:"cantidad_ventas"`
	TotalUnidades  int             `json:"total_unidades"`
	IngresoTotal   decimal.Decimal `json:"ingreso_total"`
	GananciaTotal  decimal.Decimal `json:"ganancia_total"`
	Puntos         decimal.Decimal `json:"puntos"`
	Nivel          string          `json:"nivel,omitempty"`
	PeriodosGanados int            `json:"periodos_ganados"`
}

type RankingResponse struct {
	Desde     string            `json:"desde"`
	Hasta     string            `json:"hasta"`
	Posiciones []PosicionRanking `json:"posiciones"`
}

type GanadorPeriodoResponse struct {
	ID             string          `json:"id"`
	TipoPeriodo    string          `json:"tipo_periodo"`
	FechaInicio    string          `json:"fecha_inicio"`
	FechaFin       string          `json:"fecha_fin"`
	GanadorID      string          `json:"ganador_id"`
	GanadorNombre  string          `json:"ganador_nombre"`
	GanadorEmail   string          `json:"ganador_email"`
	CantidadVentas int             `json:"cantidad_ventas"`
	IngresoTotal   decimal.Decimal `json:"ingreso_total"`
	MontoBonus     decimal.Decimal `json:"monto_bonus"`
	BonusPagado    bool            `json:"bonus_pagado"`
}

// MetaVentaRequest is one sales-target level for the config update.
type MetaVentaRequest struct {
	Nivel       string          `json:"nivel" validate:"required"`
	MontoMinimo decimal.Decimal `json:"monto_minimo" validate:"min=0"`
	Bonus       decimal.Decimal `json:"bonus" validate:"min=0"`
	Insignia    string          `json:"insignia"`
}

// ConfigGamificacionRequest updates the admin-mutable singleton.
type ConfigGamificacionRequest struct {
	PeriodoEvaluacion  string          `json:"periodo_evaluacion" validate:"required,oneof=daily weekly biweekly monthly custom"`
	DiasPersonalizado  int             `json:"dias_personalizado" validate:"min=0"`
	BonusPrimerPuesto  decimal.Decimal `json:"bonus_primer_puesto" validate:"min=0"`
	BonusSegundoPuesto decimal.Decimal `json:"bonus_segundo_puesto" validate:"min=0"`
	BonusTercerPuesto  decimal.Decimal `json:"bonus_tercer_puesto" validate:"min=0"`
	PuntosPorVenta     decimal.Decimal `json:"puntos_por_venta" validate:"min=0"`
	PuntosPorPeso      decimal.Decimal `json:"puntos_por_peso" validate:"min=0"`
	ComisionBase       decimal.Decimal `json:"comision_base" validate:"min=0"`
	ComisionTop1       decimal.Decimal `json:"comision_top1" validate:"min=0"`
	ComisionTop2       decimal.Decimal `json:"comision_top2" validate:"min=0"`
	ComisionTop3       decimal.Decimal `json:"comision_top3" validate:"min=0"`
	MetasVenta         []MetaVentaRequest `json:"metas_venta" validate:"dive"`
}

type ConfigGamificacionResponse struct {
	PeriodoEvaluacion  string             `json:"periodo_evaluacion"`
	DiasPersonalizado  int                `json:"dias_personalizado"`
	BonusPrimerPuesto  decimal.Decimal    `json:"bonus_primer_puesto"`
	BonusSegundoPuesto decimal.Decimal    `json:"bonus_segundo_puesto"`
	BonusTercerPuesto  decimal.Decimal    `json:"bonus_tercer_puesto"`
	PuntosPorVenta     decimal.Decimal    `json:"puntos_por_venta"`
	PuntosPorPeso      decimal.Decimal    `json:"puntos_por_peso"`
	ComisionBase       decimal.Decimal    `json:"comision_base"`
	ComisionTop1       decimal.Decimal    `json:"comision_top1"`
	ComisionTop2       decimal.Decimal    `json:"comision_top2"`
	ComisionTop3       decimal.Decimal    `json:"comision_top3"`
	MetasVenta         []MetaVentaRequest `json:"metas_venta"`
	VentanaActual      *VentanaResponse   `json:"ventana_actual,omitempty"`
}

// VentanaResponse describes the currently-open evaluation window.
type VentanaResponse struct {
	Desde string `json:"desde"`
	Hasta string `json:"hasta"`
	Tipo  string `json:"tipo"`
}
