package repository

import (
	"context"
	"time"

	"essence/backend/internal/dto"
	"essence/backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AgregadoVentas is one distributor's totals over an evaluation window,
// computed straight from the raw ventas rows (never from a cached
// snapshot).
type AgregadoVentas struct {
	DistribuidorID uuid.UUID
	CantidadVentas int
	TotalUnidades  int
	IngresoTotal   decimal.Decimal
	GananciaTotal  decimal.Decimal
	PrimeraVenta   time.Time
}

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// ConfirmarPagoTx flips pendiente → confirmado; returns the number of
	// rows touched so the service can tell "already confirmed" from
	// "missing".
	ConfirmarPagoTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// AgregadosPorDistribuidor groups sales with fecha_venta in
	// [desde, hasta) by distributor. Admin-direct sales are excluded.
	AgregadosPorDistribuidor(ctx context.Context, desde, hasta time.Time) ([]AgregadoVentas, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Producto").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.DistribuidorID != "" {
		q = q.Where("distribuidor_id = ?", filter.DistribuidorID)
	}
	if filter.EstadoPago != "" {
		q = q.Where("estado_pago = ?", filter.EstadoPago)
	}
	if filter.Desde != nil {
		q = q.Where("fecha_venta >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("fecha_venta < ?", *filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Producto").Order("fecha_venta DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) ConfirmarPagoTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado_pago = ?", id, model.PagoPendiente).
		Update("estado_pago", model.PagoConfirmado)
	return res.RowsAffected, res.Error
}

func (r *ventaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Venta{}, "id = ?", id).Error
}

func (r *ventaRepo) AgregadosPorDistribuidor(ctx context.Context, desde, hasta time.Time) ([]AgregadoVentas, error) {
	var agregados []AgregadoVentas
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select(`distribuidor_id,
			COUNT(*) AS cantidad_ventas,
			SUM(cantidad) AS total_unidades,
			SUM(precio_venta * cantidad) AS ingreso_total,
			SUM(ganancia_distribuidor) AS ganancia_total,
			MIN(fecha_venta) AS primera_venta`).
		Where("distribuidor_id IS NOT NULL AND fecha_venta >= ? AND fecha_venta < ?", desde, hasta).
		Group("distribuidor_id").
		Scan(&agregados).Error
	return agregados, err
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
