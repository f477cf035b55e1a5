package repository

import (
	"context"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
//
// The *Tx methods run inside a caller-owned transaction. Guarded mutations
// are single conditional UPDATEs — the check and the write hit the same
// persisted row atomically, so a stale pre-flight read can never produce a
// lost update or a negative pool.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// DescontarDepositoTx removes cantidad from the warehouse pool; fails
	// with ErrStockDepositoInsuficiente when the pool cannot cover it.
	DescontarDepositoTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	// IncrementarDepositoTx returns cantidad to the warehouse pool.
	IncrementarDepositoTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	// ReponerTx provisions new units: deposito and total grow together.
	ReponerTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	// SumarVendidasTx moves units in/out of the sold counter (negative
	// delta on sale deletion).
	SumarVendidasTx(tx *gorm.DB, id uuid.UUID, delta int) error
	// SumarDefectuosasTx grows the confirmed-defective counter.
	SumarDefectuosasTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	// DescontarDepositoADefectuosoTx moves cantidad warehouse → defective
	// in one guarded statement (warehouse-origin defect confirmation).
	DescontarDepositoADefectuosoTx(tx *gorm.DB, id uuid.UUID, cantidad int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) DescontarDepositoTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock_deposito >= ?", id, cantidad).
		Update("stock_deposito", gorm.Expr("stock_deposito - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrStockDepositoInsuficiente
	}
	return nil
}

func (r *productoRepo) IncrementarDepositoTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock_deposito", gorm.Expr("stock_deposito + ?", cantidad)).Error
}

func (r *productoRepo) ReponerTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_deposito": gorm.Expr("stock_deposito + ?", cantidad),
			"stock_total":    gorm.Expr("stock_total + ?", cantidad),
		}).Error
}

func (r *productoRepo) SumarVendidasTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("unidades_vendidas", gorm.Expr("unidades_vendidas + ?", delta)).Error
}

func (r *productoRepo) SumarDefectuosasTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("unidades_defectuosas", gorm.Expr("unidades_defectuosas + ?", cantidad)).Error
}

func (r *productoRepo) DescontarDepositoADefectuosoTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock_deposito >= ?", id, cantidad).
		Updates(map[string]interface{}{
			"stock_deposito":       gorm.Expr("stock_deposito - ?", cantidad),
			"unidades_defectuosas": gorm.Expr("unidades_defectuosas + ?", cantidad),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrStockDepositoInsuficiente
	}
	return nil
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
