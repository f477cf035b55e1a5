package repository

import (
	"context"
	"time"

	"essence/backend/internal/apierror"
	"essence/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository owns the per-(producto, distribuidor) pools and the
// transfer audit records.
type StockRepository interface {
	Find(ctx context.Context, productoID, distribuidorID uuid.UUID) (*model.StockDistribuidor, error)
	ListByDistribuidor(ctx context.Context, distribuidorID uuid.UUID) ([]model.StockDistribuidor, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.StockDistribuidor, error)

	// FindForUpdateTx row-locks one pool inside the caller's transaction;
	// used by Transferir to take race-free before/after snapshots.
	FindForUpdateTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID) (*model.StockDistribuidor, error)
	// IncrementarTx upserts the pool row and adds cantidad.
	IncrementarTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error
	// CrearSiFaltaTx inserts the pool row with zero units when it does not
	// exist yet. An existing row is left untouched and, unlike the upsert,
	// not locked — safe to call before ordered lock acquisition.
	CrearSiFaltaTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID) error
	// DescontarTx removes cantidad; fails with
	// ErrStockDistribuidorInsuficiente when the pool cannot cover it.
	DescontarTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error

	CreateTransferenciaTx(tx *gorm.DB, t *model.TransferenciaStock) error
	ListTransferencias(ctx context.Context, distribuidorID *uuid.UUID, limit int) ([]model.TransferenciaStock, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Find(ctx context.Context, productoID, distribuidorID uuid.UUID) (*model.StockDistribuidor, error) {
	var s model.StockDistribuidor
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND distribuidor_id = ?", productoID, distribuidorID).
		First(&s).Error
	return &s, err
}

func (r *stockRepo) ListByDistribuidor(ctx context.Context, distribuidorID uuid.UUID) ([]model.StockDistribuidor, error) {
	var stocks []model.StockDistribuidor
	err := r.db.WithContext(ctx).Preload("Producto").
		Where("distribuidor_id = ?", distribuidorID).Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.StockDistribuidor, error) {
	var stocks []model.StockDistribuidor
	err := r.db.WithContext(ctx).Preload("Distribuidor").
		Where("producto_id = ?", productoID).Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) FindForUpdateTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID) (*model.StockDistribuidor, error) {
	var s model.StockDistribuidor
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("producto_id = ? AND distribuidor_id = ?", productoID, distribuidorID).
		First(&s).Error
	return &s, err
}

func (r *stockRepo) IncrementarTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "producto_id"}, {Name: "distribuidor_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cantidad":   gorm.Expr("stock_distribuidores.cantidad + ?", cantidad),
			"updated_at": time.Now(),
		}),
	}).Create(&model.StockDistribuidor{
		ProductoID:     productoID,
		DistribuidorID: distribuidorID,
		Cantidad:       cantidad,
	}).Error
}

func (r *stockRepo) CrearSiFaltaTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "producto_id"}, {Name: "distribuidor_id"}},
		DoNothing: true,
	}).Create(&model.StockDistribuidor{
		ProductoID:     productoID,
		DistribuidorID: distribuidorID,
	}).Error
}

func (r *stockRepo) DescontarTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error {
	res := tx.Model(&model.StockDistribuidor{}).
		Where("producto_id = ? AND distribuidor_id = ? AND cantidad >= ?", productoID, distribuidorID, cantidad).
		Update("cantidad", gorm.Expr("cantidad - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrStockDistribuidorInsuficiente
	}
	return nil
}

func (r *stockRepo) CreateTransferenciaTx(tx *gorm.DB, t *model.TransferenciaStock) error {
	return tx.Create(t).Error
}

func (r *stockRepo) ListTransferencias(ctx context.Context, distribuidorID *uuid.UUID, limit int) ([]model.TransferenciaStock, error) {
	var transferencias []model.TransferenciaStock
	q := r.db.WithContext(ctx).Preload("Producto").Order("created_at DESC")
	if distribuidorID != nil {
		q = q.Where("origen_id = ? OR destino_id = ?", *distribuidorID, *distribuidorID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&transferencias).Error
	return transferencias, err
}

func (r *stockRepo) DB() *gorm.DB { return r.db }
