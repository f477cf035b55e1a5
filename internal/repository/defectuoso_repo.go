package repository

import (
	"context"
	"time"

	"essence/backend/internal/dto"
	"essence/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefectuosoRepository interface {
	CreateTx(tx *gorm.DB, rep *model.ReporteDefectuoso) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReporteDefectuoso, error)
	// TransicionarTx moves pendiente → estado in one guarded UPDATE;
	// returns rows affected (0 means the report already left pendiente).
	TransicionarTx(tx *gorm.DB, id uuid.UUID, estado string, notas *string, confirmadoAt *time.Time) (int64, error)
	List(ctx context.Context, filter dto.DefectuosoFilter) ([]model.ReporteDefectuoso, int64, error)
	DB() *gorm.DB
}

type defectuosoRepo struct{ db *gorm.DB }

func NewDefectuosoRepository(db *gorm.DB) DefectuosoRepository { return &defectuosoRepo{db: db} }

func (r *defectuosoRepo) CreateTx(tx *gorm.DB, rep *model.ReporteDefectuoso) error {
	return tx.Create(rep).Error
}

func (r *defectuosoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReporteDefectuoso, error) {
	var rep model.ReporteDefectuoso
	err := r.db.WithContext(ctx).Preload("Producto").First(&rep, "id = ?", id).Error
	return &rep, err
}

func (r *defectuosoRepo) TransicionarTx(tx *gorm.DB, id uuid.UUID, estado string, notas *string, confirmadoAt *time.Time) (int64, error) {
	updates := map[string]interface{}{"estado": estado}
	if notas != nil {
		updates["notas_admin"] = *notas
	}
	if confirmadoAt != nil {
		updates["confirmado_at"] = *confirmadoAt
	}
	res := tx.Model(&model.ReporteDefectuoso{}).
		Where("id = ? AND estado = ?", id, model.DefectoPendiente).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *defectuosoRepo) List(ctx context.Context, filter dto.DefectuosoFilter) ([]model.ReporteDefectuoso, int64, error) {
	var reportes []model.ReporteDefectuoso
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ReporteDefectuoso{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Producto").Order("fecha_reporte DESC").
		Limit(filter.Limit).Offset(offset).Find(&reportes).Error
	return reportes, total, err
}

func (r *defectuosoRepo) DB() *gorm.DB { return r.db }
