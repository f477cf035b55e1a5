package repository

import (
	"context"
	"time"

	"essence/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RankingRepository persists the outcome of a period evaluation: the
// immutable GanadorPeriodo record and the replaceable commission tiers.
type RankingRepository interface {
	CreateGanadorTx(tx *gorm.DB, g *model.GanadorPeriodo) error
	// FindGanadorPorVentana returns the record for the exact window, or
	// gorm.ErrRecordNotFound when the window was never finalized.
	FindGanadorPorVentana(ctx context.Context, inicio, fin time.Time) (*model.GanadorPeriodo, error)
	ListGanadores(ctx context.Context, limit int) ([]model.GanadorPeriodo, error)
	// VictoriasPorDistribuidor counts past period wins per distributor.
	VictoriasPorDistribuidor(ctx context.Context) (map[uuid.UUID]int, error)

	// ReemplazarNivelesTx wipes the tier table and writes the new top-3:
	// tiers are valid only until the next evaluation.
	ReemplazarNivelesTx(tx *gorm.DB, niveles []model.NivelComision) error
	FindNivel(ctx context.Context, distribuidorID uuid.UUID) (*model.NivelComision, error)
	// ListNiveles returns every active tier row (at most the top-3).
	ListNiveles(ctx context.Context) ([]model.NivelComision, error)

	DB() *gorm.DB
}

type rankingRepo struct{ db *gorm.DB }

func NewRankingRepository(db *gorm.DB) RankingRepository { return &rankingRepo{db: db} }

func (r *rankingRepo) CreateGanadorTx(tx *gorm.DB, g *model.GanadorPeriodo) error {
	return tx.Create(g).Error
}

func (r *rankingRepo) FindGanadorPorVentana(ctx context.Context, inicio, fin time.Time) (*model.GanadorPeriodo, error) {
	var g model.GanadorPeriodo
	err := r.db.WithContext(ctx).
		Where("fecha_inicio = ? AND fecha_fin = ?", inicio, fin).
		First(&g).Error
	return &g, err
}

func (r *rankingRepo) ListGanadores(ctx context.Context, limit int) ([]model.GanadorPeriodo, error) {
	var ganadores []model.GanadorPeriodo
	q := r.db.WithContext(ctx).Order("fecha_fin DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&ganadores).Error
	return ganadores, err
}

func (r *rankingRepo) VictoriasPorDistribuidor(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		GanadorID uuid.UUID
		Victorias int
	}
	err := r.db.WithContext(ctx).Model(&model.GanadorPeriodo{}).
		Select("ganador_id, COUNT(*) AS victorias").
		Group("ganador_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	victorias := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		victorias[row.GanadorID] = row.Victorias
	}
	return victorias, nil
}

func (r *rankingRepo) ReemplazarNivelesTx(tx *gorm.DB, niveles []model.NivelComision) error {
	if err := tx.Where("1 = 1").Delete(&model.NivelComision{}).Error; err != nil {
		return err
	}
	if len(niveles) == 0 {
		return nil
	}
	return tx.Create(&niveles).Error
}

func (r *rankingRepo) FindNivel(ctx context.Context, distribuidorID uuid.UUID) (*model.NivelComision, error) {
	var nivel model.NivelComision
	err := r.db.WithContext(ctx).First(&nivel, "distribuidor_id = ?", distribuidorID).Error
	return &nivel, err
}

func (r *rankingRepo) ListNiveles(ctx context.Context) ([]model.NivelComision, error) {
	var niveles []model.NivelComision
	err := r.db.WithContext(ctx).Find(&niveles).Error
	return niveles, err
}

func (r *rankingRepo) DB() *gorm.DB { return r.db }
