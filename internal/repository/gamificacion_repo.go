package repository

import (
	"context"
	"errors"

	"essence/backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GamificacionRepository manages the admin-mutable singleton config.
type GamificacionRepository interface {
	// Get returns the singleton, creating it with defaults on first read.
	Get(ctx context.Context) (*model.ConfigGamificacion, error)
	Update(ctx context.Context, cfg *model.ConfigGamificacion) error
}

type gamificacionRepo struct{ db *gorm.DB }

func NewGamificacionRepository(db *gorm.DB) GamificacionRepository {
	return &gamificacionRepo{db: db}
}

func (r *gamificacionRepo) Get(ctx context.Context) (*model.ConfigGamificacion, error) {
	var cfg model.ConfigGamificacion
	err := r.db.WithContext(ctx).First(&cfg, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = model.ConfigGamificacion{
			ID:                1,
			PeriodoEvaluacion: model.PeriodoSemanal,
			DiasPersonalizado: 7,
			ComisionBase:      decimal.NewFromInt(20),
			ComisionTop1:      decimal.NewFromInt(5),
			ComisionTop2:      decimal.NewFromInt(3),
			ComisionTop3:      decimal.NewFromInt(2),
			PuntosPorVenta:    decimal.NewFromInt(10),
			PuntosPorPeso:     decimal.NewFromFloat(0.001),
		}
		if err := r.db.WithContext(ctx).Create(&cfg).Error; err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &cfg, err
}

func (r *gamificacionRepo) Update(ctx context.Context, cfg *model.ConfigGamificacion) error {
	cfg.ID = 1
	return r.db.WithContext(ctx).Save(cfg).Error
}
