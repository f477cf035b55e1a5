package service

import (
	"context"
	"errors"
	"time"

	"essence/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	comisionCachePrefix = "comision:"
	comisionCacheTTL    = 5 * time.Minute
)

// ComisionService resolves the commission percentage in effect for a
// distributor at a point in time. The result is frozen into the Venta row
// by the sale processor, so later re-rankings never rewrite past splits.
type ComisionService interface {
	// PorcentajePara returns the base rate unless the distributor holds a
	// top-3 tier from the most recent evaluation whose vigencia covers
	// `en`; then base + the configured adder for that position.
	PorcentajePara(ctx context.Context, distribuidorID uuid.UUID, en time.Time) (decimal.Decimal, error)
	// InvalidarCache drops cached rates after a re-ranking.
	InvalidarCache(ctx context.Context, distribuidorIDs []uuid.UUID)
}

type comisionService struct {
	gamificacionRepo repository.GamificacionRepository
	rankingRepo      repository.RankingRepository
	rdb              *redis.Client
}

// NewComisionService builds the resolver; rdb may be nil (no caching).
func NewComisionService(gamificacionRepo repository.GamificacionRepository, rankingRepo repository.RankingRepository, rdb *redis.Client) ComisionService {
	return &comisionService{gamificacionRepo: gamificacionRepo, rankingRepo: rankingRepo, rdb: rdb}
}

func (s *comisionService) PorcentajePara(ctx context.Context, distribuidorID uuid.UUID, en time.Time) (decimal.Decimal, error) {
	// The cache only answers "current" resolutions; backdated lookups go
	// straight to the tier store so VigenteDesde is honored.
	esActual := time.Since(en).Abs() < time.Minute
	if s.rdb != nil && esActual {
		if cached, err := s.rdb.Get(ctx, comisionCachePrefix+distribuidorID.String()).Result(); err == nil {
			if pct, perr := decimal.NewFromString(cached); perr == nil {
				return pct, nil
			}
		}
	}

	cfg, err := s.gamificacionRepo.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	pct := cfg.ComisionBase
	nivel, err := s.rankingRepo.FindNivel(ctx, distribuidorID)
	switch {
	case err == nil && !en.Before(nivel.VigenteDesde):
		pct = cfg.ComisionPorPosicion(nivel.Posicion)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return decimal.Zero, err
	}

	if s.rdb != nil && esActual {
		if err := s.rdb.Set(ctx, comisionCachePrefix+distribuidorID.String(), pct.String(), comisionCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("comision: no se pudo cachear el porcentaje")
		}
	}
	return pct, nil
}

func (s *comisionService) InvalidarCache(ctx context.Context, distribuidorIDs []uuid.UUID) {
	if s.rdb == nil || len(distribuidorIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(distribuidorIDs))
	for _, id := range distribuidorIDs {
		keys = append(keys, comisionCachePrefix+id.String())
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("comision: no se pudo invalidar el cache")
	}
}
