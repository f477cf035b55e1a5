package worker

// scheduler.go
// Background goroutine that ticks on an interval, detects the most
// recently closed evaluation window per the gamification config, and
// enqueues an evaluation job if that window has no winner yet.
// Duplicate enqueues are harmless: EvaluarPeriodo re-checks the winner
// record and takes a Redis lock before writing anything.

import (
	"context"
	"errors"
	"time"

	"essence/backend/internal/repository"
	"essence/backend/internal/service"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SchedulerConfig holds all dependencies for the evaluation scheduler.
type SchedulerConfig struct {
	GamificacionRepo repository.GamificacionRepository
	RankingRepo      repository.RankingRepository
	Dispatcher       *Dispatcher
	Interval         time.Duration
}

// StartScheduler launches the periodic window check. It respects the
// context for graceful shutdown.
func StartScheduler(ctx context.Context, cfg SchedulerConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("scheduler: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("scheduler: shutting down")
				return
			case <-ticker.C:
				checkClosedWindow(ctx, cfg)
			}
		}
	}()
}

func checkClosedWindow(ctx context.Context, cfg SchedulerConfig) {
	gamCfg, err := cfg.GamificacionRepo.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: failed to load gamification config")
		return
	}

	// The window containing "just before now's window opened" is the most
	// recently closed one.
	inicioActual, _ := service.VentanaPeriodo(gamCfg, time.Now())
	desde, hasta := service.VentanaPeriodo(gamCfg, inicioActual.Add(-time.Second))
	if !hasta.After(desde) {
		return
	}

	_, err = cfg.RankingRepo.FindGanadorPorVentana(ctx, desde, hasta)
	if err == nil {
		return // already evaluated
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Msg("scheduler: failed to query winner record")
		return
	}

	payload := EvaluacionJobPayload{
		FechaInicio: desde.Format(time.RFC3339),
		FechaFin:    hasta.Format(time.RFC3339),
	}
	if err := cfg.Dispatcher.EnqueueEvaluacion(ctx, payload); err != nil {
		log.Error().Err(err).Msg("scheduler: failed to enqueue evaluation job")
		return
	}
	log.Info().
		Time("desde", desde).
		Time("hasta", hasta).
		Str("periodo", gamCfg.PeriodoEvaluacion).
		Msg("scheduler: enqueued evaluation for closed window")
}
