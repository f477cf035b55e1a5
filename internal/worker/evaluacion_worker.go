package worker

// evaluacion_worker.go
// Processes period-evaluation jobs from QueueEvaluacion: closes the
// window [desde, hasta), persists the winner snapshot and posts the
// bonus ledger entries via RankingService.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"essence/backend/internal/apierror"
	"essence/backend/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxEvaluacionAttempts = 3

// EvaluacionJobPayload is the job envelope sent to QueueEvaluacion.
// Timestamps travel as RFC 3339 so the payload survives Redis round-trips.
type EvaluacionJobPayload struct {
	FechaInicio string  `json:"fecha_inicio"`
	FechaFin    string  `json:"fecha_fin"`
	Notas       *string `json:"notas,omitempty"`
}

// EvaluacionWorker consumes evaluation jobs. Evaluation is conflict-aware:
// an already-evaluated or empty window is a terminal outcome and is simply
// logged; transient failures retry with backoff and then go to the DLQ.
type EvaluacionWorker struct {
	ranking service.RankingService
	rdb     *redis.Client
}

func NewEvaluacionWorker(ranking service.RankingService, rdb *redis.Client) *EvaluacionWorker {
	return &EvaluacionWorker{ranking: ranking, rdb: rdb}
}

// Process handles a single evaluation job.
func (w *EvaluacionWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EvaluacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("evaluacion_worker: invalid payload")
		return
	}

	desde, err := time.Parse(time.RFC3339, payload.FechaInicio)
	if err != nil {
		log.Error().Str("fecha_inicio", payload.FechaInicio).Msg("evaluacion_worker: invalid fecha_inicio")
		return
	}
	hasta, err := time.Parse(time.RFC3339, payload.FechaFin)
	if err != nil {
		log.Error().Str("fecha_fin", payload.FechaFin).Msg("evaluacion_worker: invalid fecha_fin")
		return
	}

	evalErr := withRetry(ctx, maxEvaluacionAttempts, func(attempt int) error {
		ganador, err := w.ranking.EvaluarPeriodo(ctx, desde, hasta, payload.Notas)
		if err != nil {
			// Terminal outcomes: the window is done or has nothing to rank.
			if errors.Is(err, apierror.ErrPeriodoYaEvaluado) || errors.Is(err, apierror.ErrPeriodoSinVentas) {
				log.Info().
					Time("desde", desde).
					Time("hasta", hasta).
					Str("motivo", err.Error()).
					Msg("evaluacion_worker: nothing to evaluate")
				return nil
			}
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Time("desde", desde).
				Time("hasta", hasta).
				Msg("evaluacion_worker: evaluation attempt failed, retrying")
			return err
		}
		log.Info().
			Str("ganador_id", ganador.GanadorID).
			Time("desde", desde).
			Time("hasta", hasta).
			Msg("evaluacion_worker: period evaluated")
		return nil
	})

	if evalErr != nil {
		log.Error().Err(evalErr).
			Time("desde", desde).
			Time("hasta", hasta).
			Msg("evaluacion_worker: evaluation failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueEvaluacion, "evaluacion", raw,
			fmt.Sprintf("max retries (%d) exceeded: %v", maxEvaluacionAttempts, evalErr),
			maxEvaluacionAttempts)
	}
}
