package service

import (
	"time"

	"essence/backend/internal/model"
)

// VentanaPeriodo computes the half-open evaluation window [Inicio, Fin)
// that contains `en`, for the configured period type. Windows are anchored
// to local midnight so that a sale's FechaVenta lands in exactly one
// window.
func VentanaPeriodo(cfg *model.ConfigGamificacion, en time.Time) (inicio, fin time.Time) {
	dia := time.Date(en.Year(), en.Month(), en.Day(), 0, 0, 0, 0, en.Location())

	switch cfg.PeriodoEvaluacion {
	case model.PeriodoDiario:
		return dia, dia.AddDate(0, 0, 1)

	case model.PeriodoSemanal:
		// Weeks start on Monday.
		retroceso := (int(dia.Weekday()) + 6) % 7
		inicio = dia.AddDate(0, 0, -retroceso)
		return inicio, inicio.AddDate(0, 0, 7)

	case model.PeriodoQuincenal:
		// Two windows per month: [1, 16) and [16, 1 of next month).
		if en.Day() < 16 {
			inicio = time.Date(en.Year(), en.Month(), 1, 0, 0, 0, 0, en.Location())
			return inicio, inicio.AddDate(0, 0, 15)
		}
		inicio = time.Date(en.Year(), en.Month(), 16, 0, 0, 0, 0, en.Location())
		return inicio, time.Date(en.Year(), en.Month(), 1, 0, 0, 0, 0, en.Location()).AddDate(0, 1, 0)

	case model.PeriodoMensual:
		inicio = time.Date(en.Year(), en.Month(), 1, 0, 0, 0, 0, en.Location())
		return inicio, inicio.AddDate(0, 1, 0)

	default: // custom: rolling windows of DuracionPeriodo days ending at the next midnight
		dias := cfg.DuracionPeriodo()
		fin = dia.AddDate(0, 0, 1)
		return fin.AddDate(0, 0, -dias), fin
	}
}
