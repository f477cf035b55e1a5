package service_test

import (
	"testing"
	"time"

	"essence/backend/internal/model"
	"essence/backend/internal/service"

	"github.com/stretchr/testify/assert"
)

func fecha(anio int, mes time.Month, dia, hora int) time.Time {
	return time.Date(anio, mes, dia, hora, 0, 0, 0, time.UTC)
}

func TestVentanaDiaria(t *testing.T) {
	cfg := &model.ConfigGamificacion{PeriodoEvaluacion: model.PeriodoDiario}

	inicio, fin := service.VentanaPeriodo(cfg, fecha(2026, 8, 15, 14))
	assert.Equal(t, fecha(2026, 8, 15, 0), inicio)
	assert.Equal(t, fecha(2026, 8, 16, 0), fin)
}

func TestVentanaSemanalAncladaEnLunes(t *testing.T) {
	cfg := &model.ConfigGamificacion{PeriodoEvaluacion: model.PeriodoSemanal}

	// 2026-08-27 es jueves; la semana corre del lunes 24 al lunes 31.
	inicio, fin := service.VentanaPeriodo(cfg, fecha(2026, 8, 27, 10))
	assert.Equal(t, fecha(2026, 8, 24, 0), inicio)
	assert.Equal(t, fecha(2026, 8, 31, 0), fin)

	// El lunes mismo abre su propia semana.
	inicio, fin = service.VentanaPeriodo(cfg, fecha(2026, 8, 24, 0))
	assert.Equal(t, fecha(2026, 8, 24, 0), inicio)
	assert.Equal(t, fecha(2026, 8, 31, 0), fin)

	// El domingo cierra la semana que empezo el lunes anterior.
	inicio, fin = service.VentanaPeriodo(cfg, fecha(2026, 8, 30, 23))
	assert.Equal(t, fecha(2026, 8, 24, 0), inicio)
	assert.Equal(t, fecha(2026, 8, 31, 0), fin)
}

func TestVentanaQuincenal(t *testing.T) {
	cfg := &model.ConfigGamificacion{PeriodoEvaluacion: model.PeriodoQuincenal}

	inicio, fin := service.VentanaPeriodo(cfg, fecha(2026, 8, 10, 12))
	assert.Equal(t, fecha(2026, 8, 1, 0), inicio)
	assert.Equal(t, fecha(2026, 8, 16, 0), fin)

	inicio, fin = service.VentanaPeriodo(cfg, fecha(2026, 8, 16, 0))
	assert.Equal(t, fecha(2026, 8, 16, 0), inicio)
	assert.Equal(t, fecha(2026, 9, 1, 0), fin)

	// Fin de mes: la segunda quincena llega hasta el 1 del mes siguiente.
	inicio, fin = service.VentanaPeriodo(cfg, fecha(2026, 2, 28, 23))
	assert.Equal(t, fecha(2026, 2, 16, 0), inicio)
	assert.Equal(t, fecha(2026, 3, 1, 0), fin)
}

func TestVentanaMensual(t *testing.T) {
	cfg := &model.ConfigGamificacion{PeriodoEvaluacion: model.PeriodoMensual}

	inicio, fin := service.VentanaPeriodo(cfg, fecha(2026, 12, 31, 23))
	assert.Equal(t, fecha(2026, 12, 1, 0), inicio)
	assert.Equal(t, fecha(2027, 1, 1, 0), fin)
}

func TestVentanaPersonalizada(t *testing.T) {
	cfg := &model.ConfigGamificacion{
		PeriodoEvaluacion: model.PeriodoCustom,
		DiasPersonalizado: 10,
	}

	// Ventana rodante de 10 dias que termina en la proxima medianoche.
	inicio, fin := service.VentanaPeriodo(cfg, fecha(2026, 8, 15, 9))
	assert.Equal(t, fecha(2026, 8, 16, 0), fin)
	assert.Equal(t, fecha(2026, 8, 6, 0), inicio)
}

func TestVentanasSemiabiertas(t *testing.T) {
	cfg := &model.ConfigGamificacion{PeriodoEvaluacion: model.PeriodoDiario}

	// El fin de una ventana es exactamente el inicio de la siguiente: un
	// instante cae en una sola ventana.
	_, fin := service.VentanaPeriodo(cfg, fecha(2026, 8, 15, 12))
	inicioSiguiente, _ := service.VentanaPeriodo(cfg, fin)
	assert.Equal(t, fin, inicioSiguiente)
}
