package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"essence/backend/internal/apierror"
	"essence/backend/internal/model"
	"essence/backend/internal/repository"
	"essence/backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rankingFixture struct {
	svc              service.RankingService
	comisiones       service.ComisionService
	ventaRepo        *stubVentaRepo
	rankingRepo      *stubRankingRepo
	gamificacionRepo *stubGamificacionRepo
	usuarioRepo      *stubUsuarioRepo
	gananciaRepo     *stubGananciaRepo
}

func buildRankingSvc() *rankingFixture {
	f := &rankingFixture{
		ventaRepo:        newStubVentaRepo(),
		rankingRepo:      newStubRankingRepo(),
		gamificacionRepo: newStubGamificacionRepo(),
		usuarioRepo:      newStubUsuarioRepo(),
		gananciaRepo:     newStubGananciaRepo(),
	}
	ganancias := service.NewGananciaService(f.gananciaRepo)
	f.comisiones = service.NewComisionService(f.gamificacionRepo, f.rankingRepo, nil)
	f.svc = service.NewRankingService(f.ventaRepo, f.rankingRepo, f.gamificacionRepo, f.usuarioRepo, ganancias, f.comisiones, nil)
	return f
}

// seedVenta writes a distributor sale straight into the sales store; the
// aggregates the ranking reads are derived from these raw rows.
func (f *rankingFixture) seedVenta(t *testing.T, distribuidorID uuid.UUID, cantidad int, precio float64, fecha time.Time) {
	t.Helper()
	venta := &model.Venta{
		ProductoID:           uuid.New(),
		DistribuidorID:       &distribuidorID,
		Cantidad:             cantidad,
		PrecioVenta:          decimal.NewFromFloat(precio),
		GananciaDistribuidor: decimal.NewFromFloat(precio).Mul(decimal.NewFromInt(int64(cantidad))).Mul(decimal.NewFromFloat(0.20)),
		EstadoPago:           model.PagoPendiente,
		FechaVenta:           fecha,
	}
	require.NoError(t, f.ventaRepo.CreateTx(nil, venta))
}

func ventanaSemana() (time.Time, time.Time) {
	desde := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // lunes
	return desde, desde.AddDate(0, 0, 7)
}

func TestEvaluarPeriodo(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()

	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)
	bruno := seedUsuario(f.usuarioRepo, "bruno", model.RolDistribuidor)
	carla := seedUsuario(f.usuarioRepo, "carla", model.RolDistribuidor)

	f.gamificacionRepo.cfg.BonusPrimerPuesto = decimal.NewFromInt(500)
	f.gamificacionRepo.cfg.BonusSegundoPuesto = decimal.NewFromInt(200)
	f.gamificacionRepo.cfg.BonusTercerPuesto = decimal.NewFromInt(100)

	f.seedVenta(t, ana.ID, 2, 300, desde.Add(24*time.Hour))   // ingreso 600
	f.seedVenta(t, ana.ID, 1, 400, desde.Add(48*time.Hour))   // ingreso 1000 total
	f.seedVenta(t, bruno.ID, 3, 100, desde.Add(12*time.Hour)) // ingreso 300
	f.seedVenta(t, carla.ID, 1, 150, desde.Add(72*time.Hour)) // ingreso 150

	resp, err := f.svc.EvaluarPeriodo(context.Background(), desde, hasta, nil)
	require.NoError(t, err)

	assert.Equal(t, ana.ID.String(), resp.GanadorID)
	assert.Equal(t, "ana", resp.GanadorNombre)
	assert.Equal(t, 2, resp.CantidadVentas)
	assert.Equal(t, "1000", resp.IngresoTotal.String())
	assert.Equal(t, "500", resp.MontoBonus.String())
	assert.True(t, resp.BonusPagado)

	// Bonus postings for the podium, in ledger type "bonus".
	for _, c := range []struct {
		id    uuid.UUID
		monto string
	}{{ana.ID, "500"}, {bruno.ID, "200"}, {carla.ID, "100"}} {
		entradas := f.gananciaRepo.entradas[c.id]
		require.Len(t, entradas, 1)
		assert.Equal(t, model.EntradaBonus, entradas[0].Tipo)
		assert.Equal(t, c.monto, entradas[0].Monto.String())
	}

	// The new tiers feed the commission resolver immediately.
	pct, err := f.comisiones.PorcentajePara(context.Background(), ana.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "25", pct.String())
	pct, err = f.comisiones.PorcentajePara(context.Background(), carla.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "22", pct.String())
}

func TestEvaluarPeriodoSoloUnaVez(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()
	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)
	f.seedVenta(t, ana.ID, 1, 100, desde.Add(time.Hour))

	_, err := f.svc.EvaluarPeriodo(context.Background(), desde, hasta, nil)
	require.NoError(t, err)

	_, err = f.svc.EvaluarPeriodo(context.Background(), desde, hasta, nil)
	assert.ErrorIs(t, err, apierror.ErrPeriodoYaEvaluado)

	// Re-running posted no duplicate bonus.
	assert.Len(t, f.rankingRepo.ganadores, 1)
}

func TestEvaluarPeriodoSinVentas(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()

	_, err := f.svc.EvaluarPeriodo(context.Background(), desde, hasta, nil)
	assert.ErrorIs(t, err, apierror.ErrPeriodoSinVentas)
	assert.Empty(t, f.rankingRepo.ganadores)
}

func TestEvaluarPeriodoRangoInvalido(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()

	_, err := f.svc.EvaluarPeriodo(context.Background(), hasta, desde, nil)
	assert.ErrorIs(t, err, apierror.ErrRangoFechasInvalido)
}

func TestEvaluarPeriodoIgnoraVentasEspeciales(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()
	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)
	f.seedVenta(t, ana.ID, 1, 100, desde.Add(time.Hour))

	// An admin-direct sale with a much larger revenue must not rank.
	especial := &model.Venta{
		ProductoID:  uuid.New(),
		Cantidad:    10,
		PrecioVenta: decimal.NewFromInt(9999),
		EstadoPago:  model.PagoPendiente,
		FechaVenta:  desde.Add(time.Hour),
	}
	require.NoError(t, f.ventaRepo.CreateTx(nil, especial))

	resp, err := f.svc.EvaluarPeriodo(context.Background(), desde, hasta, nil)
	require.NoError(t, err)
	assert.Equal(t, ana.ID.String(), resp.GanadorID)
	assert.Equal(t, "100", resp.IngresoTotal.String())
}

func TestRankingDesempatePorGanancia(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()
	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)
	bruno := seedUsuario(f.usuarioRepo, "bruno", model.RolDistribuidor)

	// Same revenue; bruno's entry carries a larger recorded profit.
	f.seedVenta(t, ana.ID, 1, 500, desde.Add(time.Hour))
	venta := &model.Venta{
		ProductoID:           uuid.New(),
		DistribuidorID:       &bruno.ID,
		Cantidad:             1,
		PrecioVenta:          decimal.NewFromInt(500),
		GananciaDistribuidor: decimal.NewFromInt(250),
		EstadoPago:           model.PagoPendiente,
		FechaVenta:           desde.Add(2 * time.Hour),
	}
	require.NoError(t, f.ventaRepo.CreateTx(nil, venta))

	ranking, err := f.svc.ObtenerRanking(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, ranking.Posiciones, 2)
	assert.Equal(t, bruno.ID.String(), ranking.Posiciones[0].DistribuidorID)
	assert.Equal(t, 1, ranking.Posiciones[0].Posicion)
	assert.Equal(t, ana.ID.String(), ranking.Posiciones[1].DistribuidorID)
}

func TestRankingDesempatePorPrimeraVenta(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()
	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)
	bruno := seedUsuario(f.usuarioRepo, "bruno", model.RolDistribuidor)

	// Identical revenue and profit: whoever sold first within the window
	// ranks higher.
	f.seedVenta(t, bruno.ID, 1, 500, desde.Add(5*time.Hour))
	f.seedVenta(t, ana.ID, 1, 500, desde.Add(2*time.Hour))

	ranking, err := f.svc.ObtenerRanking(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, ranking.Posiciones, 2)
	assert.Equal(t, ana.ID.String(), ranking.Posiciones[0].DistribuidorID)
	assert.Equal(t, bruno.ID.String(), ranking.Posiciones[1].DistribuidorID)
}

func TestRankingCalculaPuntosYNivel(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()
	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)

	f.gamificacionRepo.cfg.MetasVenta = model.MetasVenta{
		{Nivel: "bronce", MontoMinimo: decimal.NewFromInt(100)},
		{Nivel: "plata", MontoMinimo: decimal.NewFromInt(500)},
		{Nivel: "oro", MontoMinimo: decimal.NewFromInt(2000)},
	}
	f.seedVenta(t, ana.ID, 2, 300, desde.Add(time.Hour)) // ingreso 600

	ranking, err := f.svc.ObtenerRanking(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, ranking.Posiciones, 1)

	pos := ranking.Posiciones[0]
	assert.Equal(t, "ana", pos.Nombre)
	assert.Equal(t, 2, pos.TotalUnidades)
	// 10 puntos por venta + 0.001 por peso: 10x1 + 0.001x600 = 10.6
	assert.Equal(t, "10.6", pos.Puntos.String())
	assert.Equal(t, "plata", pos.Nivel)
}

func TestRankingVentanaVacia(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()

	ranking, err := f.svc.ObtenerRanking(context.Background(), desde, hasta)
	require.NoError(t, err)
	assert.Empty(t, ranking.Posiciones)
}

func TestListarGanadores(t *testing.T) {
	f := buildRankingSvc()
	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)

	base := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		desde := base.AddDate(0, 0, 7*i)
		f.seedVenta(t, ana.ID, 1, 100, desde.Add(time.Hour))
		_, err := f.svc.EvaluarPeriodo(context.Background(), desde, desde.AddDate(0, 0, 7), nil)
		require.NoError(t, err)
	}

	ganadores, err := f.svc.ListarGanadores(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ganadores, 2)
	// Most recent window first.
	assert.Equal(t, base.AddDate(0, 0, 14).Format("2006-01-02"), ganadores[0].FechaInicio)

	// Past wins show up in the ranking read.
	ranking, err := f.svc.ObtenerRanking(context.Background(), base, base.AddDate(0, 0, 21))
	require.NoError(t, err)
	require.Len(t, ranking.Posiciones, 1)
	assert.Equal(t, 3, ranking.Posiciones[0].PeriodosGanados)
}

// comisionesEspia registers every invalidated distributor on top of the
// real resolver.
type comisionesEspia struct {
	service.ComisionService
	invalidados []uuid.UUID
}

func (c *comisionesEspia) InvalidarCache(ctx context.Context, ids []uuid.UUID) {
	c.invalidados = append(c.invalidados, ids...)
	c.ComisionService.InvalidarCache(ctx, ids)
}

func TestEvaluarPeriodoInvalidaNivelesSalientes(t *testing.T) {
	f := buildRankingSvc()
	espia := &comisionesEspia{ComisionService: f.comisiones}
	f.svc = service.NewRankingService(f.ventaRepo, f.rankingRepo, f.gamificacionRepo, f.usuarioRepo,
		service.NewGananciaService(f.gananciaRepo), espia, nil)

	desde, hasta := ventanaSemana()
	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)
	diego := seedUsuario(f.usuarioRepo, "diego", model.RolDistribuidor)

	// diego won the previous window but sold nothing in this one: losing
	// the tier must still drop his cached rate.
	require.NoError(t, f.rankingRepo.ReemplazarNivelesTx(nil, []model.NivelComision{{
		DistribuidorID: diego.ID,
		Posicion:       1,
		PeriodoInicio:  desde.AddDate(0, 0, -7),
		PeriodoFin:     desde,
		VigenteDesde:   desde.AddDate(0, 0, -7),
	}}))

	f.seedVenta(t, ana.ID, 1, 100, desde.Add(time.Hour))

	_, err := f.svc.EvaluarPeriodo(context.Background(), desde, hasta, nil)
	require.NoError(t, err)

	assert.Contains(t, espia.invalidados, diego.ID)
	assert.Contains(t, espia.invalidados, ana.ID)

	// Without a tier diego is back on the base rate.
	pct, err := f.comisiones.PorcentajePara(context.Background(), diego.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "20", pct.String())
}

// usuariosSinListado fails the distributor listing while leaving the rest
// of the repository intact.
type usuariosSinListado struct {
	repository.UsuarioRepository
}

func (u *usuariosSinListado) ListDistribuidores(context.Context) ([]model.Usuario, error) {
	return nil, errors.New("conexion perdida")
}

func TestObtenerRankingSinNombresDisponibles(t *testing.T) {
	f := buildRankingSvc()
	desde, hasta := ventanaSemana()
	ana := seedUsuario(f.usuarioRepo, "ana", model.RolDistribuidor)
	f.seedVenta(t, ana.ID, 1, 100, desde.Add(time.Hour))

	ganancias := service.NewGananciaService(f.gananciaRepo)
	svc := service.NewRankingService(f.ventaRepo, f.rankingRepo, f.gamificacionRepo,
		&usuariosSinListado{UsuarioRepository: f.usuarioRepo}, ganancias, f.comisiones, nil)

	// The listing failure degrades to blank names, it does not fail the read.
	ranking, err := svc.ObtenerRanking(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, ranking.Posiciones, 1)
	assert.Equal(t, ana.ID.String(), ranking.Posiciones[0].DistribuidorID)
	assert.Empty(t, ranking.Posiciones[0].Nombre)
}

func TestVentanaActualUsaConfig(t *testing.T) {
	f := buildRankingSvc()

	desde, hasta, tipo, err := f.svc.VentanaActual(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.PeriodoSemanal, tipo)
	assert.Equal(t, 7*24*time.Hour, hasta.Sub(desde))
	assert.False(t, time.Now().Before(desde))
	assert.True(t, time.Now().Before(hasta))
}
