package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/model"
	"essence/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	evalLockPrefix = "ranking:eval:"
	evalLockTTL    = time.Minute
)

// RankingService evaluates closed periods and serves read-side rankings.
//
// Canonical ordering rule: ingreso total descendente; empates se resuelven
// por ganancia total descendente y luego por la primera venta mas temprana
// dentro de la ventana. The rule is applied identically by EvaluarPeriodo
// and ObtenerRanking.
type RankingService interface {
	// EvaluarPeriodo finalizes [desde, hasta): writes the GanadorPeriodo
	// record, posts bonus ledger entries for positions 1..3, and replaces
	// the commission tiers the resolver will use for the next period.
	// A window can only be finalized once.
	EvaluarPeriodo(ctx context.Context, desde, hasta time.Time, notas *string) (*dto.GanadorPeriodoResponse, error)
	// ObtenerRanking recomputes positions from the raw sales for display;
	// it never reads a persisted snapshot.
	ObtenerRanking(ctx context.Context, desde, hasta time.Time) (*dto.RankingResponse, error)
	// VentanaActual returns the currently-open window per config.
	VentanaActual(ctx context.Context) (desde, hasta time.Time, tipo string, err error)
	ListarGanadores(ctx context.Context, limit int) ([]dto.GanadorPeriodoResponse, error)
}

type rankingService struct {
	ventaRepo        repository.VentaRepository
	rankingRepo      repository.RankingRepository
	gamificacionRepo repository.GamificacionRepository
	usuarioRepo      repository.UsuarioRepository
	ganancias        GananciaService
	comisiones       ComisionService
	rdb              *redis.Client
}

// NewRankingService builds the engine; rdb may be nil (no cross-process
// evaluation lock — the DB unique index still rejects double evaluation).
func NewRankingService(
	ventaRepo repository.VentaRepository,
	rankingRepo repository.RankingRepository,
	gamificacionRepo repository.GamificacionRepository,
	usuarioRepo repository.UsuarioRepository,
	ganancias GananciaService,
	comisiones ComisionService,
	rdb *redis.Client,
) RankingService {
	return &rankingService{
		ventaRepo:        ventaRepo,
		rankingRepo:      rankingRepo,
		gamificacionRepo: gamificacionRepo,
		usuarioRepo:      usuarioRepo,
		ganancias:        ganancias,
		comisiones:       comisiones,
		rdb:              rdb,
	}
}

type posicionCalculada struct {
	agregado repository.AgregadoVentas
	posicion int
}

// calcularPosiciones applies the canonical ordering rule.
func calcularPosiciones(agregados []repository.AgregadoVentas) []posicionCalculada {
	ordenados := make([]repository.AgregadoVentas, len(agregados))
	copy(ordenados, agregados)
	sort.SliceStable(ordenados, func(i, j int) bool {
		if !ordenados[i].IngresoTotal.Equal(ordenados[j].IngresoTotal) {
			return ordenados[i].IngresoTotal.GreaterThan(ordenados[j].IngresoTotal)
		}
		if !ordenados[i].GananciaTotal.Equal(ordenados[j].GananciaTotal) {
			return ordenados[i].GananciaTotal.GreaterThan(ordenados[j].GananciaTotal)
		}
		return ordenados[i].PrimeraVenta.Before(ordenados[j].PrimeraVenta)
	})
	posiciones := make([]posicionCalculada, len(ordenados))
	for i, agg := range ordenados {
		posiciones[i] = posicionCalculada{agregado: agg, posicion: i + 1}
	}
	return posiciones
}

func (s *rankingService) EvaluarPeriodo(ctx context.Context, desde, hasta time.Time, notas *string) (*dto.GanadorPeriodoResponse, error) {
	if desde.After(hasta) {
		return nil, apierror.ErrRangoFechasInvalido
	}

	if _, err := s.rankingRepo.FindGanadorPorVentana(ctx, desde, hasta); err == nil {
		return nil, apierror.ErrPeriodoYaEvaluado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Only one evaluation in flight per window. The unique index on the
	// ganadores_periodo window is the backstop if two processes race past
	// this lock.
	if s.rdb != nil {
		lockKey := fmt.Sprintf("%s%d:%d", evalLockPrefix, desde.Unix(), hasta.Unix())
		ok, err := s.rdb.SetNX(ctx, lockKey, "1", evalLockTTL).Result()
		if err == nil && !ok {
			return nil, apierror.ErrConflictoConcurrencia
		}
		if err == nil {
			defer s.rdb.Del(context.WithoutCancel(ctx), lockKey)
		}
	}

	agregados, err := s.ventaRepo.AgregadosPorDistribuidor(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	if len(agregados) == 0 {
		return nil, apierror.ErrPeriodoSinVentas
	}

	cfg, err := s.gamificacionRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	posiciones := calcularPosiciones(agregados)
	primero := posiciones[0]

	ganadorUsuario, err := s.usuarioRepo.FindByID(ctx, primero.agregado.DistribuidorID)
	if err != nil {
		return nil, fmt.Errorf("ganador %s: %w", primero.agregado.DistribuidorID, err)
	}

	ventanaDesc := fmt.Sprintf("%s a %s", desde.Format("2006-01-02"), hasta.Format("2006-01-02"))
	ganador := model.GanadorPeriodo{
		TipoPeriodo:    cfg.PeriodoEvaluacion,
		FechaInicio:    desde,
		FechaFin:       hasta,
		GanadorID:      ganadorUsuario.ID,
		GanadorNombre:  ganadorUsuario.Nombre,
		GanadorEmail:   ganadorUsuario.Email,
		CantidadVentas: primero.agregado.CantidadVentas,
		IngresoTotal:   primero.agregado.IngresoTotal,
		MontoBonus:     cfg.BonusPrimerPuesto,
		Notas:          notas,
	}

	niveles := make([]model.NivelComision, 0, 3)
	afectados := make([]uuid.UUID, 0, len(posiciones)+3)
	ahora := time.Now()

	// The replacement below wipes every tier row, so the outgoing holders
	// also need their cached rates dropped even when they have no sales in
	// this window.
	salientes, err := s.rankingRepo.ListNiveles(ctx)
	if err != nil {
		return nil, err
	}
	for _, nivel := range salientes {
		afectados = append(afectados, nivel.DistribuidorID)
	}

	txErr := runTx(ctx, s.rankingRepo.DB(), func(tx *gorm.DB) error {
		for _, pos := range posiciones {
			afectados = append(afectados, pos.agregado.DistribuidorID)
			if pos.posicion > 3 {
				continue
			}
			bonus := cfg.BonusPorPosicion(pos.posicion)
			if bonus.IsPositive() {
				desc := fmt.Sprintf("Bonus puesto %d del periodo %s", pos.posicion, ventanaDesc)
				if _, err := s.ganancias.RegistrarEntradaTx(tx, pos.agregado.DistribuidorID, model.EntradaBonus, bonus, desc, ahora); err != nil {
					return err
				}
			}
			niveles = append(niveles, model.NivelComision{
				DistribuidorID: pos.agregado.DistribuidorID,
				Posicion:       pos.posicion,
				PeriodoInicio:  desde,
				PeriodoFin:     hasta,
				VigenteDesde:   ahora,
			})
		}

		ganador.BonusPagado = cfg.BonusPrimerPuesto.IsPositive()
		if err := s.rankingRepo.CreateGanadorTx(tx, &ganador); err != nil {
			return err
		}
		return s.rankingRepo.ReemplazarNivelesTx(tx, niveles)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.comisiones.InvalidarCache(ctx, afectados)

	log.Info().
		Str("ganador", ganador.GanadorNombre).
		Str("ventana", ventanaDesc).
		Int("participantes", len(posiciones)).
		Msg("periodo evaluado")

	resp := ganadorToResponse(&ganador)
	return &resp, nil
}

func (s *rankingService) ObtenerRanking(ctx context.Context, desde, hasta time.Time) (*dto.RankingResponse, error) {
	if desde.After(hasta) {
		return nil, apierror.ErrRangoFechasInvalido
	}

	agregados, err := s.ventaRepo.AgregadosPorDistribuidor(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	cfg, err := s.gamificacionRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	nombres := map[uuid.UUID]string{}
	if distribuidores, err := s.usuarioRepo.ListDistribuidores(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudieron cargar los nombres de distribuidores")
	} else {
		for _, d := range distribuidores {
			nombres[d.ID] = d.Nombre
		}
	}
	victorias, err := s.rankingRepo.VictoriasPorDistribuidor(ctx)
	if err != nil {
		return nil, err
	}

	posiciones := calcularPosiciones(agregados)
	resp := &dto.RankingResponse{
		Desde:      desde.Format("2006-01-02"),
		Hasta:      hasta.Format("2006-01-02"),
		Posiciones: make([]dto.PosicionRanking, 0, len(posiciones)),
	}
	for _, pos := range posiciones {
		agg := pos.agregado
		puntos := cfg.PuntosPorVenta.Mul(decimal.NewFromInt(int64(agg.CantidadVentas))).
			Add(cfg.PuntosPorPeso.Mul(agg.IngresoTotal))
		resp.Posiciones = append(resp.Posiciones, dto.PosicionRanking{
			Posicion:        pos.posicion,
			DistribuidorID:  agg.DistribuidorID.String(),
			Nombre:          nombres[agg.DistribuidorID],
			CantidadVentas:  agg.CantidadVentas,
			TotalUnidades:   agg.TotalUnidades,
			IngresoTotal:    agg.IngresoTotal,
			GananciaTotal:   agg.GananciaTotal,
			Puntos:          puntos,
			Nivel:           nivelPorIngreso(cfg.MetasVenta, agg.IngresoTotal),
			PeriodosGanados: victorias[agg.DistribuidorID],
		})
	}
	return resp, nil
}

// nivelPorIngreso returns the highest sales-target level whose minimum the
// revenue reaches.
func nivelPorIngreso(metas model.MetasVenta, ingreso decimal.Decimal) string {
	nivel := ""
	mejor := decimal.NewFromInt(-1)
	for _, meta := range metas {
		if ingreso.GreaterThanOrEqual(meta.MontoMinimo) && meta.MontoMinimo.GreaterThan(mejor) {
			nivel = meta.Nivel
			mejor = meta.MontoMinimo
		}
	}
	return nivel
}

func (s *rankingService) VentanaActual(ctx context.Context) (time.Time, time.Time, string, error) {
	cfg, err := s.gamificacionRepo.Get(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	desde, hasta := VentanaPeriodo(cfg, time.Now())
	return desde, hasta, cfg.PeriodoEvaluacion, nil
}

func (s *rankingService) ListarGanadores(ctx context.Context, limit int) ([]dto.GanadorPeriodoResponse, error) {
	ganadores, err := s.rankingRepo.ListGanadores(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GanadorPeriodoResponse, 0, len(ganadores))
	for i := range ganadores {
		resp = append(resp, ganadorToResponse(&ganadores[i]))
	}
	return resp, nil
}

func ganadorToResponse(g *model.GanadorPeriodo) dto.GanadorPeriodoResponse {
	return dto.GanadorPeriodoResponse{
		ID:             g.ID.String(),
		TipoPeriodo:    g.TipoPeriodo,
		FechaInicio:    g.FechaInicio.Format("2006-01-02"),
		FechaFin:       g.FechaFin.Format("2006-01-02"),
		GanadorID:      g.GanadorID.String(),
		GanadorNombre:  g.GanadorNombre,
		GanadorEmail:   g.GanadorEmail,
		CantidadVentas: g.CantidadVentas,
		IngresoTotal:   g.IngresoTotal,
		MontoBonus:     g.MontoBonus,
		BonusPagado:    g.BonusPagado,
	}
}
