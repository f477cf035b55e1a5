package handler

import (
	"net/http"
	"strconv"
	"time"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/model"
	"essence/backend/internal/repository"
	"essence/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type RankingHandler struct {
	svc              service.RankingService
	gamificacionRepo repository.GamificacionRepository
	usuarioRepo      repository.UsuarioRepository
	comisiones       service.ComisionService
}

func NewRankingHandler(
	svc service.RankingService,
	gamificacionRepo repository.GamificacionRepository,
	usuarioRepo repository.UsuarioRepository,
	comisiones service.ComisionService,
) *RankingHandler {
	return &RankingHandler{
		svc:              svc,
		gamificacionRepo: gamificacionRepo,
		usuarioRepo:      usuarioRepo,
		comisiones:       comisiones,
	}
}

// EvaluarPeriodo closes and finalizes the window [desde, hasta)
// synchronously. The scheduled path goes through the worker queue instead.
func (h *RankingHandler) EvaluarPeriodo(c *gin.Context) {
	var req dto.EvaluarPeriodoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EvaluarPeriodo(c.Request.Context(), req.Desde, req.Hasta, req.Notas)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener recomputes the ranking for the requested window, defaulting to
// the currently-open one.
func (h *RankingHandler) Obtener(c *gin.Context) {
	var desde, hasta time.Time
	var err error

	if rawDesde := c.Query("desde"); rawDesde != "" {
		desde, err = time.Parse("2006-01-02", rawDesde)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("desde invalido, se espera YYYY-MM-DD"))
			return
		}
		hasta, err = time.Parse("2006-01-02", c.Query("hasta"))
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("hasta invalido, se espera YYYY-MM-DD"))
			return
		}
	} else {
		desde, hasta, _, err = h.svc.VentanaActual(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular la ventana actual"))
			return
		}
	}

	resp, err := h.svc.ObtenerRanking(c.Request.Context(), desde, hasta)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarGanadores returns past period winners, newest first.
func (h *RankingHandler) ListarGanadores(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.ListarGanadores(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ganadores"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerConfig returns the gamification singleton plus the window the
// current config produces.
func (h *RankingHandler) ObtenerConfig(c *gin.Context) {
	cfg, err := h.gamificacionRepo.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al leer la configuracion"))
		return
	}
	resp := configToResponse(cfg)
	if desde, hasta, tipo, err := h.svc.VentanaActual(c.Request.Context()); err == nil {
		resp.VentanaActual = &dto.VentanaResponse{
			Desde: desde.Format(time.RFC3339),
			Hasta: hasta.Format(time.RFC3339),
			Tipo:  tipo,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarConfig replaces the gamification singleton. Frozen history is
// untouched: already-recorded sales keep their commission snapshot, and
// cached rates are dropped so new sales pick up the new values.
func (h *RankingHandler) ActualizarConfig(c *gin.Context) {
	var req dto.ConfigGamificacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.PeriodoEvaluacion == model.PeriodoCustom && req.DiasPersonalizado <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("dias_personalizado debe ser mayor a cero para periodo custom"))
		return
	}

	cfg, err := h.gamificacionRepo.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al leer la configuracion"))
		return
	}

	cfg.PeriodoEvaluacion = req.PeriodoEvaluacion
	cfg.DiasPersonalizado = req.DiasPersonalizado
	cfg.BonusPrimerPuesto = req.BonusPrimerPuesto
	cfg.BonusSegundoPuesto = req.BonusSegundoPuesto
	cfg.BonusTercerPuesto = req.BonusTercerPuesto
	cfg.PuntosPorVenta = req.PuntosPorVenta
	cfg.PuntosPorPeso = req.PuntosPorPeso
	cfg.ComisionBase = req.ComisionBase
	cfg.ComisionTop1 = req.ComisionTop1
	cfg.ComisionTop2 = req.ComisionTop2
	cfg.ComisionTop3 = req.ComisionTop3
	cfg.MetasVenta = metasFromRequest(req.MetasVenta)

	if err := h.gamificacionRepo.Update(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al guardar la configuracion"))
		return
	}

	// New rates apply to sales recorded from now on.
	if distribuidores, err := h.usuarioRepo.ListDistribuidores(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el cache de comisiones")
	} else {
		ids := make([]uuid.UUID, 0, len(distribuidores))
		for i := range distribuidores {
			ids = append(ids, distribuidores[i].ID)
		}
		h.comisiones.InvalidarCache(c.Request.Context(), ids)
	}

	c.JSON(http.StatusOK, configToResponse(cfg))
}

func metasFromRequest(metas []dto.MetaVentaRequest) model.MetasVenta {
	out := make(model.MetasVenta, 0, len(metas))
	for _, m := range metas {
		out = append(out, model.MetaVenta{
			Nivel:       m.Nivel,
			MontoMinimo: m.MontoMinimo,
			Bonus:       m.Bonus,
			Insignia:    m.Insignia,
		})
	}
	return out
}

func configToResponse(cfg *model.ConfigGamificacion) dto.ConfigGamificacionResponse {
	metas := make([]dto.MetaVentaRequest, 0, len(cfg.MetasVenta))
	for _, m := range cfg.MetasVenta {
		metas = append(metas, dto.MetaVentaRequest{
			Nivel:       m.Nivel,
			MontoMinimo: m.MontoMinimo,
			Bonus:       m.Bonus,
			Insignia:    m.Insignia,
		})
	}
	return dto.ConfigGamificacionResponse{
		PeriodoEvaluacion:  cfg.PeriodoEvaluacion,
		DiasPersonalizado:  cfg.DiasPersonalizado,
		BonusPrimerPuesto:  cfg.BonusPrimerPuesto,
		BonusSegundoPuesto: cfg.BonusSegundoPuesto,
		BonusTercerPuesto:  cfg.BonusTercerPuesto,
		PuntosPorVenta:     cfg.PuntosPorVenta,
		PuntosPorPeso:      cfg.PuntosPorPeso,
		ComisionBase:       cfg.ComisionBase,
		ComisionTop1:       cfg.ComisionTop1,
		ComisionTop2:       cfg.ComisionTop2,
		ComisionTop3:       cfg.ComisionTop3,
		MetasVenta:         metas,
	}
}
