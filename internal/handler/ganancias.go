package handler

import (
	"net/http"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GananciasHandler struct{ svc service.GananciaService }

func NewGananciasHandler(svc service.GananciaService) *GananciasHandler {
	return &GananciasHandler{svc: svc}
}

// Saldo returns one account's balance with the per-tipo breakdown.
func (h *GananciasHandler) Saldo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerSaldo(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial returns the account's entries in append order, so consecutive
// rows always chain: saldo_despues[n] = saldo_despues[n-1] + monto[n].
func (h *GananciasHandler) Historial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var filter dto.HistorialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ObtenerHistorial(c.Request.Context(), id, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarAjuste posts a manual signed correction to one account.
func (h *GananciasHandler) RegistrarAjuste(c *gin.Context) {
	var req dto.RegistrarAjusteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarAjuste(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
