package handler

import (
	"net/http"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DefectuososHandler struct{ svc service.DefectuosoService }

func NewDefectuososHandler(svc service.DefectuosoService) *DefectuososHandler {
	return &DefectuososHandler{svc: svc}
}

// Reportar creates a defect claim. Warehouse-origin reports (no
// distribuidor_id) are confirmed in the same call.
func (h *DefectuososHandler) Reportar(c *gin.Context) {
	var req dto.ReportarDefectuosoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reportar(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Confirmar accepts a pending report: the units leave the distributor pool
// and enter the defective counter.
func (h *DefectuososHandler) Confirmar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ResolverDefectuosoRequest
	_ = c.ShouldBindJSON(&req) // body is optional
	if err := h.svc.Confirmar(c.Request.Context(), id, req.Notas); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Rechazar dismisses a pending report; no stock moves.
func (h *DefectuososHandler) Rechazar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ResolverDefectuosoRequest
	_ = c.ShouldBindJSON(&req) // body is optional
	if err := h.svc.Rechazar(c.Request.Context(), id, req.Notas); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DefectuososHandler) Listar(c *gin.Context) {
	var filter dto.DefectuosoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	reportes, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar reportes"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reportes, "total": total})
}
