package handler

import (
	"net/http"
	"strconv"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// Asignar moves units warehouse → distributor.
func (h *StockHandler) Asignar(c *gin.Context) {
	var req dto.AsignarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AsignarADistribuidor(c.Request.Context(), req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Retirar moves units distributor → warehouse.
func (h *StockHandler) Retirar(c *gin.Context) {
	var req dto.RetirarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RetirarDeDistribuidor(c.Request.Context(), req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transferir moves units between two distributors and returns the audit
// record with before/after snapshots.
func (h *StockHandler) Transferir(c *gin.Context) {
	var req dto.TransferirStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transferir(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// StockDeDistribuidor lists one distributor's pools across all products.
func (h *StockHandler) StockDeDistribuidor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.StockDeDistribuidor(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar stock"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarTransferencias returns the transfer audit log, optionally filtered
// to transfers where one distributor was origin or destination.
func (h *StockHandler) ListarTransferencias(c *gin.Context) {
	var distribuidorID *uuid.UUID
	if raw := c.Query("distribuidor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("distribuidor_id invalido"))
			return
		}
		distribuidorID = &id
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.ListarTransferencias(c.Request.Context(), distribuidorID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar transferencias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
