package handler

import (
	"net/http"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/repository"
	"essence/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct {
	svc       service.ProductoService
	stockSvc  service.StockService
	stockRepo repository.StockRepository
}

func NewProductosHandler(svc service.ProductoService, stockSvc service.StockService, stockRepo repository.StockRepository) *ProductosHandler {
	return &ProductosHandler{svc: svc, stockSvc: stockSvc, stockRepo: stockRepo}
}

// Crear provisions a product; the initial stock lands in the warehouse pool.
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	productos, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": productos, "total": total})
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reponer adds freshly provisioned units to the warehouse pool.
func (h *ProductosHandler) Reponer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ReponerStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.stockSvc.Reponer(c.Request.Context(), id, req.Cantidad); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DistribucionStock lists where a product's units sit: one row per
// distributor holding a positive pool.
func (h *ProductosHandler) DistribucionStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	stocks, err := h.stockRepo.ListByProducto(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar stock"))
		return
	}
	resp := make([]dto.StockDistribuidorResponse, 0, len(stocks))
	for _, st := range stocks {
		item := dto.StockDistribuidorResponse{
			ProductoID:      st.ProductoID.String(),
			DistribuidorID:  st.DistribuidorID.String(),
			Cantidad:        st.Cantidad,
			AlertaStockBajo: st.AlertaStockBajo,
			StockBajo:       st.Cantidad <= st.AlertaStockBajo,
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}
