package service

import (
	"context"
	"fmt"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/model"
	"essence/backend/internal/repository"

	"github.com/google/uuid"
)

// ProductoService covers product provisioning and catalog reads. Prices
// are taken as independent inputs; the engine never derives one from
// another.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.Nombre == "" {
		return nil, fmt.Errorf("%w: nombre requerido", apierror.ErrValidacion)
	}
	if req.StockInicial < 0 {
		return nil, fmt.Errorf("%w: el stock inicial no puede ser negativo", apierror.ErrValidacion)
	}
	if req.PrecioCompra.IsNegative() || req.PrecioDistribuidor.IsNegative() || req.PrecioCliente.IsNegative() {
		return nil, fmt.Errorf("%w: los precios no pueden ser negativos", apierror.ErrValidacion)
	}

	producto := model.Producto{
		Nombre:             req.Nombre,
		Descripcion:        req.Descripcion,
		PrecioCompra:       req.PrecioCompra,
		PrecioDistribuidor: req.PrecioDistribuidor,
		PrecioCliente:      req.PrecioCliente,
		StockTotal:         req.StockInicial,
		StockDeposito:      req.StockInicial,
		AlertaStockBajo:    req.AlertaStockBajo,
		Activo:             true,
	}
	if producto.AlertaStockBajo == 0 {
		producto.AlertaStockBajo = 5
	}
	if err := s.repo.Create(ctx, &producto); err != nil {
		return nil, err
	}
	resp := productoToResponse(&producto)
	return &resp, nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(producto)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		resp = append(resp, productoToResponse(&productos[i]))
	}
	return resp, total, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:                  p.ID.String(),
		Nombre:              p.Nombre,
		Descripcion:         p.Descripcion,
		PrecioCompra:        p.PrecioCompra,
		PrecioDistribuidor:  p.PrecioDistribuidor,
		PrecioCliente:       p.PrecioCliente,
		StockTotal:          p.StockTotal,
		StockDeposito:       p.StockDeposito,
		UnidadesVendidas:    p.UnidadesVendidas,
		UnidadesDefectuosas: p.UnidadesDefectuosas,
		AlertaStockBajo:     p.AlertaStockBajo,
		StockBajo:           p.StockDeposito <= p.AlertaStockBajo,
		Activo:              p.Activo,
	}
}
