package service

import (
	"context"
	"fmt"
	"time"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/model"
	"essence/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DefectuosoService is the defect-report state machine:
// pendiente → confirmado | rechazado (terminal). Units only leave the
// stock pools on confirmation, inside the same transaction that flips the
// state.
type DefectuosoService interface {
	Reportar(ctx context.Context, req dto.ReportarDefectuosoRequest) (*dto.ReporteDefectuosoResponse, error)
	Confirmar(ctx context.Context, id uuid.UUID, notas *string) error
	Rechazar(ctx context.Context, id uuid.UUID, notas *string) error
	Listar(ctx context.Context, filter dto.DefectuosoFilter) ([]dto.ReporteDefectuosoResponse, int64, error)
}

type defectuosoService struct {
	repo         repository.DefectuosoRepository
	productoRepo repository.ProductoRepository
	stock        StockService
}

func NewDefectuosoService(repo repository.DefectuosoRepository, productoRepo repository.ProductoRepository, stock StockService) DefectuosoService {
	return &defectuosoService{repo: repo, productoRepo: productoRepo, stock: stock}
}

// Reportar creates the claim. Warehouse-origin reports (no distributor)
// are auto-confirmed: the units leave the warehouse in the same
// transaction that creates the report.
func (s *defectuosoService) Reportar(ctx context.Context, req dto.ReportarDefectuosoRequest) (*dto.ReporteDefectuosoResponse, error) {
	if req.Cantidad <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", apierror.ErrValidacion)
	}
	if req.Motivo == "" {
		return nil, fmt.Errorf("%w: motivo requerido", apierror.ErrValidacion)
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto_id invalido", apierror.ErrValidacion)
	}
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, fmt.Errorf("%w: producto no encontrado", apierror.ErrValidacion)
	}

	var distribuidorID *uuid.UUID
	if req.DistribuidorID != nil && *req.DistribuidorID != "" {
		id, err := uuid.Parse(*req.DistribuidorID)
		if err != nil {
			return nil, fmt.Errorf("%w: distribuidor_id invalido", apierror.ErrValidacion)
		}
		distribuidorID = &id
	}

	ahora := time.Now()
	reporte := model.ReporteDefectuoso{
		ProductoID:     productoID,
		DistribuidorID: distribuidorID,
		Cantidad:       req.Cantidad,
		Motivo:         req.Motivo,
		Estado:         model.DefectoPendiente,
		FechaReporte:   ahora,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if distribuidorID == nil {
			// Warehouse origin: confirm and remove the units right away.
			reporte.Estado = model.DefectoConfirmado
			reporte.ConfirmadoAt = &ahora
			if err := s.stock.DevolverDepositoTx(tx, productoID, req.Cantidad); err != nil {
				return err
			}
		}
		return s.repo.CreateTx(tx, &reporte)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := reporteToResponse(&reporte)
	return &resp, nil
}

func (s *defectuosoService) Confirmar(ctx context.Context, id uuid.UUID, notas *string) error {
	reporte, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("reporte no encontrado: %w", err)
	}

	ahora := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		filas, err := s.repo.TransicionarTx(tx, id, model.DefectoConfirmado, notas, &ahora)
		if err != nil {
			return err
		}
		if filas == 0 {
			return apierror.ErrYaProcesado
		}
		if reporte.DistribuidorID == nil {
			return s.stock.DevolverDepositoTx(tx, reporte.ProductoID, reporte.Cantidad)
		}
		return s.stock.DevolverDistribuidorTx(tx, reporte.ProductoID, *reporte.DistribuidorID, reporte.Cantidad)
	})
	if txErr != nil {
		return txErr
	}

	log.Info().
		Str("reporte_id", id.String()).
		Int("cantidad", reporte.Cantidad).
		Msg("reporte defectuoso confirmado, unidades retiradas del sistema")
	return nil
}

func (s *defectuosoService) Rechazar(ctx context.Context, id uuid.UUID, notas *string) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		filas, err := s.repo.TransicionarTx(tx, id, model.DefectoRechazado, notas, nil)
		if err != nil {
			return err
		}
		if filas == 0 {
			return apierror.ErrYaProcesado
		}
		return nil
	})
}

func (s *defectuosoService) Listar(ctx context.Context, filter dto.DefectuosoFilter) ([]dto.ReporteDefectuosoResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	reportes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ReporteDefectuosoResponse, 0, len(reportes))
	for i := range reportes {
		resp = append(resp, reporteToResponse(&reportes[i]))
	}
	return resp, total, nil
}

func reporteToResponse(r *model.ReporteDefectuoso) dto.ReporteDefectuosoResponse {
	resp := dto.ReporteDefectuosoResponse{
		ID:           r.ID.String(),
		ProductoID:   r.ProductoID.String(),
		Cantidad:     r.Cantidad,
		Motivo:       r.Motivo,
		Estado:       r.Estado,
		FechaReporte: r.FechaReporte.Format(time.RFC3339),
		NotasAdmin:   r.NotasAdmin,
	}
	if r.Producto != nil {
		resp.Producto = r.Producto.Nombre
	}
	if r.DistribuidorID != nil {
		id := r.DistribuidorID.String()
		resp.DistribuidorID = &id
	}
	if r.ConfirmadoAt != nil {
		confirmado := r.ConfirmadoAt.Format(time.RFC3339)
		resp.ConfirmadoAt = &confirmado
	}
	return resp
}
