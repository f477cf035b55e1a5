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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService orchestrates one sale: resolve and freeze the commission
// rate, consume distributor stock, persist the sale, and post both ledger
// entries — all inside one transaction, so a failure at any step leaves
// nothing half-recorded (full-rollback policy).
type VentaService interface {
	RegistrarVenta(ctx context.Context, actorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	// ConfirmarPago flips pendiente → confirmado; repeating the call on a
	// confirmed sale is a no-op, not an error.
	ConfirmarPago(ctx context.Context, id uuid.UUID) error
	// EliminarVenta (admin-only) restores the consumed stock to the
	// distributor it came from and posts compensating ajuste entries; the
	// original ledger entries are preserved.
	EliminarVenta(ctx context.Context, id uuid.UUID) error
	ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
	usuarioRepo  repository.UsuarioRepository
	stock        StockService
	ganancias    GananciaService
	comisiones   ComisionService
}

func NewVentaService(
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	usuarioRepo repository.UsuarioRepository,
	stock StockService,
	ganancias GananciaService,
	comisiones ComisionService,
) VentaService {
	return &ventaService{
		ventaRepo:    ventaRepo,
		productoRepo: productoRepo,
		usuarioRepo:  usuarioRepo,
		stock:        stock,
		ganancias:    ganancias,
		comisiones:   comisiones,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
//  1. Validate input, resolve product and commission rate (pre-flight).
//  2. One ACID transaction: consume stock (skipped for admin-direct),
//     create the Venta with the frozen rate and split, post the
//     distributor entry then the admin entry (fixed saldo lock order).
//  3. Stock guards run at commit time; a concurrent sale that drains the
//     pool first makes this transaction fail whole.

func (s *ventaService) RegistrarVenta(ctx context.Context, actorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if req.Cantidad <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", apierror.ErrValidacion)
	}
	if req.PrecioVenta.IsNegative() {
		return nil, fmt.Errorf("%w: el precio de venta no puede ser negativo", apierror.ErrValidacion)
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto_id invalido", apierror.ErrValidacion)
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto no encontrado", apierror.ErrValidacion)
	}
	if !producto.Activo {
		return nil, fmt.Errorf("%w: el producto %s esta inactivo", apierror.ErrValidacion, producto.Nombre)
	}

	var distribuidorID *uuid.UUID
	if req.DistribuidorID != nil && *req.DistribuidorID != "" {
		id, err := uuid.Parse(*req.DistribuidorID)
		if err != nil {
			return nil, fmt.Errorf("%w: distribuidor_id invalido", apierror.ErrValidacion)
		}
		distribuidorID = &id
	}

	fechaVenta := time.Now()
	if req.FechaVenta != nil {
		fechaVenta = *req.FechaVenta
	}

	cantidad := decimal.NewFromInt(int64(req.Cantidad))
	cien := decimal.NewFromInt(100)

	// Resolve and freeze the rate. Admin-direct sales do not go through
	// the resolver: the whole margin is the admin's.
	var porcentaje, gananciaAdmin, gananciaDistribuidor decimal.Decimal
	tipoEntradaAdmin := model.EntradaVentaNormal
	if distribuidorID != nil {
		porcentaje, err = s.comisiones.PorcentajePara(ctx, *distribuidorID, fechaVenta)
		if err != nil {
			return nil, err
		}
		gananciaAdmin = producto.PrecioDistribuidor.Sub(producto.PrecioCompra).Mul(cantidad)
		gananciaDistribuidor = req.PrecioVenta.Mul(cantidad).Mul(porcentaje).Div(cien).Round(2)
	} else {
		tipoEntradaAdmin = model.EntradaVentaEspecial
		porcentaje = decimal.Zero
		gananciaAdmin = req.PrecioVenta.Sub(producto.PrecioCompra).Mul(cantidad)
		gananciaDistribuidor = decimal.Zero
	}

	admin, err := s.usuarioRepo.FindAdmin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cuenta admin: %w", err)
	}

	venta := model.Venta{
		ProductoID:             productoID,
		DistribuidorID:         distribuidorID,
		Cantidad:               req.Cantidad,
		PrecioVenta:            req.PrecioVenta,
		PorcentajeDistribuidor: porcentaje,
		GananciaAdmin:          gananciaAdmin,
		GananciaDistribuidor:   gananciaDistribuidor,
		EstadoPago:             model.PagoPendiente,
		FechaVenta:             fechaVenta,
		Notas:                  req.Notas,
	}

	txErr := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		// Stock first, then ledger (fixed cross-entity lock order).
		if distribuidorID != nil {
			if err := s.stock.ConsumirTx(tx, productoID, *distribuidorID, req.Cantidad); err != nil {
				return err
			}
		}

		if err := s.ventaRepo.CreateTx(tx, &venta); err != nil {
			return err
		}

		// Distributor saldo before admin saldo.
		if distribuidorID != nil && gananciaDistribuidor.IsPositive() {
			desc := fmt.Sprintf("Venta %s — %d x %s", venta.ID, req.Cantidad, producto.Nombre)
			if _, err := s.ganancias.RegistrarEntradaTx(tx, *distribuidorID, model.EntradaVentaNormal, gananciaDistribuidor, desc, fechaVenta); err != nil {
				return err
			}
		}
		descAdmin := fmt.Sprintf("Venta %s — %d x %s", venta.ID, req.Cantidad, producto.Nombre)
		if _, err := s.ganancias.RegistrarEntradaTx(tx, admin.ID, tipoEntradaAdmin, gananciaAdmin, descAdmin, fechaVenta); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("actor_id", actorID.String()).
		Int("cantidad", req.Cantidad).
		Str("porcentaje", porcentaje.String()).
		Msg("venta registrada")

	resp := ventaToResponse(&venta)
	resp.Producto = producto.Nombre
	return &resp, nil
}

func (s *ventaService) ConfirmarPago(ctx context.Context, id uuid.UUID) error {
	venta, err := s.ventaRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("venta no encontrada: %w", err)
	}
	if venta.EstadoPago == model.PagoConfirmado {
		// Idempotent: repeating the confirmation changes nothing.
		return nil
	}
	return runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		_, err := s.ventaRepo.ConfirmarPagoTx(tx, id)
		return err
	})
}

// ── EliminarVenta ─────────────────────────────────────────────────────────────
// The reversal is compensating, never destructive on the ledger: stock goes
// back to where it came from and each original posting gets an opposite
// ajuste entry, leaving the running balance as if the sale never happened
// while the history keeps both sides.

func (s *ventaService) EliminarVenta(ctx context.Context, id uuid.UUID) error {
	venta, err := s.ventaRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("venta no encontrada: %w", err)
	}

	admin, err := s.usuarioRepo.FindAdmin(ctx)
	if err != nil {
		return fmt.Errorf("cuenta admin: %w", err)
	}

	ahora := time.Now()
	txErr := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		if venta.DistribuidorID != nil {
			if err := s.stock.RestaurarVentaTx(tx, venta.ProductoID, *venta.DistribuidorID, venta.Cantidad); err != nil {
				return err
			}
			if venta.GananciaDistribuidor.IsPositive() {
				desc := fmt.Sprintf("Reverso venta %s", venta.ID)
				if _, err := s.ganancias.RegistrarEntradaTx(tx, *venta.DistribuidorID, model.EntradaAjuste, venta.GananciaDistribuidor.Neg(), desc, ahora); err != nil {
					return err
				}
			}
		}
		if !venta.GananciaAdmin.IsZero() {
			desc := fmt.Sprintf("Reverso venta %s", venta.ID)
			if _, err := s.ganancias.RegistrarEntradaTx(tx, admin.ID, model.EntradaAjuste, venta.GananciaAdmin.Neg(), desc, ahora); err != nil {
				return err
			}
		}
		return s.ventaRepo.DeleteTx(tx, id)
	})
	if txErr != nil {
		return txErr
	}

	log.Info().Str("venta_id", id.String()).Msg("venta eliminada con reverso compensatorio")
	return nil
}

func (s *ventaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.ventaRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		resp := ventaToResponse(&ventas[i])
		if ventas[i].Producto != nil {
			resp.Producto = ventas[i].Producto.Nombre
		}
		data = append(data, resp)
	}
	return &dto.VentaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:                     v.ID.String(),
		ProductoID:             v.ProductoID.String(),
		Cantidad:               v.Cantidad,
		PrecioVenta:            v.PrecioVenta,
		PorcentajeDistribuidor: v.PorcentajeDistribuidor,
		GananciaAdmin:          v.GananciaAdmin,
		GananciaDistribuidor:   v.GananciaDistribuidor,
		EstadoPago:             v.EstadoPago,
		FechaVenta:             v.FechaVenta.Format(time.RFC3339),
		CreatedAt:              v.CreatedAt.Format(time.RFC3339),
	}
	if v.DistribuidorID != nil {
		id := v.DistribuidorID.String()
		resp.DistribuidorID = &id
	}
	return resp
}
