package service

import (
	"bytes"
	"context"
	"errors"
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

// StockService is the stock ledger: every mutation is one atomic,
// invariant-checked transaction validated against the persisted balances
// at commit time, never against a value read earlier in the request.
type StockService interface {
	AsignarADistribuidor(ctx context.Context, req dto.AsignarStockRequest) error
	RetirarDeDistribuidor(ctx context.Context, req dto.RetirarStockRequest) error
	Transferir(ctx context.Context, req dto.TransferirStockRequest) (*dto.TransferenciaResponse, error)
	Reponer(ctx context.Context, productoID uuid.UUID, cantidad int) error

	// Tx variants run inside a caller-owned transaction (sale and defect
	// workflows). Lock order across the engine: stock rows before saldo
	// rows.
	ConsumirTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error
	RestaurarVentaTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error
	DevolverDepositoTx(tx *gorm.DB, productoID uuid.UUID, cantidad int) error
	DevolverDistribuidorTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error

	StockDeDistribuidor(ctx context.Context, distribuidorID uuid.UUID) ([]dto.StockDistribuidorResponse, error)
	ListarTransferencias(ctx context.Context, distribuidorID *uuid.UUID, limit int) ([]dto.TransferenciaResponse, error)
}

type stockService struct {
	productoRepo repository.ProductoRepository
	stockRepo    repository.StockRepository
}

func NewStockService(productoRepo repository.ProductoRepository, stockRepo repository.StockRepository) StockService {
	return &stockService{productoRepo: productoRepo, stockRepo: stockRepo}
}

func (s *stockService) validarProducto(ctx context.Context, id uuid.UUID) error {
	p, err := s.productoRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: producto no encontrado", apierror.ErrValidacion)
	}
	if !p.Activo {
		return fmt.Errorf("%w: el producto %s esta inactivo", apierror.ErrValidacion, p.Nombre)
	}
	return nil
}

// ── AsignarADistribuidor ──────────────────────────────────────────────────────
// deposito → distribuidor. The warehouse guard runs at commit time inside
// the transaction; a concurrent assignment that drains the pool first makes
// this one fail whole.

func (s *stockService) AsignarADistribuidor(ctx context.Context, req dto.AsignarStockRequest) error {
	if req.Cantidad <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", apierror.ErrValidacion)
	}
	productoID, distribuidorID, err := parseParUUID(req.ProductoID, req.DistribuidorID)
	if err != nil {
		return err
	}
	if err := s.validarProducto(ctx, productoID); err != nil {
		return err
	}

	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.productoRepo.DescontarDepositoTx(tx, productoID, req.Cantidad); err != nil {
			return err
		}
		return s.stockRepo.IncrementarTx(tx, productoID, distribuidorID, req.Cantidad)
	})
}

// ── RetirarDeDistribuidor ─────────────────────────────────────────────────────
// distribuidor → deposito, symmetric to Asignar.

func (s *stockService) RetirarDeDistribuidor(ctx context.Context, req dto.RetirarStockRequest) error {
	if req.Cantidad <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", apierror.ErrValidacion)
	}
	productoID, distribuidorID, err := parseParUUID(req.ProductoID, req.DistribuidorID)
	if err != nil {
		return err
	}

	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.stockRepo.DescontarTx(tx, productoID, distribuidorID, req.Cantidad); err != nil {
			return err
		}
		return s.productoRepo.IncrementarDepositoTx(tx, productoID, req.Cantidad)
	})
}

// ── Transferir ────────────────────────────────────────────────────────────────
// Moves units between two distributors and records a TransferenciaStock
// with before/after snapshots taken under the same row locks that move the
// units. A rejected transfer writes nothing.

func (s *stockService) Transferir(ctx context.Context, req dto.TransferirStockRequest) (*dto.TransferenciaResponse, error) {
	if req.Cantidad <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", apierror.ErrValidacion)
	}
	if req.OrigenID == req.DestinoID {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", apierror.ErrValidacion)
	}
	productoID, origenID, err := parseParUUID(req.ProductoID, req.OrigenID)
	if err != nil {
		return nil, err
	}
	destinoID, err := uuid.Parse(req.DestinoID)
	if err != nil {
		return nil, fmt.Errorf("%w: destino_id invalido", apierror.ErrValidacion)
	}
	if err := s.validarProducto(ctx, productoID); err != nil {
		return nil, err
	}

	var transferencia model.TransferenciaStock
	txErr := runTx(ctx, s.stockRepo.DB(), func(tx *gorm.DB) error {
		// Make sure the destination row exists so both pools can be locked.
		// The insert leaves an existing row untouched and unlocked, so the
		// only locks taken are the ordered ones below.
		if err := s.stockRepo.CrearSiFaltaTx(tx, productoID, destinoID); err != nil {
			return err
		}

		// Lock both rows in a deterministic order so two opposite
		// transfers cannot deadlock each other.
		primero, segundo := origenID, destinoID
		if bytes.Compare(destinoID[:], origenID[:]) < 0 {
			primero, segundo = destinoID, origenID
		}
		locked := map[uuid.UUID]*model.StockDistribuidor{}
		for _, id := range []uuid.UUID{primero, segundo} {
			row, err := s.stockRepo.FindForUpdateTx(tx, productoID, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.ErrStockDistribuidorInsuficiente
				}
				return err
			}
			locked[id] = row
		}

		origen, destino := locked[origenID], locked[destinoID]
		if origen.Cantidad < req.Cantidad {
			return apierror.ErrStockDistribuidorInsuficiente
		}

		if err := s.stockRepo.DescontarTx(tx, productoID, origenID, req.Cantidad); err != nil {
			return err
		}
		if err := s.stockRepo.IncrementarTx(tx, productoID, destinoID, req.Cantidad); err != nil {
			return err
		}

		transferencia = model.TransferenciaStock{
			ProductoID:          productoID,
			OrigenID:            origenID,
			DestinoID:           destinoID,
			Cantidad:            req.Cantidad,
			StockOrigenAntes:    origen.Cantidad,
			StockOrigenDespues:  origen.Cantidad - req.Cantidad,
			StockDestinoAntes:   destino.Cantidad,
			StockDestinoDespues: destino.Cantidad + req.Cantidad,
			Estado:              model.TransferenciaCompletada,
		}
		return s.stockRepo.CreateTransferenciaTx(tx, &transferencia)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("producto_id", productoID.String()).
		Str("origen_id", origenID.String()).
		Str("destino_id", destinoID.String()).
		Int("cantidad", req.Cantidad).
		Msg("transferencia de stock completada")

	resp := transferenciaToResponse(&transferencia)
	return &resp, nil
}

// Reponer provisions fresh units into the warehouse; both stock_deposito
// and stock_total grow, keeping the conservation equation balanced.
func (s *stockService) Reponer(ctx context.Context, productoID uuid.UUID, cantidad int) error {
	if cantidad <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", apierror.ErrValidacion)
	}
	if err := s.validarProducto(ctx, productoID); err != nil {
		return err
	}
	return runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		return s.productoRepo.ReponerTx(tx, productoID, cantidad)
	})
}

// ── Tx variants ───────────────────────────────────────────────────────────────

// ConsumirTx removes sold units from the distributor pool and moves them
// into the sold counter. Called by the sale transaction.
func (s *stockService) ConsumirTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error {
	if err := s.stockRepo.DescontarTx(tx, productoID, distribuidorID, cantidad); err != nil {
		return err
	}
	return s.productoRepo.SumarVendidasTx(tx, productoID, cantidad)
}

// RestaurarVentaTx undoes ConsumirTx when a sale is deleted: units go back
// to the distributor pool they came from.
func (s *stockService) RestaurarVentaTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error {
	if err := s.stockRepo.IncrementarTx(tx, productoID, distribuidorID, cantidad); err != nil {
		return err
	}
	return s.productoRepo.SumarVendidasTx(tx, productoID, -cantidad)
}

// DevolverDepositoTx removes confirmed-defective units from the warehouse.
// They leave the system: deposito shrinks and the defective counter grows.
func (s *stockService) DevolverDepositoTx(tx *gorm.DB, productoID uuid.UUID, cantidad int) error {
	return s.productoRepo.DescontarDepositoADefectuosoTx(tx, productoID, cantidad)
}

// DevolverDistribuidorTx removes confirmed-defective units from a
// distributor pool; same "units leave the system" semantics.
func (s *stockService) DevolverDistribuidorTx(tx *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error {
	if err := s.stockRepo.DescontarTx(tx, productoID, distribuidorID, cantidad); err != nil {
		return err
	}
	return s.productoRepo.SumarDefectuosasTx(tx, productoID, cantidad)
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *stockService) StockDeDistribuidor(ctx context.Context, distribuidorID uuid.UUID) ([]dto.StockDistribuidorResponse, error) {
	stocks, err := s.stockRepo.ListByDistribuidor(ctx, distribuidorID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockDistribuidorResponse, 0, len(stocks))
	for _, st := range stocks {
		nombre := ""
		if st.Producto != nil {
			nombre = st.Producto.Nombre
		}
		resp = append(resp, dto.StockDistribuidorResponse{
			ProductoID:      st.ProductoID.String(),
			Producto:        nombre,
			DistribuidorID:  st.DistribuidorID.String(),
			Cantidad:        st.Cantidad,
			AlertaStockBajo: st.AlertaStockBajo,
			StockBajo:       st.Cantidad <= st.AlertaStockBajo,
		})
	}
	return resp, nil
}

func (s *stockService) ListarTransferencias(ctx context.Context, distribuidorID *uuid.UUID, limit int) ([]dto.TransferenciaResponse, error) {
	transferencias, err := s.stockRepo.ListTransferencias(ctx, distribuidorID, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TransferenciaResponse, 0, len(transferencias))
	for i := range transferencias {
		resp = append(resp, transferenciaToResponse(&transferencias[i]))
	}
	return resp, nil
}

func transferenciaToResponse(t *model.TransferenciaStock) dto.TransferenciaResponse {
	return dto.TransferenciaResponse{
		ID:                  t.ID.String(),
		ProductoID:          t.ProductoID.String(),
		OrigenID:            t.OrigenID.String(),
		DestinoID:           t.DestinoID.String(),
		Cantidad:            t.Cantidad,
		StockOrigenAntes:    t.StockOrigenAntes,
		StockOrigenDespues:  t.StockOrigenDespues,
		StockDestinoAntes:   t.StockDestinoAntes,
		StockDestinoDespues: t.StockDestinoDespues,
		Estado:              t.Estado,
		CreatedAt:           t.CreatedAt.Format(time.RFC3339),
	}
}

func parseParUUID(a, b string) (uuid.UUID, uuid.UUID, error) {
	first, err := uuid.Parse(a)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: producto_id invalido", apierror.ErrValidacion)
	}
	second, err := uuid.Parse(b)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: distribuidor_id invalido", apierror.ErrValidacion)
	}
	return first, second, nil
}
