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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GananciaService is the append-only earnings ledger. Entries are never
// updated or deleted; every balance-affecting event becomes one entry per
// affected account, serialized per user by the repository's saldo row
// lock.
type GananciaService interface {
	// RegistrarEntrada posts one entry in its own transaction and returns
	// the resulting balance.
	RegistrarEntrada(ctx context.Context, usuarioID uuid.UUID, tipo string, monto decimal.Decimal, descripcion string) (decimal.Decimal, error)
	// RegistrarEntradaTx posts inside a caller-owned transaction (sale /
	// evaluation flows). Lock order: distributor saldo before admin saldo.
	RegistrarEntradaTx(tx *gorm.DB, usuarioID uuid.UUID, tipo string, monto decimal.Decimal, descripcion string, fecha time.Time) (*model.HistorialGanancia, error)
	RegistrarAjuste(ctx context.Context, req dto.RegistrarAjusteRequest) (*dto.EntradaGananciaResponse, error)
	ObtenerSaldo(ctx context.Context, usuarioID uuid.UUID) (*dto.SaldoResponse, error)
	ObtenerHistorial(ctx context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) (*dto.HistorialResponse, error)
}

type gananciaService struct {
	repo repository.GananciaRepository
}

func NewGananciaService(repo repository.GananciaRepository) GananciaService {
	return &gananciaService{repo: repo}
}

var tiposEntrada = map[string]bool{
	model.EntradaVentaNormal:   true,
	model.EntradaVentaEspecial: true,
	model.EntradaAjuste:        true,
	model.EntradaBonus:         true,
}

func (s *gananciaService) RegistrarEntrada(ctx context.Context, usuarioID uuid.UUID, tipo string, monto decimal.Decimal, descripcion string) (decimal.Decimal, error) {
	var entrada *model.HistorialGanancia
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var txErr error
		entrada, txErr = s.RegistrarEntradaTx(tx, usuarioID, tipo, monto, descripcion, time.Now())
		return txErr
	})
	if err != nil {
		return decimal.Zero, err
	}
	return entrada.SaldoDespues, nil
}

func (s *gananciaService) RegistrarEntradaTx(tx *gorm.DB, usuarioID uuid.UUID, tipo string, monto decimal.Decimal, descripcion string, fecha time.Time) (*model.HistorialGanancia, error) {
	if !tiposEntrada[tipo] {
		return nil, fmt.Errorf("%w: tipo de entrada desconocido %q", apierror.ErrValidacion, tipo)
	}
	if descripcion == "" {
		return nil, fmt.Errorf("%w: descripcion requerida", apierror.ErrValidacion)
	}

	entrada := &model.HistorialGanancia{
		UsuarioID:   usuarioID,
		Tipo:        tipo,
		Monto:       monto,
		Fecha:       fecha,
		Descripcion: descripcion,
	}
	if err := s.repo.AppendTx(tx, entrada); err != nil {
		return nil, err
	}
	return entrada, nil
}

// RegistrarAjuste posts a manual signed correction (admin operation).
func (s *gananciaService) RegistrarAjuste(ctx context.Context, req dto.RegistrarAjusteRequest) (*dto.EntradaGananciaResponse, error) {
	usuarioID, err := uuid.Parse(req.UsuarioID)
	if err != nil {
		return nil, fmt.Errorf("%w: usuario_id invalido", apierror.ErrValidacion)
	}
	if req.Monto.IsZero() {
		return nil, fmt.Errorf("%w: el monto del ajuste no puede ser cero", apierror.ErrValidacion)
	}

	var entrada *model.HistorialGanancia
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var txErr error
		entrada, txErr = s.RegistrarEntradaTx(tx, usuarioID, model.EntradaAjuste, req.Monto, req.Descripcion, time.Now())
		return txErr
	})
	if err != nil {
		return nil, err
	}
	resp := entradaToResponse(entrada)
	return &resp, nil
}

func (s *gananciaService) ObtenerSaldo(ctx context.Context, usuarioID uuid.UUID) (*dto.SaldoResponse, error) {
	saldo, err := s.repo.Saldo(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	desglose, err := s.repo.DesglosePorTipo(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SaldoResponse{
		UsuarioID:     usuarioID.String(),
		SaldoTotal:    saldo.Saldo,
		PorTipo:       desglose,
		Transacciones: saldo.Secuencia,
	}
	if saldo.Secuencia > 0 {
		ultima := saldo.UpdatedAt.Format(time.RFC3339)
		resp.UltimaFecha = &ultima
	}
	return resp, nil
}

func (s *gananciaService) ObtenerHistorial(ctx context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) (*dto.HistorialResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	entradas, total, err := s.repo.Historial(ctx, usuarioID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EntradaGananciaResponse, 0, len(entradas))
	for i := range entradas {
		data = append(data, entradaToResponse(&entradas[i]))
	}
	return &dto.HistorialResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func entradaToResponse(e *model.HistorialGanancia) dto.EntradaGananciaResponse {
	return dto.EntradaGananciaResponse{
		ID:           e.ID.String(),
		Tipo:         e.Tipo,
		Monto:        e.Monto,
		SaldoDespues: e.SaldoDespues,
		Secuencia:    e.Secuencia,
		Fecha:        e.Fecha.Format(time.RFC3339),
		Descripcion:  e.Descripcion,
	}
}
