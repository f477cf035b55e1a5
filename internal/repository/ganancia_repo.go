package repository

import (
	"context"
	"errors"
	"time"

	"essence/backend/internal/dto"
	"essence/backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GananciaRepository is the append-only earnings ledger. AppendTx is the
// single write path: it locks the user's SaldoUsuario row FOR UPDATE,
// derives SaldoDespues and Secuencia from it, and inserts the entry — the
// row lock serializes concurrent appends per account, which is what keeps
// the running-balance chain intact under concurrent sales.
type GananciaRepository interface {
	// AppendTx fills entrada.SaldoDespues and entrada.Secuencia before
	// inserting. Must run inside the caller's transaction.
	AppendTx(tx *gorm.DB, entrada *model.HistorialGanancia) error
	Saldo(ctx context.Context, usuarioID uuid.UUID) (*model.SaldoUsuario, error)
	DesglosePorTipo(ctx context.Context, usuarioID uuid.UUID) (map[string]decimal.Decimal, error)
	// Historial returns entries in append (secuencia) order — never
	// re-sorted by the caller-supplied date, so page contents always agree
	// with the SaldoDespues chain.
	Historial(ctx context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) ([]model.HistorialGanancia, int64, error)
	DB() *gorm.DB
}

type gananciaRepo struct{ db *gorm.DB }

func NewGananciaRepository(db *gorm.DB) GananciaRepository { return &gananciaRepo{db: db} }

func (r *gananciaRepo) AppendTx(tx *gorm.DB, entrada *model.HistorialGanancia) error {
	// Ensure the pointer row exists, then lock it. The DoNothing insert is
	// race-safe: two concurrent first-posts collide on the PK and both
	// proceed to the lock.
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SaldoUsuario{UsuarioID: entrada.UsuarioID, Saldo: decimal.Zero}).Error; err != nil {
		return err
	}

	var saldo model.SaldoUsuario
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&saldo, "usuario_id = ?", entrada.UsuarioID).Error; err != nil {
		return err
	}

	entrada.Secuencia = saldo.Secuencia + 1
	entrada.SaldoDespues = saldo.Saldo.Add(entrada.Monto)
	if entrada.Fecha.IsZero() {
		entrada.Fecha = time.Now()
	}
	if err := tx.Create(entrada).Error; err != nil {
		return err
	}

	return tx.Model(&model.SaldoUsuario{}).
		Where("usuario_id = ?", entrada.UsuarioID).
		Updates(map[string]interface{}{
			"saldo":     entrada.SaldoDespues,
			"secuencia": entrada.Secuencia,
		}).Error
}

func (r *gananciaRepo) Saldo(ctx context.Context, usuarioID uuid.UUID) (*model.SaldoUsuario, error) {
	var saldo model.SaldoUsuario
	err := r.db.WithContext(ctx).First(&saldo, "usuario_id = ?", usuarioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No entries yet — a zero balance, not an error.
		return &model.SaldoUsuario{UsuarioID: usuarioID, Saldo: decimal.Zero}, nil
	}
	return &saldo, err
}

func (r *gananciaRepo) DesglosePorTipo(ctx context.Context, usuarioID uuid.UUID) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Tipo  string
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.HistorialGanancia{}).
		Select("tipo, SUM(monto) AS total").
		Where("usuario_id = ?", usuarioID).
		Group("tipo").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	desglose := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		desglose[row.Tipo] = row.Total
	}
	return desglose, nil
}

func (r *gananciaRepo) Historial(ctx context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) ([]model.HistorialGanancia, int64, error) {
	var entradas []model.HistorialGanancia
	var total int64

	q := r.db.WithContext(ctx).Model(&model.HistorialGanancia{}).Where("usuario_id = ?", usuarioID)
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Desde != nil {
		q = q.Where("fecha >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("fecha < ?", *filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("secuencia ASC").Limit(filter.Limit).Offset(offset).Find(&entradas).Error
	return entradas, total, err
}

func (r *gananciaRepo) DB() *gorm.DB { return r.db }
