// Package apierror provides the standardized error envelope for the API
// boundary plus the engine's sentinel error kinds. All errors returned to
// clients go through this package to ensure consistency and to prevent
// leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Sentinel error kinds of the stock & earnings engine. Every rejection is
// all-or-nothing: when one of these comes back, no balance was touched.
var (
	// ErrValidacion: bad input, rejected before any mutation.
	ErrValidacion = errors.New("entrada invalida")

	// ErrStockDepositoInsuficiente: the warehouse pool cannot cover the
	// requested quantity at commit time.
	ErrStockDepositoInsuficiente = errors.New("stock de deposito insuficiente")

	// ErrStockDistribuidorInsuficiente: the distributor pool cannot cover
	// the requested quantity at commit time.
	ErrStockDistribuidorInsuficiente = errors.New("stock del distribuidor insuficiente")

	// ErrConflictoConcurrencia: a guarded update or lock acquisition lost a
	// race; the caller should retry the whole operation.
	ErrConflictoConcurrencia = errors.New("conflicto de concurrencia, reintente la operacion")

	// ErrYaProcesado: the entity already left the state the transition
	// needed (re-confirming a defect report, for example). Nothing mutated.
	ErrYaProcesado = errors.New("ya fue procesado")

	// ErrPeriodoYaEvaluado: the exact evaluation window was already
	// finalized; re-evaluation requires an explicit correction, never a
	// silent overwrite.
	ErrPeriodoYaEvaluado = errors.New("el periodo ya fue evaluado")

	// ErrRangoFechasInvalido: fecha de inicio posterior a la de fin.
	ErrRangoFechasInvalido = errors.New("rango de fechas invalido")

	// ErrPeriodoSinVentas: the window closed without a single sale, so
	// there is nothing to rank.
	ErrPeriodoSinVentas = errors.New("el periodo no registra ventas")
)
