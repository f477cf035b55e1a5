package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodoDiario     = "daily"
	PeriodoSemanal    = "weekly"
	PeriodoQuincenal  = "biweekly"
	PeriodoMensual    = "monthly"
	PeriodoCustom     = "custom"
)

// MetaVenta is one sales-target level: reaching MontoMinimo in a period
// grants the badge (and optional extra bonus) for that level.
type MetaVenta struct {
	Nivel       string          `json:"nivel"`
	MontoMinimo decimal.Decimal `json:"monto_minimo"`
	Bonus       decimal.Decimal `json:"bonus"`
	Insignia    string          `json:"insignia"`
}

// MetasVenta is stored as a jsonb column.
type MetasVenta []MetaVenta

func (m MetasVenta) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *MetasVenta) Scan(value interface{}) error {
	if value == nil {
		*m = MetasVenta{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("metas_venta: unsupported column type")
	}
	return json.Unmarshal(raw, m)
}

// ConfigGamificacion is the admin-mutable singleton read by the ranking
// evaluation and the commission resolver. ComisionBase is the default
// percentage every distributor earns; ComisionTop1..3 are the percentage
// points added while the distributor holds that position from the most
// recent evaluation.
type ConfigGamificacion struct {
	ID                 int    `gorm:"primaryKey"` // always 1
	PeriodoEvaluacion  string `gorm:"not null;default:'weekly'"` // daily | weekly | biweekly | monthly | custom
	DiasPersonalizado  int    `gorm:"not null;default:7"`        // only for "custom"
	BonusPrimerPuesto  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BonusSegundoPuesto decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BonusTercerPuesto  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PuntosPorVenta     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PuntosPorPeso      decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	ComisionBase       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:20"`
	ComisionTop1       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:5"`
	ComisionTop2       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:3"`
	ComisionTop3       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:2"`
	MetasVenta         MetasVenta      `gorm:"type:jsonb;default:'[]'"`
	UpdatedAt          time.Time
}

// TableName keeps the singleton in its own clearly-named table.
func (ConfigGamificacion) TableName() string { return "config_gamificacion" }

// DuracionPeriodo returns the evaluation window length in days.
func (c *ConfigGamificacion) DuracionPeriodo() int {
	switch c.PeriodoEvaluacion {
	case PeriodoDiario:
		return 1
	case PeriodoSemanal:
		return 7
	case PeriodoQuincenal:
		return 14
	case PeriodoMensual:
		return 30
	case PeriodoCustom:
		if c.DiasPersonalizado > 0 {
			return c.DiasPersonalizado
		}
		return 7
	default:
		return 7
	}
}

// BonusPorPosicion returns the money bonus configured for positions 1..3,
// zero for anything else.
func (c *ConfigGamificacion) BonusPorPosicion(posicion int) decimal.Decimal {
	switch posicion {
	case 1:
		return c.BonusPrimerPuesto
	case 2:
		return c.BonusSegundoPuesto
	case 3:
		return c.BonusTercerPuesto
	default:
		return decimal.Zero
	}
}

// ComisionPorPosicion returns base + the percentage-point adder for
// positions 1..3, or just the base rate otherwise.
func (c *ConfigGamificacion) ComisionPorPosicion(posicion int) decimal.Decimal {
	switch posicion {
	case 1:
		return c.ComisionBase.Add(c.ComisionTop1)
	case 2:
		return c.ComisionBase.Add(c.ComisionTop2)
	case 3:
		return c.ComisionBase.Add(c.ComisionTop3)
	default:
		return c.ComisionBase
	}
}
