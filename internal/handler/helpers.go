package handler

import (
	"errors"
	"net/http"
	"reflect"

	"essence/backend/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps the engine's sentinel kinds to HTTP statuses.
// Every rejection is all-or-nothing, so 409s are safe to retry whole.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apierror.ErrValidacion), errors.Is(err, apierror.ErrRangoFechasInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("no encontrado"))
	case errors.Is(err, apierror.ErrStockDepositoInsuficiente),
		errors.Is(err, apierror.ErrStockDistribuidorInsuficiente),
		errors.Is(err, apierror.ErrConflictoConcurrencia),
		errors.Is(err, apierror.ErrYaProcesado),
		errors.Is(err, apierror.ErrPeriodoYaEvaluado):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, apierror.ErrPeriodoSinVentas):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
