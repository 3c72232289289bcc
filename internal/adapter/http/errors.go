package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	exchangeDomain "github.com/jhonidlcb/softwarepar/internal/domain/exchange"
	projectDomain "github.com/jhonidlcb/softwarepar/internal/domain/project"
	stageDomain "github.com/jhonidlcb/softwarepar/internal/domain/stage"
	userDomain "github.com/jhonidlcb/softwarepar/internal/domain/user"
	billinguc "github.com/jhonidlcb/softwarepar/internal/usecase/billing"
	stageuc "github.com/jhonidlcb/softwarepar/internal/usecase/stage"
)

// respondError maps domain sentinels to statuses and the Spanish
// messages clients display. transitionMsg overrides the generic
// invalid-transition text, since the right wording depends on the
// operation (confirm vs approve/reject). Unknown errors are logged and
// redacted.
func respondError(c echo.Context, log *zap.Logger, err error, transitionMsg string) error {
	switch {
	case errors.Is(err, stageDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Etapa no encontrada"})
	case errors.Is(err, projectDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Proyecto no encontrado"})
	case errors.Is(err, userDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Usuario no encontrado"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Recurso no encontrado"})
	case errors.Is(err, stageDomain.ErrInvalidTransition):
		if transitionMsg == "" {
			transitionMsg = "Transición de estado no permitida"
		}
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: transitionMsg})
	case errors.Is(err, stageDomain.ErrReasonRequired):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Debe proporcionar un motivo de rechazo"})
	case errors.Is(err, stageuc.ErrForbidden), errors.Is(err, billinguc.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Message: "No autorizado"})
	case errors.Is(err, stageuc.ErrNoProof):
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "Comprobante no encontrado"})
	case errors.Is(err, billinguc.ErrNotPaid):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "La etapa debe estar pagada para generar la factura"})
	case errors.Is(err, exchangeDomain.ErrInvalidRate):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Tasa de cambio inválida"})
	default:
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Error interno del servidor"})
	}
}
