package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jhonidlcb/softwarepar/internal/adapter/middleware"
	exchangeuc "github.com/jhonidlcb/softwarepar/internal/usecase/exchange"
)

type ExchangeHandler struct {
	uc  *exchangeuc.Usecase
	log *zap.Logger
}

func NewExchangeHandler(uc *exchangeuc.Usecase, log *zap.Logger) *ExchangeHandler {
	return &ExchangeHandler{uc: uc, log: log}
}

func (h *ExchangeHandler) Current(c echo.Context) error {
	dto, err := h.uc.Current(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, dto)
}

type updateRateReq struct {
	UsdToGuarani string `json:"usdToGuarani" validate:"required"`
}

func (h *ExchangeHandler) Update(c echo.Context) error {
	var req updateRateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Datos inválidos",
			Details: ToFieldErrors(err),
		})
	}
	actor := middleware.ActorFrom(c)
	dto, err := h.uc.Update(c.Request().Context(), actor.ID, req.UsdToGuarani)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, dto)
}
