package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jhonidlcb/softwarepar/internal/adapter/middleware"
	billinguc "github.com/jhonidlcb/softwarepar/internal/usecase/billing"
)

type BillingHandler struct {
	uc  *billinguc.Usecase
	log *zap.Logger
}

func NewBillingHandler(uc *billinguc.Usecase, log *zap.Logger) *BillingHandler {
	return &BillingHandler{uc: uc, log: log}
}

func (h *BillingHandler) Summary(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	dto, err := h.uc.Summary(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BillingHandler) Invoices(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	dtos, err := h.uc.Invoices(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *BillingHandler) DownloadInvoice(c echo.Context) error {
	return h.download(c, false)
}

func (h *BillingHandler) DownloadResimple(c echo.Context) error {
	return h.download(c, true)
}

func (h *BillingHandler) download(c echo.Context, resimple bool) error {
	stageID, err := pathID(c, "stageId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	actor := middleware.ActorFrom(c)
	filename, pdf, err := h.uc.StageInvoice(c.Request().Context(), actor.ID, actor.IsAdmin(), stageID, resimple)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ---- client billing info ----

func (h *BillingHandler) GetClientInfo(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	info, err := h.uc.GetClientInfo(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	if info == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "No se encontraron datos de facturación"})
	}
	return c.JSON(http.StatusOK, info)
}

func (h *BillingHandler) SaveClientInfo(c echo.Context) error {
	var req billinguc.ClientInfoInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Datos de facturación inválidos",
			Details: ToFieldErrors(err),
		})
	}
	actor := middleware.ActorFrom(c)
	info, err := h.uc.SaveClientInfo(c.Request().Context(), actor.ID, req)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, info)
}

func (h *BillingHandler) UpdateClientInfo(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	var req billinguc.ClientInfoInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Datos de facturación inválidos",
			Details: ToFieldErrors(err),
		})
	}
	actor := middleware.ActorFrom(c)
	info, err := h.uc.UpdateClientInfo(c.Request().Context(), id, actor.ID, req)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, info)
}

// ---- company billing info (admin) ----

func (h *BillingHandler) GetCompanyInfo(c echo.Context) error {
	info, err := h.uc.GetCompanyInfo(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	if info == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "No se encontraron datos de facturación de la empresa"})
	}
	return c.JSON(http.StatusOK, info)
}

func (h *BillingHandler) ReplaceCompanyInfo(c echo.Context) error {
	var req billinguc.CompanyInfoInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Datos de la empresa inválidos",
			Details: ToFieldErrors(err),
		})
	}
	info, err := h.uc.ReplaceCompanyInfo(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusCreated, info)
}

func (h *BillingHandler) UpdateCompanyInfo(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	var req billinguc.CompanyInfoInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
	}
	if req.CompanyName == "" || req.RUC == "" || req.Address == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Campos requeridos faltantes: companyName, ruc, address, city",
		})
	}
	info, err := h.uc.UpdateCompanyInfo(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, info)
}
