package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jhonidlcb/softwarepar/internal/adapter/middleware"
	stageDomain "github.com/jhonidlcb/softwarepar/internal/domain/stage"
	stageuc "github.com/jhonidlcb/softwarepar/internal/usecase/stage"
)

const maxProofSize = 10 << 20 // 10MB

var allowedProofTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
}

type StageHandler struct {
	uc  *stageuc.Usecase
	log *zap.Logger
}

func NewStageHandler(uc *stageuc.Usecase, log *zap.Logger) *StageHandler {
	return &StageHandler{uc: uc, log: log}
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

type createStagesReq struct {
	Stages []stageuc.StageInput `json:"stages" validate:"required,min=1,dive"`
}

func (h *StageHandler) Create(c echo.Context) error {
	projectID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	var req createStagesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Datos de etapas inválidos",
			Details: ToFieldErrors(err),
		})
	}
	dtos, err := h.uc.Create(c.Request().Context(), projectID, req.Stages)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusCreated, dtos)
}

// List serves both route shapes: the project-nested path and the flat
// /api/payment-stages?projectId= alias.
func (h *StageHandler) List(c echo.Context) error {
	var projectID uint64
	var err error
	if p := c.Param("id"); p != "" {
		projectID, err = strconv.ParseUint(p, 10, 64)
	} else {
		projectID, err = strconv.ParseUint(c.QueryParam("projectId"), 10, 64)
	}
	if err != nil || projectID == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador de proyecto inválido"})
	}
	actor := middleware.ActorFrom(c)
	dtos, err := h.uc.List(c.Request().Context(), actor.ID, actor.IsAdmin(), projectID)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *StageHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	var req stageuc.UpdateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Datos inválidos",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *StageHandler) Complete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	dto, err := h.uc.Complete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, dto)
}

type confirmJSONReq struct {
	PaymentMethod string                `json:"paymentMethod"`
	FileInfo      *stageDomain.FileInfo `json:"fileInfo"`
}

// ConfirmPayment accepts either multipart (proofFile binary plus
// paymentMethod) or JSON (paymentMethod plus descriptive fileInfo).
func (h *StageHandler) ConfirmPayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	actor := middleware.ActorFrom(c)

	var in stageuc.ConfirmInput
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		in.Method = strings.TrimSpace(c.FormValue("paymentMethod"))
		if fh, ferr := c.FormFile("proofFile"); ferr == nil && fh != nil {
			if fh.Size > maxProofSize {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "El archivo no debe superar los 10MB"})
			}
			ftype := fh.Header.Get("Content-Type")
			if !allowedProofTypes[ftype] {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Tipo de archivo no permitido"})
			}
			in.Upload = &stageDomain.FileInfo{FileName: fh.Filename, FileSize: fh.Size, FileType: ftype}
			in.OriginalFileName = fh.Filename
		}
		if raw := c.FormValue("proofFileInfo"); raw != "" && in.Upload == nil {
			var fi stageDomain.FileInfo
			if json.Unmarshal([]byte(raw), &fi) == nil {
				in.FileInfo = &fi
			}
		}
	} else {
		var req confirmJSONReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
		}
		in.Method = strings.TrimSpace(req.PaymentMethod)
		in.FileInfo = req.FileInfo
	}
	if in.Method == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Debe especificar el método de pago"})
	}

	dto, err := h.uc.Confirm(c.Request().Context(), actor.ID, actor.IsAdmin(), id, in)
	if err != nil {
		return respondError(c, h.log, err, "Esta etapa no está disponible para pago")
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *StageHandler) ApprovePayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	actor := middleware.ActorFrom(c)
	dto, err := h.uc.Approve(c.Request().Context(), actor.ID, id)
	if err != nil {
		return respondError(c, h.log, err, "Esta etapa no está pendiente de verificación")
	}
	return c.JSON(http.StatusOK, dto)
}

type rejectReq struct {
	Reason string `json:"reason"`
}

func (h *StageHandler) RejectPayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cuerpo de solicitud inválido"})
	}
	actor := middleware.ActorFrom(c)
	dto, err := h.uc.Reject(c.Request().Context(), actor.ID, id, req.Reason)
	if err != nil {
		return respondError(c, h.log, err, "Esta etapa no está pendiente de verificación")
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *StageHandler) ReceiptFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	actor := middleware.ActorFrom(c)
	info, err := h.uc.ProofInfo(c.Request().Context(), actor.ID, actor.IsAdmin(), id)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, info)
}
