package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jhonidlcb/softwarepar/internal/adapter/middleware"
	notificationuc "github.com/jhonidlcb/softwarepar/internal/usecase/notification"
)

type NotificationHandler struct {
	uc  *notificationuc.Usecase
	log *zap.Logger
}

func NewNotificationHandler(uc *notificationuc.Usecase, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{uc: uc, log: log}
}

func (h *NotificationHandler) List(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	list, err := h.uc.List(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Identificador inválido"})
	}
	if err := h.uc.MarkRead(c.Request().Context(), id); err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
