package http

import (
	"github.com/labstack/echo/v4"

	"github.com/jhonidlcb/softwarepar/internal/adapter/middleware"
	"github.com/jhonidlcb/softwarepar/internal/domain/user"
)

// Deps bundles everything route registration needs. Identity resolves
// the session into an actor; Idempotency (optional) guards the payment
// mutations against client retries.
type Deps struct {
	Health        *Handler
	Stages        *StageHandler
	Exchange      *ExchangeHandler
	Billing       *BillingHandler
	Notifications *NotificationHandler

	WS echo.HandlerFunc

	Identity    echo.MiddlewareFunc
	Idempotency echo.MiddlewareFunc
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/api/health", d.Health.Health)
	// Rate is public: the marketing site shows prices in guaraníes.
	e.GET("/api/exchange-rate", d.Exchange.Current)
	if d.WS != nil {
		// Auth happens in-protocol (first message), not at upgrade time.
		e.GET("/ws", d.WS)
	}

	api := e.Group("/api", d.Identity)
	admin := middleware.RequireRole(user.RoleAdmin)

	idem := d.Idempotency
	if idem == nil {
		idem = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	api.GET("/admin/exchange-rate", d.Exchange.Current, admin)
	api.PUT("/admin/exchange-rate", d.Exchange.Update, admin)

	api.POST("/projects/:id/payment-stages", d.Stages.Create, admin)
	api.GET("/projects/:id/payment-stages", d.Stages.List)
	api.GET("/payment-stages", d.Stages.List)
	api.PATCH("/payment-stages/:id", d.Stages.Update, admin)
	api.POST("/payment-stages/:id/complete", d.Stages.Complete, admin)
	api.POST("/payment-stages/:id/confirm-payment", d.Stages.ConfirmPayment, idem)
	api.POST("/payment-stages/:id/approve-payment", d.Stages.ApprovePayment, admin, idem)
	api.POST("/payment-stages/:id/reject-payment", d.Stages.RejectPayment, admin, idem)
	api.GET("/payment-stages/:id/receipt-file", d.Stages.ReceiptFile)

	api.GET("/client/billing", d.Billing.Summary)
	api.GET("/client/invoices", d.Billing.Invoices)
	api.GET("/client/stage-invoices/:stageId/download", d.Billing.DownloadInvoice)
	api.GET("/client/stage-invoices/:stageId/download-resimple", d.Billing.DownloadResimple)
	api.GET("/client/billing-info", d.Billing.GetClientInfo)
	api.POST("/client/billing-info", d.Billing.SaveClientInfo)
	api.PUT("/client/billing-info/:id", d.Billing.UpdateClientInfo)

	api.GET("/admin/company-billing-info", d.Billing.GetCompanyInfo, admin)
	api.POST("/admin/company-billing-info", d.Billing.ReplaceCompanyInfo, admin)
	api.PUT("/admin/company-billing-info/:id", d.Billing.UpdateCompanyInfo, admin)

	api.GET("/notifications", d.Notifications.List)
	api.PUT("/notifications/:id/read", d.Notifications.MarkRead)
}
