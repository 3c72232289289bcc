package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "github.com/jhonidlcb/softwarepar/internal/adapter/http"
	"github.com/jhonidlcb/softwarepar/internal/adapter/middleware"
	"github.com/jhonidlcb/softwarepar/internal/adapter/repository/mysql"
	"github.com/jhonidlcb/softwarepar/internal/config"
	"github.com/jhonidlcb/softwarepar/internal/infrastructure/cache"
	"github.com/jhonidlcb/softwarepar/internal/infrastructure/db"
	"github.com/jhonidlcb/softwarepar/internal/notify"
	billinguc "github.com/jhonidlcb/softwarepar/internal/usecase/billing"
	exchangeuc "github.com/jhonidlcb/softwarepar/internal/usecase/exchange"
	notificationuc "github.com/jhonidlcb/softwarepar/internal/usecase/notification"
	stageuc "github.com/jhonidlcb/softwarepar/internal/usecase/stage"
	"github.com/jhonidlcb/softwarepar/internal/ws"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.IsDevelopment())
	if err != nil {
		logger.Fatal("mysql connect failed", zap.Error(err))
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}

	// repositories
	stageRepo := mysql.NewStageRepository(gdb)
	projectRepo := mysql.NewProjectRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	exchangeRepo := mysql.NewExchangeRepository(gdb)
	invoiceRepo := mysql.NewInvoiceRepository(gdb)
	clientInfoRepo := mysql.NewClientInfoRepository(gdb)
	companyInfoRepo := mysql.NewCompanyInfoRepository(gdb)
	notifRepo := mysql.NewNotificationRepository(gdb)
	txManager := mysql.NewGormUoW(gdb)

	// live channel + notification fan-out
	hub := ws.NewHub(logger)
	done := make(chan struct{})
	defer close(done)
	go hub.RunPinger(done)

	var mailer notify.Mailer
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		logger.Warn("SMTP not configured, emails disabled")
	}
	dispatcher := notify.NewDispatcher(notifRepo, mailer, hub, logger)

	// usecases
	stageUC := stageuc.NewUsecase(stageRepo, projectRepo, userRepo, txManager, dispatcher, logger)
	exchangeUC := exchangeuc.NewUsecase(exchangeRepo, rdb, logger)
	billingUC := billinguc.NewUsecase(invoiceRepo, clientInfoRepo, companyInfoRepo,
		stageRepo, projectRepo, userRepo, exchangeUC, logger)
	billingUC.LogoPath = cfg.LogoPath
	notificationUC := notificationuc.NewUsecase(notifRepo)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	httpadp.RegisterRoutes(e, httpadp.Deps{
		Health:        httpadp.NewHandler(),
		Stages:        httpadp.NewStageHandler(stageUC, logger),
		Exchange:      httpadp.NewExchangeHandler(exchangeUC, logger),
		Billing:       httpadp.NewBillingHandler(billingUC, logger),
		Notifications: httpadp.NewNotificationHandler(notificationUC, logger),
		WS:            hub.Handler,
		Identity:      middleware.Identity(middleware.HeaderResolver()),
		Idempotency:   middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger),
	})

	addr := ":" + cfg.AppPort
	logger.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
