package main

import (
	"os"

	"invoicebook/internal/config"
	"invoicebook/internal/database"
	"invoicebook/internal/handler"
	"invoicebook/internal/logger"
	"invoicebook/internal/repository"
	"invoicebook/internal/service"
	"invoicebook/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title           Invoice Bookkeeping API
// @version         1.0
// @description     Create, edit, search and total invoice records.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Debug().Msg("No configs/.env file found or error loading it")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatal().Err(err).Msg("Logger setup failed")
	}
	appLog := logger.WithComponent("api")

	db, err := database.NewConnection(cfg.DBDriver, cfg.DSN(), logger.WithComponent("database"))
	if err != nil {
		appLog.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Database connection failed")
	}
	appLog.Info().Str("driver", cfg.DBDriver).Msg("Connected to database")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(cfg.CORSOrigins, logger.WithComponent("websocket"))
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	invoiceService := service.NewInvoiceService(invoiceRepo, auditRepo, txManager, wsHub, service.WithListLimit(cfg.ListLimit))
	auditService := service.NewAuditService(auditRepo, invoiceRepo)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
	router := handler.NewRouter(handler.RouterDeps{
		InvoiceService: invoiceService,
		AuditService:   auditService,
		Hub:            wsHub,
		CORSOrigins:    cfg.CORSOrigins,
		Log:            logger.WithComponent("http"),
	})

	appLog.Info().Str("port", cfg.Port).Msg("Server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		appLog.Fatal().Err(err).Msg("Server failed")
	}
}
