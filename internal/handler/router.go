package handler

import (
	_ "invoicebook/api/swagger" // swagger docs
	"invoicebook/internal/middleware"
	"invoicebook/internal/service"
	"invoicebook/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterDeps are the collaborators the HTTP surface is assembled from.
type RouterDeps struct {
	InvoiceService service.InvoiceService
	AuditService   service.AuditService
	Hub            *websocket.Hub // optional
	CORSOrigins    []string
	Log            zerolog.Logger
}

// NewRouter wires middleware and every route of the API.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Log))

	corsConfig := cors.DefaultConfig()
	if len(deps.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = deps.CORSOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", Health)

	if deps.Hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			websocket.ServeWs(deps.Hub, c)
		})
	}

	NewInvoiceHandler(deps.InvoiceService, deps.Log).RegisterRoutes(router.Group(""))
	NewAuditHandler(deps.AuditService, deps.Log).RegisterRoutes(router.Group(""))

	return router
}
