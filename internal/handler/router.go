package handler

import (
	"time"

	sharedMiddleware "pentacore/shared/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

const defaultAllowedOrigin = "http://localhost:3000"

// RouterOptions - настройки HTTP слоя, не относящиеся к обработчикам.
type RouterOptions struct {
	AllowedOrigins   []string
	MetricsSubsystem string // Префикс метрик go-gin-prometheus, по умолчанию "gin"
}

// NewRouter собирает gin.Engine: логирование, Recovery, метрики, CORS и маршруты.
// Middleware подключаются до регистрации маршрутов: gin фиксирует цепочку
// обработчиков в момент добавления маршрута.
func NewRouter(h *GenerationHandler, opts RouterOptions, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(sharedMiddleware.ZapLoggingMiddlewareForGin(logger))
	router.Use(gin.Recovery())

	subsystem := opts.MetricsSubsystem
	if subsystem == "" {
		subsystem = "gin"
	}
	p := ginprometheus.NewPrometheus(subsystem)
	p.Use(router)

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{defaultAllowedOrigin}
		logger.Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", defaultAllowedOrigin))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", sharedMiddleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", sharedMiddleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	h.RegisterRoutes(router)
	return router
}
