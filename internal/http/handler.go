package http

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/phoenix-quoter/internal/config"
	"github.com/hxuan190/phoenix-quoter/internal/http/httputil"
	"github.com/hxuan190/phoenix-quoter/internal/http/middlewares"
	"github.com/hxuan190/phoenix-quoter/internal/services"
	"github.com/hxuan190/phoenix-quoter/internal/services/ingest"
)

const (
	API_VERSION  = "v1"
	HTTP_SERVICE = "http-service"
)

type HTTPService struct {
	container.BaseDIInstance

	ingestSvc   *ingest.Service
	rateLimiter *middlewares.RateLimiter
	server      *gohttp.Server
	conf        *config.GeneralConfig
	log         *services.ServiceLogger

	handlers []httputil.IHttpHandler
}

func (svc *HTTPService) ID() string {
	return HTTP_SERVICE
}

func (svc *HTTPService) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.GENERAL_CONFIG_KEY).(*config.GeneralConfig)
	if svc.conf == nil {
		return errors.New("invalid server config")
	}

	svc.ingestSvc = c.Instance(ingest.INGEST_SERVICE).(*ingest.Service)
	svc.rateLimiter = middlewares.NewRateLimiter(10, 20)
	svc.log = services.NewServiceLogger(svc)

	registry := svc.ingestSvc.Registry()
	svc.handlers = []httputil.IHttpHandler{
		NewQuoteHandler(registry),
		NewMarketHandler(registry),
		NewSwapHandler(registry),
	}
	return nil
}

func (svc *HTTPService) Start() error {
	r := gin.Default()
	r.Use(gin.Recovery())

	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	corsConf.AllowCredentials = true
	r.Use(cors.New(corsConf))

	r.Use(middlewares.MetricsMiddleware())
	r.Use(svc.rateLimiter.RateLimitMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(gohttp.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("api")
	pub := api.Group(API_VERSION)
	admin := api.Group(fmt.Sprintf("%s/admin", API_VERSION))

	svc.setupHandlers(pub, admin)

	svc.server = &gohttp.Server{
		Addr:    svc.conf.HTTPHost + ":" + svc.conf.HTTPPort,
		Handler: r,
	}
	svc.log.Info().Str("host", svc.conf.HTTPHost).Str("port", svc.conf.HTTPPort).Msg("http server started")

	if err := svc.server.ListenAndServe(); err != nil && err != gohttp.ErrServerClosed {
		return err
	}

	return nil
}

func (svc *HTTPService) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.server.Shutdown(ctx); err != nil {
		svc.log.Error().Err(err).Msg("failed to stop http server")
		return err
	}
	svc.log.Info().Msg("http server stopped gracefully")
	return nil
}

func (svc *HTTPService) setupHandlers(rootPub *gin.RouterGroup, rootAdmin *gin.RouterGroup) {
	for _, h := range svc.handlers {
		pub := rootPub.Group(h.Root())
		admin := rootAdmin.Group(h.Root())
		h.SetRoutes(pub, admin)
	}
}
