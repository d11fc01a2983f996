package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gestionale/internal/config"
	"github.com/smallbiznis/gestionale/internal/crm"
	"github.com/smallbiznis/gestionale/internal/invoiceimport"
	invoiceimportdomain "github.com/smallbiznis/gestionale/internal/invoiceimport/domain"
	"github.com/smallbiznis/gestionale/internal/observability"
	obsmiddleware "github.com/smallbiznis/gestionale/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gestionale/internal/observability/metrics"
	obstracing "github.com/smallbiznis/gestionale/internal/observability/tracing"
	"github.com/smallbiznis/gestionale/internal/providers/email"
	"github.com/smallbiznis/gestionale/internal/quoteemail"
	quoteemaildomain "github.com/smallbiznis/gestionale/internal/quoteemail/domain"
	"github.com/smallbiznis/gestionale/internal/ratelimit"
	"github.com/smallbiznis/gestionale/internal/registry"
	"github.com/smallbiznis/gestionale/internal/snapshot"
	snapshotdomain "github.com/smallbiznis/gestionale/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	registry.Module,
	crm.Module,
	snapshot.Module,
	invoiceimport.Module,
	email.Module,
	quoteemail.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	semantic   registry.SemanticRegistry
	capability registry.CapabilityRegistry

	snapshotSvc      snapshotdomain.Service
	invoiceImportSvc invoiceimportdomain.Service
	quoteEmailSvc    quoteemaildomain.Service

	limiter    *ratelimit.Limiter
	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Semantic   registry.SemanticRegistry
	Capability registry.CapabilityRegistry

	SnapshotSvc      snapshotdomain.Service
	InvoiceImportSvc invoiceimportdomain.Service
	QuoteEmailSvc    quoteemaildomain.Service

	Limiter    *ratelimit.Limiter  `optional:"true"`
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		log:              p.Log.Named("http.server"),
		semantic:         p.Semantic,
		capability:       p.Capability,
		snapshotSvc:      p.SnapshotSvc,
		invoiceImportSvc: p.InvoiceImportSvc,
		quoteEmailSvc:    p.QuoteEmailSvc,
		limiter:          p.Limiter,
		obsMetrics:       p.ObsMetrics,
	}
	if p.Cfg.APIToken == "" {
		s.log.Warn("API_TOKEN not set, every /api request will be rejected")
	}

	s.registerAPIRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.BearerTokenRequired())

	// -------- CRM read context --------
	api.GET("/crm/snapshot", s.RateLimit(rateLimitSnapshot), s.GetCrmSnapshot)
	api.GET("/crm/registries", s.GetRegistries)

	// -------- Invoice import --------
	api.POST("/invoice-import/validate", s.ValidateInvoiceImport)
	api.POST("/invoice-import/confirm", s.RateLimit(rateLimitConfirm), s.ConfirmInvoiceImport)

	// -------- Quote status emails --------
	api.GET("/quote-email/templates", s.ListQuoteEmailTemplates)
	api.GET("/quotes/:id/status-email", s.PreviewQuoteStatusEmail)
	api.POST("/quotes/:id/status-email/send", s.SendQuoteStatusEmail)
}
