// Package restserver serves the sieve analysis HTTP API.
package restserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/sieveanalysis/internal/gradation"
	"github.com/chrissnell/sieveanalysis/pkg/config"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 10 * time.Second
)

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	serverConfig   config.ServerData
	analysisConfig config.AnalysisData
	options        gradation.Options
	version        string
	Server         http.Server
	logger         *zap.SugaredLogger
	handlers       *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, version string, logger *zap.SugaredLogger) (*Controller, error) {
	sc, err := configProvider.GetServerConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading server configuration: %v", err)
	}

	ac, err := configProvider.GetAnalysisConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading analysis configuration: %v", err)
	}

	opts, err := ac.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid analysis configuration: %v", err)
	}

	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		serverConfig:   *sc,
		analysisConfig: *ac,
		options:        opts,
		version:        version,
		logger:         logger,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if ctrl.serverConfig.ListenAddr == "" {
		logger.Info("server.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		ctrl.serverConfig.ListenAddr = "0.0.0.0"
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.serverConfig.ListenAddr, ctrl.serverConfig.Port)
	ctrl.Server.Handler = ctrl.Handler()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.serverConfig.Cert != "" && c.serverConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.serverConfig.Cert, c.serverConfig.Key); err != http.ErrServerClosed {
				c.logger.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				c.logger.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()

	return nil
}

// Handler returns the full middleware chain around the router
func (c *Controller) Handler() http.Handler {
	var h http.Handler = c.setupRouter()

	if c.serverConfig.EnableCORS {
		h = handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(h)
	}

	h = handlers.CustomLoggingHandler(io.Discard, h, c.logRequest)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{c.logger}),
		handlers.PrintRecoveryStack(true),
	)(h)

	return h
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	// routes stay on the root router so a method mismatch reaches
	// MethodNotAllowedHandler; subrouters answer it with 404
	router.HandleFunc(apiPrefix+"/analyze", c.handlers.Analyze).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/sieves", c.handlers.GetSieves).Methods(http.MethodGet)

	router.HandleFunc("/healthz", c.handlers.Health).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(c.handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(c.handlers.MethodNotAllowed)

	return router
}

// logRequest writes one structured entry per request
func (c *Controller) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	c.logger.Infow("http request",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
		"duration", time.Since(p.TimeStamp),
		"remote_addr", p.Request.RemoteAddr,
		"user_agent", p.Request.UserAgent(),
	)
}

// recoveryLogger adapts zap to the gorilla recovery handler
type recoveryLogger struct {
	logger *zap.SugaredLogger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error(v...)
}
