// Package httpapi exposes the translation pipeline over REST: document
// translation, background jobs, translation-memory maintenance, and
// stored record review.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"glot.fit/lingocart/internal/auth"
	"glot.fit/lingocart/internal/format"
	"glot.fit/lingocart/internal/memory"
	"glot.fit/lingocart/internal/pipeline"
	"glot.fit/lingocart/internal/store"
	"glot.fit/lingocart/internal/translation"
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// AdminUser/AdminPasswordHash guard the mutating memory endpoints.
	// Empty hash disables auth (local development).
	AdminUser         string
	AdminPasswordHash string
}

type Server struct {
	orchestrator *pipeline.Orchestrator
	formats      *format.Registry
	providers    *translation.Registry
	memory       memory.Memory
	records      *store.Store // optional; nil disables record endpoints
	logger       zerolog.Logger
	opts         Options

	jobsMu sync.RWMutex
	jobs   map[string]*pipeline.Job
}

func NewServer(
	orchestrator *pipeline.Orchestrator,
	formats *format.Registry,
	providers *translation.Registry,
	mem memory.Memory,
	records *store.Store,
	logger zerolog.Logger,
	opts Options,
) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8870
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 60 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		orchestrator: orchestrator,
		formats:      formats,
		providers:    providers,
		memory:       mem,
		records:      records,
		logger:       logger,
		opts: Options{
			Host:              host,
			Port:              port,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			ShutdownTimeout:   shutdownTimeout,
			AdminUser:         opts.AdminUser,
			AdminPasswordHash: opts.AdminPasswordHash,
		},
		jobs: make(map[string]*pipeline.Job),
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.orchestrator == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()

	e.Server.ReadTimeout = s.opts.ReadTimeout
	e.Server.WriteTimeout = s.opts.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
		s.logger.Info().Str("addr", addr).Msg("http api listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// buildEcho wires middleware and routes; split out so handler tests
// can exercise the router without binding a socket.
func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/languages", s.handleLanguages)
	e.POST("/v1/documents/detect", s.handleDetect)
	e.POST("/v1/documents/extract", s.handleExtract)
	e.POST("/v1/documents/translate", s.handleTranslateDocument)
	e.POST("/v1/texts/translate", s.handleTranslateTexts)
	e.POST("/v1/jobs", s.handleStartJob)
	e.GET("/v1/jobs/:id", s.handleJobStatus)
	e.POST("/v1/jobs/:id/cancel", s.handleCancelJob)
	e.POST("/v1/jobs/:id/approve", s.handleApproveJob)

	e.GET("/v1/memory/stats", s.handleMemoryStats)
	e.GET("/v1/memory/export", s.handleMemoryExport)

	admin := e.Group("", s.requireAdmin())
	admin.POST("/v1/memory/import", s.handleMemoryImport)
	admin.DELETE("/v1/memory", s.handleMemoryClear)

	if s.records != nil {
		e.GET("/v1/records", s.handleListRecords)
		e.GET("/v1/records/:uuid", s.handleGetRecord)
		e.GET("/v1/records/:uuid/preview", s.handleRecordPreview)
		e.POST("/v1/records/:uuid/status", s.handleUpdateRecordStatus)
	}

	return e
}

// requireAdmin enforces basic auth against the configured admin
// credentials. With no password hash configured the check is skipped.
func (s *Server) requireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.TrimSpace(s.opts.AdminPasswordHash) == "" {
				return next(c)
			}
			username, password, ok := c.Request().BasicAuth()
			if !ok ||
				auth.NormalizeUsername(username) != auth.NormalizeUsername(s.opts.AdminUser) ||
				!auth.VerifyPassword(password, s.opts.AdminPasswordHash) {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="lingocart"`)
				return fail(c, http.StatusUnauthorized, "Authentication required", nil)
			}
			return next(c)
		}
	}
}

func (s *Server) rememberJob(job *pipeline.Job) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	s.jobs[job.ID] = job
}

func (s *Server) jobByID(id string) (*pipeline.Job, bool) {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}
