// Package http provides the HTTP API of the isnad engine.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanadworks/isnad/internal/adjudication"
	"github.com/sanadworks/isnad/internal/audit"
	"github.com/sanadworks/isnad/internal/config"
	"github.com/sanadworks/isnad/internal/debate"
	"github.com/sanadworks/isnad/internal/evidence"
	"github.com/sanadworks/isnad/internal/logging"
	"github.com/sanadworks/isnad/internal/validate"
)

// Server exposes adjudication runs over HTTP.
type Server struct {
	echo         *echo.Echo
	orchestrator *adjudication.Orchestrator
	evaluator    *debate.Evaluator
	log          *logging.Logger
	cfg          config.ServerConfig
}

// AdjudicateRequest is the body of POST /v1/adjudicate.
type AdjudicateRequest struct {
	DealID        string           `json:"deal_id"`
	TenantID      string           `json:"tenant_id"`
	AgentIDs      []string         `json:"agent_ids"`
	Claims        []evidence.Claim `json:"claims,omitempty"`
	CalcIDs       []string         `json:"calc_ids,omitempty"`
	EnrichmentIDs []string         `json:"enrichment_ids,omitempty"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer creates the API server over the given orchestrator and
// debate stop evaluator.
func NewServer(orchestrator *adjudication.Orchestrator, evaluator *debate.Evaluator, log *logging.Logger, cfg config.ServerConfig, gatherer prometheus.Gatherer) (*Server, error) {
	if orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("debate evaluator is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			log.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:         e,
		orchestrator: orchestrator,
		evaluator:    evaluator,
		log:          log,
		cfg:          cfg,
	}

	e.POST("/v1/adjudicate", s.handleAdjudicate)
	e.POST("/v1/debate/evaluate", s.handleDebateEvaluate)
	e.GET("/healthz", s.handleHealth)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return s, nil
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.cfg.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.WriteTimeout
	return s.echo.Start(s.cfg.Addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleAdjudicate(c echo.Context) error {
	var req AdjudicateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
	}

	claimIDs := make([]string, 0, len(req.Claims))
	for _, claim := range req.Claims {
		claimIDs = append(claimIDs, claim.ID)
	}

	rc := adjudication.RunContext{
		DealID:     req.DealID,
		TenantID:   req.TenantID,
		AgentIDs:   req.AgentIDs,
		Registries: validate.NewRegistries(claimIDs, req.CalcIDs, req.EnrichmentIDs),
		Claims:     req.Claims,
	}

	bundle, err := s.orchestrator.Run(c.Request().Context(), rc)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, bundle)
}

func (s *Server) handleDebateEvaluate(c echo.Context) error {
	var state debate.State
	if err := c.Bind(&state); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
	}

	decision, err := s.evaluator.Evaluate(&state)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, decision)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps run failures to HTTP statuses. Audit-channel loss is a
// server-side failure; everything the caller got wrong is a 4xx.
func statusFor(err error) int {
	switch {
	case errors.Is(err, audit.ErrSinkFailure):
		return http.StatusInternalServerError
	case errors.Is(err, adjudication.ErrUnknownAgent):
		return http.StatusBadRequest
	case errors.Is(err, adjudication.ErrDeliverableBlocked):
		return http.StatusConflict
	}
	return http.StatusUnprocessableEntity
}
