// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the aggregator over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/preslop/preslop/internal/aggregate"
	"github.com/preslop/preslop/internal/provider"
)

// Server wires the aggregator into an echo instance.
type Server struct {
	e         *echo.Echo
	agg       *aggregate.Aggregator
	providers []provider.Provider
	version   string
	log       *zap.Logger
}

// New builds the HTTP server with routes and middleware registered.
func New(agg *aggregate.Aggregator, providers []provider.Provider, version string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = errorHandler(log)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	s := &Server{e: e, agg: agg, providers: providers, version: version, log: log}

	e.GET("/", s.status)
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.GET("/search", s.search)
	v1.POST("/search", s.search)
	v1.GET("/surprise", s.surprise)

	return s
}

// Start begins serving on addr and blocks until shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("http server listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// ServeHTTP lets tests drive the full middleware and routing stack.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

type searchRequest struct {
	Query       string `json:"query" query:"q"`
	ContentType string `json:"content_type" query:"content_type"`
}

type statusResponse struct {
	Service   string          `json:"service"`
	Version   string          `json:"version"`
	Providers map[string]bool `json:"providers"`
}

func (s *Server) status(c echo.Context) error {
	avail := make(map[string]bool, len(s.providers))
	for _, p := range s.providers {
		avail[p.Name()] = p.Available()
	}
	return c.JSON(http.StatusOK, statusResponse{
		Service:   "preslop",
		Version:   s.version,
		Providers: avail,
	})
}

func (s *Server) search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	filter, err := aggregate.ParseContentFilter(req.ContentType)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	set, err := s.agg.Search(c.Request().Context(), req.Query, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, set)
}

func (s *Server) surprise(c echo.Context) error {
	set, err := s.agg.Surprise(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, set)
}

// errorHandler renders every failure as a JSON envelope and logs it.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		log.Warn("request failed",
			zap.Int("status", code),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}
}
