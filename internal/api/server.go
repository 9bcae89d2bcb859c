// Copyright (c) 2026 Vision. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/vision/internal/catalog/attribute"
	"github.com/taibuivan/vision/internal/catalog/family"
	"github.com/taibuivan/vision/internal/catalog/product"
	"github.com/taibuivan/vision/internal/catalog/productmodel"
	"github.com/taibuivan/vision/internal/catalog/value"
	"github.com/taibuivan/vision/internal/platform/config"
	"github.com/taibuivan/vision/internal/platform/constants"
	"github.com/taibuivan/vision/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Attribute handles attribute definitions and their options.
	Attribute *attribute.Handler

	// Value handles the entity value store.
	Value *value.Handler

	// ProductModel handles the product model hierarchy.
	ProductModel *productmodel.Handler

	// Product handles leaf products.
	Product *product.Handler

	// Family handles families and family variants.
	Family *family.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix. Value
	// sub-routes are grafted onto the product and product model routers so
	// /products/{id}/values and /product-models/{id}/values address the
	// same store with the matching entity tag.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/attributes", h.Attribute.Routes())
		api.Mount("/product-models", h.ProductModel.Routes(
			h.Value.EntityRoutes(value.EntityProductModel, "modelID")))
		api.Mount("/products", h.Product.Routes(
			h.Value.EntityRoutes(value.EntityProduct, "productID")))
		api.Mount("/families", h.Family.Routes())
		api.Mount("/values", h.Value.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
