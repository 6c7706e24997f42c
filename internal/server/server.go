package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kartoza/order-planner/internal/api"
	"github.com/kartoza/order-planner/internal/config"
	"github.com/kartoza/order-planner/internal/dataset"
	"github.com/kartoza/order-planner/internal/forecast"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds all the components for the web application
type Server struct {
	cfg        config.Config
	httpServer *http.Server
	router     *mux.Router
	records    []dataset.HistoricalRecord
	model      *forecast.TrainedModel
}

// New loads the order history, fits the demand model and wires the routes.
// A missing or malformed history is fatal to the server: there is no
// degraded mode without a model.
func New(cfg config.Config) (*Server, error) {
	records, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	log.Printf("Loaded %d historical records from %s", len(records), cfg.DataPath)

	model, err := forecast.Fit(records)
	if err != nil {
		return nil, fmt.Errorf("failed to fit demand model: %w", err)
	}
	if len(records) <= len(forecast.Predictors) {
		log.Printf("Warning: only %d records for %d predictors, the fit is underdetermined", len(records), len(forecast.Predictors))
	}
	log.Printf("Demand model fitted: mean=%.1f range=%d-%d r2=%.3f",
		model.MeanOrders(), model.MinOrders(), model.MaxOrders(), model.R2())

	s := &Server{
		cfg:     cfg,
		router:  mux.NewRouter(),
		records: records,
		model:   model,
	}
	s.setupRoutes()

	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiHandler := api.NewHandler(s.model, s.records, s.cfg)
	apiHandler.RegisterRoutes(apiRouter)

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Server listening on http://localhost:%d", s.cfg.Port)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
