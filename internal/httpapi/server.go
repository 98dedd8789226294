package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/openlots/parkd/internal/parking/service"
	"github.com/openlots/parkd/internal/parking/types"
)

type Dependencies struct {
	Logger    zerolog.Logger
	Addr      string
	Allocator *service.AllocationService
	Billing   *service.BillingService
	Registry  *service.VehicleRegistry
	Catalog   *service.SlotCatalog
	Ledger    *service.ActivityLedger
}

type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
	allocator  *service.AllocationService
	billing    *service.BillingService
	registry   *service.VehicleRegistry
	catalog    *service.SlotCatalog
	ledger     *service.ActivityLedger
}

func NewServer(d Dependencies) *Server {
	s := &Server{
		logger:    d.Logger,
		allocator: d.Allocator,
		billing:   d.Billing,
		registry:  d.Registry,
		catalog:   d.Catalog,
		ledger:    d.Ledger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(d.Logger))
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/park", s.handlePark)
		r.Post("/exit", s.handleExit)
		r.Post("/vehicles", s.handleRegisterVehicle)
		r.Get("/vehicles/{plate}", s.handleLookupVehicle)
		r.Get("/slots/available", s.handleAvailableSlots)
		r.Get("/logs", s.handleLogs)
	})

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePark(w http.ResponseWriter, r *http.Request) {
	var req types.ParkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.allocator.Assign(r.Context(), req.VehicleNumber, req.VehicleTypeID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	var req types.ExitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.billing.ProcessExit(r.Context(), req.VehicleNumber)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRegisterVehicle(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterVehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	info, err := s.registry.Resolve(r.Context(), req.VehicleNumber, req.VehicleTypeID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleLookupVehicle(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")

	info, err := s.registry.Lookup(r.Context(), plate)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.catalog.ListAvailable(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if slots == nil {
		slots = []types.AvailableSlot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.ledger.ListLogs(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if logs == nil {
		logs = []types.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPlate):
		writeError(w, http.StatusBadRequest, "invalid_vehicle_number", err.Error())
	case errors.Is(err, service.ErrInvalidVehicleType):
		writeError(w, http.StatusBadRequest, "invalid_vehicle_type", err.Error())
	case errors.Is(err, service.ErrAlreadyParked):
		writeError(w, http.StatusConflict, "already_parked", err.Error())
	case errors.Is(err, service.ErrNoSlotAvailable):
		writeError(w, http.StatusConflict, "no_slot_available", err.Error())
	case errors.Is(err, service.ErrNotParked):
		writeError(w, http.StatusNotFound, "not_parked", err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("store unavailable")
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "persistent store unavailable")
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}

// decodeJSON parses the request body into v, writing a 400 and returning
// false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return false
	}
	return true
}
