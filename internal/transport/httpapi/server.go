package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/pricing"
	"github.com/fitcoach/tokenpricing/internal/quote"
	"github.com/fitcoach/tokenpricing/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	quotes *quote.Service
	logger log.FieldLogger
	router *chi.Mux
}

// NewServer builds the JSON API over svc. timeout bounds each request; zero
// disables it.
func NewServer(svc *quote.Service, logger log.FieldLogger, timeout time.Duration) *Server {
	s := &Server{quotes: svc, logger: logger}
	s.setupRoutes(timeout)
	return s
}

func (s *Server) setupRoutes(timeout time.Duration) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/rates", s.handleRates)
		r.Get("/packages", s.handlePackages)
		r.Get("/plan", s.handlePlan)
		r.Get("/convert", s.handleConvert)

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/course", s.handleCourse)
			r.Post("/coach", s.handleCoach)
			r.Post("/topup", s.handleTopUp)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("http request")
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

// respondQuoteError maps service errors onto HTTP statuses.
func respondQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exchange.ErrUnsupportedCurrency):
		respondError(w, http.StatusBadRequest, "unsupported currency", err)
	case errors.Is(err, quote.ErrInvalidDays),
		errors.Is(err, quote.ErrInvalidOptions),
		errors.Is(err, quote.ErrInvalidAmount),
		errors.Is(err, quote.ErrInvalidTokens),
		errors.Is(err, token.ErrAmountTooLarge):
		respondError(w, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, pricing.ErrPlanTooLarge):
		respondError(w, http.StatusUnprocessableEntity, "token target too large", err)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}
