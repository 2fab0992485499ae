package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fitcoach/tokenpricing/internal/coach"
	"github.com/fitcoach/tokenpricing/internal/course"
	"github.com/fitcoach/tokenpricing/internal/exchange"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.quotes.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"version":  snap.Version,
		"packages": len(snap.Catalog.Packages),
	})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.quotes.Rates())
}

// currencyParam reads name from the query, defaulting to EUR.
func currencyParam(r *http.Request, name string) (exchange.Currency, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return exchange.EUR, nil
	}
	return exchange.ParseCurrency(v)
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	cur, err := currencyParam(r, "currency")
	if err != nil {
		respondError(w, http.StatusBadRequest, "unsupported currency", err)
		return
	}
	pkgs, err := s.quotes.Packages(cur)
	if err != nil {
		respondQuoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"currency": cur,
		"packages": pkgs,
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	tokens, err := strconv.Atoi(r.URL.Query().Get("tokens"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "tokens must be an integer", err)
		return
	}
	cur, err := currencyParam(r, "currency")
	if err != nil {
		respondError(w, http.StatusBadRequest, "unsupported currency", err)
		return
	}
	q, err := s.quotes.Plan(tokens, cur)
	if err != nil {
		respondQuoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "amount must be a number", err)
		return
	}
	from, err := currencyParam(r, "from")
	if err != nil {
		respondError(w, http.StatusBadRequest, "unsupported currency", err)
		return
	}
	to, err := currencyParam(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, "unsupported currency", err)
		return
	}
	c, err := s.quotes.Convert(amount, from, to)
	if err != nil {
		respondQuoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	var opts course.GeneratorOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	q, err := s.quotes.Course(opts)
	if err != nil {
		respondQuoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	var req coach.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	q, err := s.quotes.Coach(req)
	if err != nil {
		respondQuoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	cur := exchange.EUR
	if req.Currency != "" {
		c, err := exchange.ParseCurrency(req.Currency)
		if err != nil {
			respondError(w, http.StatusBadRequest, "unsupported currency", err)
			return
		}
		cur = c
	}
	q, err := s.quotes.TopUp(req.Amount, cur)
	if err != nil {
		respondQuoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}
