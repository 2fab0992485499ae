package quote

import (
	"fmt"
	"math"
	"time"

	"github.com/fitcoach/tokenpricing/internal/coach"
	"github.com/fitcoach/tokenpricing/internal/course"
	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/pricing"
	"github.com/fitcoach/tokenpricing/internal/token"
)

const (
	KindCourse   = "course"
	KindCoach    = "coach"
	KindTopUp    = "topup"
	KindPackages = "packages"
	KindPlan     = "plan"
	KindConvert  = "convert"
)

type CourseQuote struct {
	ID       string                  `json:"id"`
	Options  course.GeneratorOptions `json:"options"`
	Items    course.LineItems        `json:"items"`
	Tokens   int                     `json:"tokens"`
	Baseline int                     `json:"baseline"`
}

type CoachQuote struct {
	ID        string          `json:"id"`
	Request   coach.Request   `json:"request"`
	Breakdown coach.Breakdown `json:"breakdown"`
	Tokens    int             `json:"tokens"`
}

type TopUpQuote struct {
	ID       string            `json:"id"`
	Amount   float64           `json:"amount"`
	Currency exchange.Currency `json:"currency"`
	Tokens   int               `json:"tokens"`
	Rounded  bool              `json:"rounded"`
	Rate     float64           `json:"tokensPerUnit"`

	// WeeksAffordable is how many weeks of the baseline course Tokens buy.
	WeeksAffordable int `json:"weeksAffordable"`
}

type PackageQuote struct {
	Package pricing.Package `json:"package"`
	Price   pricing.Price   `json:"price"`
}

type PlanQuote struct {
	ID    string        `json:"id"`
	Plan  pricing.Plan  `json:"plan"`
	Price pricing.Price `json:"price"`
}

type Conversion struct {
	Amount float64           `json:"amount"`
	From   exchange.Currency `json:"from"`
	To     exchange.Currency `json:"to"`
	Result float64           `json:"result"`
}

// RatesView describes the exchange and token rates in use.
type RatesView struct {
	Version    string                        `json:"version"`
	Rates      map[exchange.Currency]float64 `json:"rates"`
	TokenRates map[exchange.Currency]float64 `json:"tokenRates"`
	VATRate    float64                       `json:"vatRate"`
	LoadedAt   time.Time                     `json:"loadedAt"`
}

// Course prices a full AI-generated course.
func (s *Service) Course(opts course.GeneratorOptions) (CourseQuote, error) {
	started := time.Now()
	if s.strict && (opts.Weeks < 0 || opts.SessionsPerWeek < 0 || opts.PDF.Images < 0) {
		return CourseQuote{}, s.reject(KindCourse, "invalid_options",
			fmt.Errorf("%w: weeks, sessionsPerWeek and pdf.images must not be negative", ErrInvalidOptions))
	}
	items := course.Breakdown(opts)
	q := CourseQuote{
		ID:       s.newID(),
		Options:  opts.WithDefaults(),
		Items:    items,
		Tokens:   items.Total,
		Baseline: course.BaselineTokens,
	}
	s.accepted(KindCourse, q.ID, q.Tokens, started)
	return q, nil
}

// Coach prices a coach-built plan request.
func (s *Service) Coach(req coach.Request) (CoachQuote, error) {
	started := time.Now()
	if s.strict && !coach.ValidDays(req.DaysPerWeek) {
		return CoachQuote{}, s.reject(KindCoach, "invalid_days",
			fmt.Errorf("%w, got %d", ErrInvalidDays, req.DaysPerWeek))
	}
	b := coach.Calculate(req)
	q := CoachQuote{
		ID:        s.newID(),
		Request:   coach.Normalize(req),
		Breakdown: b,
		Tokens:    b.Total,
	}
	if len(b.Unrecognized) > 0 {
		s.logger.WithField("fields", b.Unrecognized).Warn("coach request has unrecognized values")
	}
	s.accepted(KindCoach, q.ID, q.Tokens, started)
	return q, nil
}

// TopUp converts a custom amount into tokens.
func (s *Service) TopUp(amount float64, cur exchange.Currency) (TopUpQuote, error) {
	started := time.Now()
	if math.IsNaN(amount) || math.IsInf(amount, 0) || (s.strict && amount <= 0) {
		return TopUpQuote{}, s.reject(KindTopUp, "invalid_amount", fmt.Errorf("%w, got %v", ErrInvalidAmount, amount))
	}
	snap := s.snap.Load()
	calc := token.NewCalculator(snap.Rates)
	rate, err := token.Rate(snap.Rates, cur)
	if err != nil {
		return TopUpQuote{}, s.reject(KindTopUp, "unsupported_currency", err)
	}
	n, err := calc.TokensFromAmount(amount, cur)
	if err != nil {
		return TopUpQuote{}, s.reject(KindTopUp, "amount_too_large", err)
	}
	rounded, err := calc.WasRounded(amount, cur)
	if err != nil {
		return TopUpQuote{}, s.reject(KindTopUp, "amount_too_large", err)
	}
	q := TopUpQuote{
		ID:       s.newID(),
		Amount:   amount,
		Currency: cur,
		Tokens:   n,
		Rounded:  rounded,
		Rate:     rate,

		WeeksAffordable: course.WeeksAffordable(n),
	}
	s.accepted(KindTopUp, q.ID, q.Tokens, started)
	return q, nil
}

// Packages prices every catalog pack in cur.
func (s *Service) Packages(cur exchange.Currency) ([]PackageQuote, error) {
	started := time.Now()
	snap := s.snap.Load()
	calc := token.NewCalculator(snap.Rates)
	out := make([]PackageQuote, 0, len(snap.Catalog.Packages))
	for _, p := range snap.Catalog.Packages {
		price, err := pricing.PriceOf(p, cur, calc)
		if err != nil {
			return nil, s.reject(KindPackages, "unsupported_currency", err)
		}
		out = append(out, PackageQuote{Package: p, Price: price})
	}
	s.metrics.ObserveRequest(KindPackages, started)
	return out, nil
}

// Plan finds the pack combination covering tokens and prices it in cur.
func (s *Service) Plan(tokens int, cur exchange.Currency) (PlanQuote, error) {
	started := time.Now()
	if tokens <= 0 {
		return PlanQuote{}, s.reject(KindPlan, "invalid_tokens", fmt.Errorf("%w, got %d", ErrInvalidTokens, tokens))
	}
	snap := s.snap.Load()
	plan, err := pricing.CheapestPlan(snap.Catalog, tokens)
	if err != nil {
		return PlanQuote{}, s.reject(KindPlan, "plan", err)
	}
	calc := token.NewCalculator(snap.Rates)
	net, err := calc.AmountForTokens(plan.TotalTokens, cur)
	if err != nil {
		return PlanQuote{}, s.reject(KindPlan, "unsupported_currency", err)
	}
	q := PlanQuote{
		ID:   s.newID(),
		Plan: plan,
		Price: pricing.Price{
			Currency: cur,
			Net:      net,
			VAT:      exchange.VATAmount(net),
			Gross:    exchange.AddVAT(net),
		},
	}
	s.accepted(KindPlan, q.ID, plan.TotalTokens, started)
	return q, nil
}

// Convert converts amount between two currencies through EUR.
func (s *Service) Convert(amount float64, from, to exchange.Currency) (Conversion, error) {
	started := time.Now()
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Conversion{}, s.reject(KindConvert, "invalid_amount", fmt.Errorf("%w, got %v", ErrInvalidAmount, amount))
	}
	t := s.snap.Load().Rates
	eur := amount
	if from != exchange.EUR {
		v, err := t.ToEUR(amount, from)
		if err != nil {
			return Conversion{}, s.reject(KindConvert, "unsupported_currency", err)
		}
		eur = v
	}
	result, err := t.FromEUR(eur, to)
	if err != nil {
		return Conversion{}, s.reject(KindConvert, "unsupported_currency", err)
	}
	s.metrics.ObserveRequest(KindConvert, started)
	return Conversion{Amount: amount, From: from, To: to, Result: result}, nil
}

// Rates reports the tables in use.
func (s *Service) Rates() RatesView {
	snap := s.snap.Load()
	return RatesView{
		Version:    snap.Version,
		Rates:      snap.Rates.Rates(),
		TokenRates: token.Rates(snap.Rates),
		VATRate:    exchange.VATRate,
		LoadedAt:   snap.LoadedAt,
	}
}
