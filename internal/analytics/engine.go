package analytics

import (
	"log/slog"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"golang.org/x/sync/singleflight"

	"github.com/MrJamesThe3rd/burnrate/internal/cache"
)

// Engine memoizes Calculate results keyed by a fingerprint of the input, the
// options and the current month. It is safe for concurrent use; identical
// concurrent requests share a single computation.
type Engine struct {
	cache    *cache.LRU[FinancialAnalytics]
	group    singleflight.Group
	defaults []Option
	now      func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

type EngineConfig struct {
	CacheSize   int
	CacheTTL    time.Duration
	TopN        int
	TrendMonths int
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		cache:    cache.NewLRU[FinancialAnalytics](cfg.CacheSize, cfg.CacheTTL),
		defaults: []Option{WithTopN(cfg.TopN), WithTrendMonths(cfg.TrendMonths)},
		now:      time.Now,
	}
}

// Cache exposes the underlying cache so it can be registered with a janitor.
func (e *Engine) Cache() *cache.LRU[FinancialAnalytics] {
	return e.cache
}

// Calculate behaves like the package-level Calculate but reuses earlier
// results for identical inputs.
func (e *Engine) Calculate(in Input, opts ...Option) FinancialAnalytics {
	s := newSettings(append(slices.Clone(e.defaults), opts...))
	if s.now.IsZero() {
		s.now = e.now()
	}

	key, err := cacheKey(in, s)
	if err != nil {
		slog.Warn("hashing analytics input, bypassing cache", "component", "analytics", "error", err)
		return calculate(in, s)
	}

	if a, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		return a.clone()
	}

	v, _, _ := e.group.Do(key, func() (any, error) {
		if a, ok := e.cache.Get(key); ok {
			return a, nil
		}

		e.misses.Add(1)

		start := time.Now()
		a := calculate(in, s)
		e.cache.Set(key, a)

		slog.Debug("computed analytics",
			"component", "analytics",
			"entities", in.Len(),
			"project", s.projectID,
			"duration", time.Since(start),
		)

		return a, nil
	})

	return v.(FinancialAnalytics).clone()
}

// Insights calculates analytics through the cache and derives insights from them.
func (e *Engine) Insights(in Input, opts ...Option) (FinancialAnalytics, []Insight) {
	a := e.Calculate(in, opts...)
	return a, DeriveInsights(a)
}

func (e *Engine) Stats() Stats {
	return Stats{
		Hits:    e.hits.Load(),
		Misses:  e.misses.Load(),
		Entries: e.cache.Len(),
	}
}

// Invalidate drops every cached result.
func (e *Engine) Invalidate() {
	e.cache.Purge()
}

func (a FinancialAnalytics) clone() FinancialAnalytics {
	a.CategoryBreakdown = slices.Clone(a.CategoryBreakdown)
	a.MonthlyTrend = slices.Clone(a.MonthlyTrend)
	a.BudgetVsActual = slices.Clone(a.BudgetVsActual)
	a.TopCategories = slices.Clone(a.TopCategories)
	a.CurrencyTotals = slices.Clone(a.CurrencyTotals)

	return a
}

// fingerprint captures everything that influences a calculation, reduced to
// plain values hashstructure can walk.
type fingerprint struct {
	Costs       []costPrint
	Expenses    []expensePrint
	Budgets     []budgetPrint
	ProjectID   string
	TopN        int
	TrendMonths int
	Month       int
	Location    string
}

type costPrint struct {
	Amount    string
	Currency  string
	Category  string
	ProjectID string
	Date      int64
	DateValid bool
}

type expensePrint struct {
	Amount    string
	Currency  string
	Category  string
	Frequency string
	Active    bool
	ProjectID string
}

type budgetPrint struct {
	Amount    string
	Currency  string
	Category  string
	Period    string
	ProjectID string
}

func cacheKey(in Input, s settings) (string, error) {
	fp := fingerprint{
		Costs:       make([]costPrint, len(in.Costs)),
		Expenses:    make([]expensePrint, len(in.Expenses)),
		Budgets:     make([]budgetPrint, len(in.Budgets)),
		ProjectID:   s.projectID,
		TopN:        s.topN,
		TrendMonths: s.trendMonths,
		Month:       monthKey(s.now),
		Location:    s.now.Location().String(),
	}

	for i, c := range in.Costs {
		fp.Costs[i] = costPrint{
			Amount:    c.Amount.String(),
			Currency:  c.Currency,
			Category:  string(c.Category),
			ProjectID: c.ProjectID,
			Date:      c.Date.Unix(),
			DateValid: c.Date.Valid(),
		}
	}

	for i, x := range in.Expenses {
		fp.Expenses[i] = expensePrint{
			Amount:    x.Amount.String(),
			Currency:  x.Currency,
			Category:  string(x.Category),
			Frequency: string(x.Frequency),
			Active:    x.IsActive,
			ProjectID: x.ProjectID,
		}
	}

	for i, b := range in.Budgets {
		fp.Budgets[i] = budgetPrint{
			Amount:    b.Amount.String(),
			Currency:  b.Currency,
			Category:  string(b.Category),
			Period:    string(b.Period),
			ProjectID: b.ProjectID,
		}
	}

	h, err := hashstructure.Hash(fp, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}

	return strconv.FormatUint(h, 16), nil
}
