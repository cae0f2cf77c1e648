// Package preview shows what an uploaded cost export would do to a project's
// analytics without storing anything.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/importer"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
)

// ErrInvalidExport wraps every failure to read the uploaded file.
var ErrInvalidExport = errors.New("invalid export")

type Request struct {
	Format    importer.Format
	File      io.Reader
	ProjectID string
	// TrendMonths of zero keeps the engine default.
	TrendMonths int
}

type Result struct {
	Costs       []finance.Cost
	Categorized int
	// OutOfScope counts imported costs that belong to a different project
	// than the one previewed.
	OutOfScope int
	Analytics  analytics.FinancialAnalytics
	Insights   []analytics.Insight
}

type Service struct {
	importer *importer.Service
	matching *matching.Service
	ledger   *ledger.Service
	engine   *analytics.Engine
}

func NewService(
	importSvc *importer.Service,
	matchingSvc *matching.Service,
	ledgerSvc *ledger.Service,
	engine *analytics.Engine,
) *Service {
	return &Service{
		importer: importSvc,
		matching: matchingSvc,
		ledger:   ledgerSvc,
		engine:   engine,
	}
}

// Preview parses the export, categorizes it with the stored rules and replaces
// the stored costs of the selected scope with it. Expenses and budgets come
// from the ledger. Imported costs without a project join a concrete project
// scope; costs tagged with another project are left out.
func (s *Service) Preview(ctx context.Context, req Request) (*Result, error) {
	costs, err := s.importer.Import(req.Format, req.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}

	categorized, err := s.matching.Categorize(ctx, costs)
	if err != nil {
		return nil, fmt.Errorf("categorizing costs: %w", err)
	}

	in, err := s.ledger.LoadProject(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	assignProject(costs, req.ProjectID)
	in.Costs = costs

	a, insights := s.engine.Insights(in,
		analytics.WithProject(req.ProjectID),
		analytics.WithTrendMonths(req.TrendMonths),
	)

	return &Result{
		Costs:       costs,
		Categorized: categorized,
		OutOfScope:  len(costs) - len(in.ForProject(req.ProjectID).Costs),
		Analytics:   a,
		Insights:    insights,
	}, nil
}

func assignProject(costs []finance.Cost, projectID string) {
	if projectID == "" || finance.IsReservedProject(projectID) {
		return
	}

	for i := range costs {
		if costs[i].ProjectID == "" {
			costs[i].ProjectID = projectID
		}
	}
}
