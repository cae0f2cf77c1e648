// Package ledger reads the cost, expense and budget records analytics are computed from.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

var ErrNotFound = errors.New("not found")

// Project is a named grouping of costs, expenses and budgets.
type Project struct {
	ID   string
	Name string
}

// Filter narrows listings to one project bucket.
// A nil ProjectID lists everything; a pointer to "" lists unassigned records.
type Filter struct {
	ProjectID *string
}

//go:generate mockgen -source=ledger.go -destination=repository_mock.go -package=ledger
type Repository interface {
	ListCosts(ctx context.Context, filter Filter) ([]finance.Cost, error)
	ListExpenses(ctx context.Context, filter Filter) ([]finance.Expense, error)
	ListBudgets(ctx context.Context, filter Filter) ([]finance.Budget, error)

	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Load fetches the three collections concurrently.
func (s *Service) Load(ctx context.Context, filter Filter) (analytics.Input, error) {
	var in analytics.Input

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		costs, err := s.repo.ListCosts(ctx, filter)
		if err != nil {
			return fmt.Errorf("listing costs: %w", err)
		}

		in.Costs = costs

		return nil
	})

	g.Go(func() error {
		expenses, err := s.repo.ListExpenses(ctx, filter)
		if err != nil {
			return fmt.Errorf("listing expenses: %w", err)
		}

		in.Expenses = expenses

		return nil
	})

	g.Go(func() error {
		budgets, err := s.repo.ListBudgets(ctx, filter)
		if err != nil {
			return fmt.Errorf("listing budgets: %w", err)
		}

		in.Budgets = budgets

		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.Input{}, err
	}

	return in, nil
}

// LoadProject loads the records of a project bucket. id may be a project ID,
// analytics.ProjectAll or analytics.ProjectUnassigned. Unknown project IDs
// yield ErrNotFound.
func (s *Service) LoadProject(ctx context.Context, id string) (analytics.Input, error) {
	filter, err := s.FilterFor(ctx, id)
	if err != nil {
		return analytics.Input{}, err
	}

	return s.Load(ctx, filter)
}

// FilterFor resolves a project bucket name to a listing filter.
func (s *Service) FilterFor(ctx context.Context, id string) (Filter, error) {
	switch id {
	case "", analytics.ProjectAll:
		return Filter{}, nil
	case analytics.ProjectUnassigned:
		return Filter{ProjectID: new("")}, nil
	}

	if _, err := s.repo.GetProject(ctx, id); err != nil {
		return Filter{}, err
	}

	return Filter{ProjectID: &id}, nil
}

func (s *Service) Projects(ctx context.Context) ([]Project, error) {
	return s.repo.ListProjects(ctx)
}
