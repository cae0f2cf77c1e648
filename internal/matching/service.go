// Package matching learns which category a cost belongs to from the text of
// its description.
package matching

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

var ErrInvalidRule = errors.New("invalid category rule")

// Rule assigns Category to any cost whose description contains Pattern,
// compared case-insensitively.
type Rule struct {
	Pattern  string
	Category finance.Category
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, description string) (*Rule, error)
	CreateRule(ctx context.Context, rule Rule) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the best rule for description, or nil when none matches.
func (s *Service) Suggest(ctx context.Context, description string) (*Rule, error) {
	if strings.TrimSpace(description) == "" {
		return nil, nil
	}

	return s.repo.FindMatch(ctx, description)
}

// Learn stores a new rule. The category must be one of the known categories.
func (s *Service) Learn(ctx context.Context, pattern string, category finance.Category) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidRule)
	}

	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, category)
	}

	return s.repo.CreateRule(ctx, Rule{Pattern: pattern, Category: category})
}

// Categorize fills in the category of costs that landed in "other" using the
// stored rules. It returns how many costs were changed.
func (s *Service) Categorize(ctx context.Context, costs []finance.Cost) (int, error) {
	changed := 0

	for i := range costs {
		if costs[i].Category != finance.CategoryOther {
			continue
		}

		rule, err := s.Suggest(ctx, cmp.Or(costs[i].Description, costs[i].Name))
		if err != nil {
			return changed, fmt.Errorf("matching cost %q: %w", costs[i].ID, err)
		}

		if rule == nil {
			continue
		}

		costs[i].Category = rule.Category
		changed++
	}

	return changed, nil
}
