package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindMatch prefers the longest pattern, then the newest rule.
func (s *Store) FindMatch(ctx context.Context, description string) (*matching.Rule, error) {
	query := `
		SELECT pattern, category
		FROM category_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var (
		rule     matching.Rule
		category string
	)

	err := s.db.QueryRowContext(ctx, query, description).Scan(&rule.Pattern, &category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	rule.Category = finance.ParseCategory(category)

	return &rule, nil
}

func (s *Store) CreateRule(ctx context.Context, rule matching.Rule) error {
	query := `
		INSERT INTO category_rules (pattern, category, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (pattern) DO UPDATE SET category = EXCLUDED.category, created_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, rule.Pattern, string(rule.Category))
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
