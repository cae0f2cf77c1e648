package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
)

type Store struct {
	db    *sql.DB
	types *pgtype.Map
}

func New(db *sql.DB) *Store {
	return &Store{db: db, types: pgtype.NewMap()}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func toDate(t sql.NullTime) finance.Date {
	if !t.Valid {
		return finance.Date{}
	}

	return finance.Date{Time: t.Time}
}

func toDatePtr(t sql.NullTime) *finance.Date {
	if !t.Valid {
		return nil
	}

	return &finance.Date{Time: t.Time}
}

// projectClause appends the project condition for filter to query.
func projectClause(query string, filter ledger.Filter) (string, []any) {
	if filter.ProjectID == nil {
		return query, nil
	}

	if *filter.ProjectID == "" {
		return query + " AND project_id IS NULL", nil
	}

	return query + " AND project_id = $1", []any{*filter.ProjectID}
}

// Expected column order: id, name, amount, currency, category, description, date, tags, project_id
func (s *Store) scanCost(sc scanner) (finance.Cost, error) {
	var (
		c         finance.Cost
		category  string
		desc      sql.NullString
		date      sql.NullTime
		projectID sql.NullString
	)

	if err := sc.Scan(
		&c.ID, &c.Name, &c.Amount, &c.Currency, &category, &desc, &date,
		s.types.SQLScanner(&c.Tags), &projectID,
	); err != nil {
		return finance.Cost{}, err
	}

	c.Category = finance.ParseCategory(category)
	c.Description = desc.String
	c.Date = toDate(date)
	c.ProjectID = projectID.String

	return c, nil
}

func (s *Store) ListCosts(ctx context.Context, filter ledger.Filter) ([]finance.Cost, error) {
	query, args := projectClause(`
		SELECT id, name, amount, currency, category, description, date, tags, project_id
		FROM costs
		WHERE TRUE`, filter)

	query += " ORDER BY date ASC NULLS LAST, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing costs: %w", err)
	}
	defer rows.Close()

	var costs []finance.Cost

	for rows.Next() {
		c, err := s.scanCost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cost: %w", err)
		}

		costs = append(costs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating costs: %w", err)
	}

	return costs, nil
}

// Expected column order: id, name, amount, currency, category, frequency, start_date, end_date, is_active, project_id
func scanExpense(sc scanner) (finance.Expense, error) {
	var (
		e                  finance.Expense
		category, freq     string
		startDate, endDate sql.NullTime
		projectID          sql.NullString
	)

	if err := sc.Scan(
		&e.ID, &e.Name, &e.Amount, &e.Currency, &category, &freq,
		&startDate, &endDate, &e.IsActive, &projectID,
	); err != nil {
		return finance.Expense{}, err
	}

	e.Category = finance.ParseCategory(category)
	e.Frequency = finance.ParseFrequency(freq)
	e.StartDate = toDate(startDate)
	e.EndDate = toDatePtr(endDate)
	e.ProjectID = projectID.String

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter ledger.Filter) ([]finance.Expense, error) {
	query, args := projectClause(`
		SELECT id, name, amount, currency, category, frequency, start_date, end_date, is_active, project_id
		FROM expenses
		WHERE TRUE`, filter)

	query += " ORDER BY start_date ASC NULLS LAST, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []finance.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

// Expected column order: id, name, amount, currency, category, period, start_date, end_date, project_id
func scanBudget(sc scanner) (finance.Budget, error) {
	var (
		b                  finance.Budget
		category, period   string
		startDate, endDate sql.NullTime
		projectID          sql.NullString
	)

	if err := sc.Scan(
		&b.ID, &b.Name, &b.Amount, &b.Currency, &category, &period,
		&startDate, &endDate, &projectID,
	); err != nil {
		return finance.Budget{}, err
	}

	b.Category = finance.ParseCategory(category)
	b.Period = finance.ParsePeriod(period)
	b.StartDate = toDate(startDate)
	b.EndDate = toDatePtr(endDate)
	b.ProjectID = projectID.String

	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, filter ledger.Filter) ([]finance.Budget, error) {
	query, args := projectClause(`
		SELECT id, name, amount, currency, category, period, start_date, end_date, project_id
		FROM budgets
		WHERE TRUE`, filter)

	query += " ORDER BY start_date ASC NULLS LAST, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []finance.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budgets: %w", err)
	}

	return budgets, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]ledger.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM projects ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []ledger.Project

	for rows.Next() {
		var p ledger.Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	return projects, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*ledger.Project, error) {
	var p ledger.Project

	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM projects WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting project: %w", err)
	}

	return &p, nil
}
