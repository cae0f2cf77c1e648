package analytics

import (
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

const (
	// ProjectAll selects every entity regardless of project.
	ProjectAll = finance.ProjectAll
	// ProjectUnassigned selects entities without a project.
	ProjectUnassigned = finance.ProjectUnassigned
)

// Input holds the three collections an aggregation runs over.
type Input struct {
	Costs    []finance.Cost
	Expenses []finance.Expense
	Budgets  []finance.Budget
}

// Len is the number of entities across all collections.
func (in Input) Len() int {
	return len(in.Costs) + len(in.Expenses) + len(in.Budgets)
}

// ForProject narrows the input to a single project bucket.
// An empty id or ProjectAll returns the input unchanged.
func (in Input) ForProject(id string) Input {
	if id == "" || id == ProjectAll {
		return in
	}

	var out Input

	for _, c := range in.Costs {
		if bucketOf(c.ProjectID) == id {
			out.Costs = append(out.Costs, c)
		}
	}

	for _, e := range in.Expenses {
		if bucketOf(e.ProjectID) == id {
			out.Expenses = append(out.Expenses, e)
		}
	}

	for _, b := range in.Budgets {
		if bucketOf(b.ProjectID) == id {
			out.Budgets = append(out.Budgets, b)
		}
	}

	return out
}

// sanitize drops entities with negative amounts or a reserved project ID and
// reports how many were dropped. The input slices are never modified.
func (in Input) sanitize() (Input, int) {
	var (
		out     Input
		skipped int
	)

	for _, c := range in.Costs {
		if c.Amount.IsNegative() || finance.IsReservedProject(c.ProjectID) {
			skipped++
			continue
		}

		out.Costs = append(out.Costs, c)
	}

	for _, e := range in.Expenses {
		if e.Amount.IsNegative() || finance.IsReservedProject(e.ProjectID) {
			skipped++
			continue
		}

		out.Expenses = append(out.Expenses, e)
	}

	for _, b := range in.Budgets {
		if b.Amount.IsNegative() || finance.IsReservedProject(b.ProjectID) {
			skipped++
			continue
		}

		out.Budgets = append(out.Budgets, b)
	}

	return out, skipped
}

func bucketOf(projectID string) string {
	if projectID == "" {
		return ProjectUnassigned
	}

	return projectID
}
