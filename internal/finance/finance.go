package finance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrReservedProject = errors.New("project id is reserved")
)

// Reserved project IDs name synthetic aggregation buckets. No real project
// may use them.
const (
	ProjectAll        = "all"
	ProjectUnassigned = "unassigned"
)

func IsReservedProject(id string) bool {
	return id == ProjectAll || id == ProjectUnassigned
}

// Cost is a one-time spend.
type Cost struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    Category        `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        Date            `json:"date"`
	Tags        []string        `json:"tags,omitempty"`
	ProjectID   string          `json:"projectId,omitempty"`
}

// Expense is a recurring spend charged at Frequency while IsActive.
type Expense struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Category  Category        `json:"category"`
	Frequency Frequency       `json:"frequency"`
	StartDate Date            `json:"startDate"`
	EndDate   *Date           `json:"endDate,omitempty"`
	IsActive  bool            `json:"isActive"`
	ProjectID string          `json:"projectId,omitempty"`
}

// Budget is an allocation ceiling for a category, optionally scoped to a project.
type Budget struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Category  Category        `json:"category"`
	Period    Period          `json:"period"`
	StartDate Date            `json:"startDate"`
	EndDate   *Date           `json:"endDate,omitempty"`
	ProjectID string          `json:"projectId,omitempty"`
}

func (c Cost) Validate() error {
	return validate(c.Amount, c.Currency, c.ProjectID)
}

func (e Expense) Validate() error {
	return validate(e.Amount, e.Currency, e.ProjectID)
}

func (b Budget) Validate() error {
	return validate(b.Amount, b.Currency, b.ProjectID)
}

func validate(amount decimal.Decimal, code, projectID string) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	if _, err := NormalizeCurrency(code); err != nil {
		return err
	}

	if IsReservedProject(projectID) {
		return fmt.Errorf("%w: %q", ErrReservedProject, projectID)
	}

	return nil
}

// NormalizeCurrency returns the canonical ISO 4217 code for code.
// An empty code is allowed and stays empty.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", nil
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	return unit.String(), nil
}
