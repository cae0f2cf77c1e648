// Package report renders analytics as plain text for e-mail or the terminal.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
)

type Service struct {
	printer *message.Printer
	now     func() time.Time
}

// NewService creates a report service that formats numbers for tag.
func NewService(tag language.Tag) *Service {
	return &Service{
		printer: message.NewPrinter(tag),
		now:     time.Now,
	}
}

// Summary renders a for display. It never recomputes anything: every figure
// comes from a and insights. code is the ISO 4217 currency amounts are shown in;
// an unknown or empty code prints bare numbers.
func (s *Service) Summary(title string, a analytics.FinancialAnalytics, insights []analytics.Insight, code string) string {
	money := s.moneyFormatter(code)

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", title)
	fmt.Fprintf(&sb, "Generated %s\n\n", s.now().Format("2006-01-02"))

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Totals")
	fmt.Fprintf(tw, "  Costs\t%s\n", money(a.TotalCosts))
	fmt.Fprintf(tw, "  Expenses / month\t%s\n", money(a.TotalExpenses))
	fmt.Fprintf(tw, "  Budgets\t%s\n", money(a.TotalBudgets))
	fmt.Fprintf(tw, "  Utilization\t%s\n", s.percent(a.BudgetUtilization))
	fmt.Fprintf(tw, "  Active expenses\t%d\n", a.ActiveExpenses)

	if a.Skipped > 0 {
		fmt.Fprintf(tw, "  Skipped records\t%d\n", a.Skipped)
	}

	if len(a.TopCategories) > 0 {
		fmt.Fprintln(tw, "\nTop categories")

		for i, c := range a.TopCategories {
			fmt.Fprintf(tw, "  %d. %s\t%s\t(%d)\n", i+1, c.Category, money(c.Total), c.Count)
		}
	}

	if visible := analytics.VisibleBudgetVsActual(a.BudgetVsActual); len(visible) > 0 {
		fmt.Fprintln(tw, "\nBudget vs actual")

		for _, b := range visible {
			fmt.Fprintf(tw, "  %s\t%s / %s\t%s\n", b.Category, money(b.Actual), money(b.Budgeted), s.percent(b.Percentage))
		}
	}

	if len(a.MonthlyTrend) > 0 {
		fmt.Fprintln(tw, "\nMonthly trend")

		for _, m := range a.MonthlyTrend {
			fmt.Fprintf(tw, "  %s %d\t%s\t+ %s recurring\tbudget %s\n", m.Month, m.Start.Year(), money(m.Costs), money(m.Expenses), money(m.Budgets))
		}
	}

	if len(a.CurrencyTotals) > 1 {
		fmt.Fprintln(tw, "\nBy currency (face value)")

		for _, c := range a.CurrencyTotals {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Currency, s.printer.Sprint(number.Decimal(c.Total.InexactFloat64(), number.Scale(2))))
		}
	}

	tw.Flush()

	if len(insights) > 0 {
		sb.WriteString("\nInsights\n")

		for _, in := range insights {
			fmt.Fprintf(&sb, "  [%s] %s: %s\n", in.Type, in.Title, in.Message)
		}
	}

	return sb.String()
}

func (s *Service) moneyFormatter(code string) func(decimal.Decimal) string {
	prefix := ""
	if unit, err := currency.ParseISO(strings.TrimSpace(code)); err == nil {
		prefix = unit.String() + " "
	}

	return func(d decimal.Decimal) string {
		return prefix + s.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
	}
}

func (s *Service) percent(d decimal.Decimal) string {
	return s.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(1))) + "%"
}

// Save writes body to dir as YYYYMMDD_<title>.txt and returns the file path.
func (s *Service) Save(dir, title, body string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, s.filename(title))

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	return path, nil
}

func (s *Service) filename(title string) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, title)

	return fmt.Sprintf("%s_%s.txt", s.now().Format("20060102"), safe)
}
