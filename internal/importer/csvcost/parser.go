// Package csvcost parses cost CSV exports into finance.Cost values.
package csvcost

import (
	"bufio"
	"bytes"
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/burnrate/internal/encoding"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

var ErrNoProfile = errors.New("no matching CSV layout found")

// sniffLines is how many leading lines are inspected to pick the delimiter.
const sniffLines = 10

// Parser reads cost CSV exports. It auto-detects the delimiter and which of its
// profiles the file uses by matching column headers.
type Parser struct {
	profiles []Profile
}

func New(profiles ...Profile) *Parser {
	return &Parser{profiles: profiles}
}

func (p *Parser) Parse(r io.Reader) ([]finance.Cost, error) {
	utf8r, charset, err := enc.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectComma(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(p.profiles, rows)
	if profile == nil {
		return nil, fmt.Errorf("%w: expected columns %v", ErrNoProfile, p.profiles[0].requiredCols())
	}

	costs := parseRows(profile, cols, rows[headerIdx+1:])

	slog.Debug("parsed cost export",
		"component", "importer",
		"profile", profile.Name,
		"charset", charset,
		"rows", len(rows)-headerIdx-1,
		"costs", len(costs),
	)

	return costs, nil
}

// detectComma picks ';' or ',' by whichever is more frequent in the first lines.
func detectComma(data []byte) rune {
	var semicolons, commas int

	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 0; n < sniffLines && sc.Scan(); n++ {
		line := sc.Text()
		semicolons += strings.Count(line, ";")
		commas += strings.Count(line, ",")
	}

	if semicolons > commas {
		return ';'
	}

	return ','
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) cell(row []string, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// detectProfile scans rows for a header that matches one of profiles.
// Returns the matched profile, column index map, and header row index.
func detectProfile(profiles []Profile, rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows turns data rows into costs. Rows without a usable amount or with an
// unknown currency are skipped; an unparseable date is kept as an invalid Date
// unless the profile requires one.
func parseRows(p *Profile, cols colIndex, rows [][]string) []finance.Cost {
	var costs []finance.Cost

	for _, row := range rows {
		date := finance.ParseDate(cols.cell(row, p.DateCol))
		if p.RequireDate && !date.Valid() {
			continue
		}

		amount, ok := parseRowAmount(p, cols, row)
		if !ok {
			continue
		}

		currency, err := finance.NormalizeCurrency(cmp.Or(cols.cell(row, p.CurrencyCol), p.DefaultCurrency))
		if err != nil {
			continue
		}

		category := finance.CategoryOther
		if p.CategoryCol != "" {
			category = finance.ParseCategory(cols.cell(row, p.CategoryCol))
		}

		desc := cols.cell(row, p.DescCol)

		costs = append(costs, finance.Cost{
			ID:          uuid.NewString(),
			Name:        cmp.Or(cols.cell(row, p.NameCol), desc, string(category)),
			Amount:      amount,
			Currency:    currency,
			Category:    category,
			Description: desc,
			Date:        date,
			ProjectID:   cols.cell(row, p.ProjectCol),
		})
	}

	return costs
}

// parseRowAmount extracts the cost amount from a row based on the profile's amount mode.
// Credits and zero amounts are not costs.
func parseRowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	switch p.AmountMode {
	case amountUnsigned:
		d, err := parseAmount(cols.cell(row, p.AmountCol))
		if err != nil || d.IsNegative() {
			return decimal.Zero, false
		}

		return d, true
	case amountSigned:
		d, err := parseAmount(cols.cell(row, p.AmountCol))
		if err != nil || !d.IsNegative() {
			return decimal.Zero, false
		}

		return d.Abs(), true
	case amountSplit:
		d, err := parseAmount(cols.cell(row, p.DebitCol))
		if err != nil || d.IsZero() {
			return decimal.Zero, false
		}

		return d.Abs(), true
	}

	return decimal.Zero, false
}
