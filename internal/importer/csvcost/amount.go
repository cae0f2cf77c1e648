package csvcost

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

var currencySymbols = strings.NewReplacer("€", "", "$", "", "£", "", " ", "", " ", "")

// parseAmount reads both European ("1.234,56") and plain ("1,234.56", "1234.56")
// formatted amounts. The right-most separator followed by at most two digits is
// taken as the decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := currencySymbols.Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, errEmptyAmount
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = europeanToPlain(clean)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") == 1 && len(clean)-lastComma-1 <= 2 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	return decimal.NewFromString(clean)
}

func europeanToPlain(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}
