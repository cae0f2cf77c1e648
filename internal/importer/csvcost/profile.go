package csvcost

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountUnsigned is a single column of non-negative cost amounts.
	amountUnsigned amountMode = iota
	// amountSigned is a single signed column where only debits are costs (e.g. "Montante" with "-10,00").
	amountSigned
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of a cost CSV export.
// Column names are matched case-insensitively.
type Profile struct {
	Name        string
	DateCol     string
	NameCol     string
	DescCol     string
	CategoryCol string
	CurrencyCol string
	ProjectCol  string
	AmountMode  amountMode
	AmountCol   string // used when AmountMode is amountUnsigned or amountSigned
	DebitCol    string // used when AmountMode == amountSplit
	CreditCol   string // used when AmountMode == amountSplit

	// DefaultCurrency applies when the row has no currency column.
	DefaultCurrency string
	// RequireDate skips rows whose date cannot be parsed (footers, balances).
	RequireDate bool
}

// requiredCols returns the column names that must be present for this profile to match.
// Name, description, currency and project columns are optional.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol}

	if p.CategoryCol != "" {
		cols = append(cols, p.CategoryCol)
	}

	switch p.AmountMode {
	case amountUnsigned, amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// Generic is the neutral export layout: date, amount and category are required;
// name, currency, project and description are picked up when present.
var Generic = []Profile{
	{
		Name:        "generic",
		DateCol:     "date",
		NameCol:     "name",
		DescCol:     "description",
		CategoryCol: "category",
		CurrencyCol: "currency",
		ProjectCol:  "project",
		AmountMode:  amountUnsigned,
		AmountCol:   "amount",
	},
}

// CGD covers the Caixa Geral de Depósitos exports. Only debits are costs.
// More specific profiles come first to avoid false matches.
var CGD = []Profile{
	{
		Name:            "cartão",
		DateCol:         "data",
		DescCol:         "descrição",
		AmountMode:      amountSplit,
		DebitCol:        "débito",
		CreditCol:       "crédito",
		DefaultCurrency: "EUR",
		RequireDate:     true,
	},
	{
		Name:            "extrato",
		DateCol:         "data mov.",
		DescCol:         "descrição",
		AmountMode:      amountSigned,
		AmountCol:       "movimento",
		DefaultCurrency: "EUR",
		RequireDate:     true,
	},
	{
		Name:            "conta",
		DateCol:         "data mov.",
		DescCol:         "descrição",
		AmountMode:      amountSigned,
		AmountCol:       "montante",
		DefaultCurrency: "EUR",
		RequireDate:     true,
	},
}
