package importer

import (
	"io"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

// Format names a supported cost export layout.
type Format string

const (
	FormatGeneric Format = "generic"
	FormatCGD     Format = "cgd"
)

type Importer interface {
	Parse(r io.Reader) ([]finance.Cost, error)
}
