package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/importer/csvcost"
)

var ErrUnknownFormat = errors.New("unknown import format")

type Service struct {
	importers map[Format]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatGeneric: csvcost.New(csvcost.Generic...),
			FormatCGD:     csvcost.New(csvcost.CGD...),
		},
	}
}

// Import parses r with the importer registered for format. An empty format
// means FormatGeneric.
func (s *Service) Import(format Format, r io.Reader) ([]finance.Cost, error) {
	if format == "" {
		format = FormatGeneric
	}

	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	costs, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s export: %w", format, err)
	}

	return costs, nil
}
