package importer

import (
	"fmt"
	"io"

	"github.com/toby-sam/budget/internal/importer/ledger"
	"github.com/toby-sam/budget/internal/importer/phbank"
)

type Service struct {
	phParser *phbank.Parser
}

// NewService builds an import service reading Philippines statements with the
// given column profile.
func NewService(profile phbank.Profile) *Service {
	return &Service{
		phParser: phbank.NewParser(profile),
	}
}

// Profile returns the Philippines column layout in use.
func (s *Service) Profile() phbank.Profile {
	return s.phParser.Profile()
}

// Import parses r in the given format. rate converts Philippines amounts to
// AUD. A file without data rows yields ErrNoTransactions.
func (s *Service) Import(format Format, r io.Reader, rate float64) (Batch, error) {
	batch := Batch{Format: format}

	var err error

	switch format {
	case FormatPhilippines:
		batch.Philippines, err = s.phParser.Parse(r, rate)
	case FormatAU:
		batch.Ledger, err = ledger.ParseAU(r)
	case FormatSam:
		batch.Sam, err = ledger.ParseSam(r)
	default:
		return Batch{}, fmt.Errorf("unknown import format: %s", format)
	}

	if err != nil {
		return Batch{}, fmt.Errorf("parsing %s csv: %w", format, err)
	}

	if batch.Len() == 0 {
		return Batch{}, ErrNoTransactions
	}

	return batch, nil
}
