package tracker

import (
	"context"
	"fmt"
	"io"

	"github.com/toby-sam/budget/internal/backup"
	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/importer"
)

// ImportBatch appends parsed rows to the ledger matching the batch format and
// returns how many were added.
func (s *Service) ImportBatch(ctx context.Context, batch importer.Batch) (int, error) {
	if batch.Len() == 0 {
		return 0, importer.ErrNoTransactions
	}

	err := s.repo.Update(ctx, fmt.Sprintf("import %s csv", batch.Format), func(d *budget.Document) error {
		switch batch.Format {
		case importer.FormatAU:
			d.Ledger = append(d.Ledger, batch.Ledger...)
		case importer.FormatPhilippines:
			d.Philippines = append(d.Philippines, batch.Philippines...)
		case importer.FormatSam:
			d.SamLedger = append(d.SamLedger, batch.Sam...)
		default:
			return invalid("unknown import format %q", batch.Format)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("imported csv", "format", batch.Format, "rows", batch.Len())

	return batch.Len(), nil
}

// Restore applies a backup file. Nothing changes when the backup is invalid.
func (s *Service) Restore(ctx context.Context, data []byte, req backup.Request) error {
	return s.repo.Update(ctx, "restore backup", func(d *budget.Document) error {
		next, err := backup.Restore(data, *d, req)
		if err != nil {
			return err
		}

		*d = next

		return nil
	})
}

// MonthlyLedgers are the lists emptied when a month is closed.
var MonthlyLedgers = []string{"ledger", "philippines"}

// CloseMonth writes a full backup to w and, when clear is set, empties the AU
// and Philippines ledgers. The ledgers are only cleared after the backup was
// written successfully.
func (s *Service) CloseMonth(ctx context.Context, w io.Writer, clear bool) error {
	if err := backup.Write(w, s.repo.Get()); err != nil {
		return fmt.Errorf("close month: %w", err)
	}

	if !clear {
		return nil
	}

	return s.repo.Update(ctx, "close month", func(d *budget.Document) error {
		return d.Clear(MonthlyLedgers...)
	})
}
