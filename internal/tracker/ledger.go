package tracker

import (
	"context"
	"fmt"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/budget"
)

// Scope names one of the three ledgers and its budget category list.
type Scope string

const (
	ScopeAU          Scope = "au"
	ScopePhilippines Scope = "philippines"
	ScopeSam         Scope = "sam"
)

func ParseScope(s string) (Scope, error) {
	switch sc := Scope(s); sc {
	case ScopeAU, ScopePhilippines, ScopeSam:
		return sc, nil
	case "ph":
		return ScopePhilippines, nil
	}

	return "", invalid("unknown scope %q", s)
}

type LedgerParams struct {
	Date        string
	Description string
	Category    string
	Amount      float64
}

func (p LedgerParams) validate() error {
	if err := required("date", p.Date); err != nil {
		return err
	}

	if err := required("description", p.Description); err != nil {
		return err
	}

	return finite("amount", p.Amount)
}

// AddLedgerEntry appends a row to the Australian ledger. The amount is stored
// with the sign given.
func (s *Service) AddLedgerEntry(ctx context.Context, p LedgerParams) (budget.LedgerEntry, error) {
	if err := p.validate(); err != nil {
		return budget.LedgerEntry{}, err
	}

	entry := budget.LedgerEntry{
		ID:          budget.NewID(),
		Date:        budget.ISODateOf(p.Date),
		Description: budget.CleanText(p.Description),
		Category:    p.Category,
		Amount:      budget.Amount(p.Amount),
	}

	err := s.repo.Update(ctx, "add ledger entry", func(d *budget.Document) error {
		d.Ledger = append(d.Ledger, entry)
		return nil
	})
	if err != nil {
		return budget.LedgerEntry{}, err
	}

	return entry, nil
}

// EditLedgerEntry overwrites a ledger row. A positive amount on a category that
// is not income is flipped negative.
func (s *Service) EditLedgerEntry(ctx context.Context, id string, p LedgerParams) (budget.LedgerEntry, error) {
	if err := p.validate(); err != nil {
		return budget.LedgerEntry{}, err
	}

	var out budget.LedgerEntry

	err := s.repo.Update(ctx, "edit ledger entry", func(d *budget.Document) error {
		i := indexByID(d.Ledger, id, func(e budget.LedgerEntry) string { return e.ID })
		if i < 0 {
			return notFound("ledger entry", id)
		}

		amount := p.Amount
		if amount > 0 && !d.Classes().Is(p.Category, budget.KindIncome) {
			amount = -amount
		}

		d.Ledger[i] = budget.LedgerEntry{
			ID:          id,
			Date:        budget.ISODateOf(p.Date),
			Description: budget.CleanText(p.Description),
			Category:    p.Category,
			Amount:      budget.Amount(amount),
		}
		out = d.Ledger[i]

		return nil
	})

	return out, err
}

// PhilippinesParams describes a Philippines row. With AmountPHP set the AUD
// figure is derived from the current rate; otherwise AmountAUD is a manual
// adjustment with no peso amount.
type PhilippinesParams struct {
	Date      string
	Reason    string
	Category  string
	AmountPHP *float64
	AmountAUD *float64
}

func (p PhilippinesParams) validate() error {
	if err := required("date", p.Date); err != nil {
		return err
	}

	switch {
	case p.AmountPHP != nil:
		return finite("amountPhp", *p.AmountPHP)
	case p.AmountAUD != nil:
		return finite("amountAud", *p.AmountAUD)
	}

	return invalid("either amountPhp or amountAud is required")
}

func (p PhilippinesParams) entry(id string, rate float64) budget.PhilippinesEntry {
	e := budget.PhilippinesEntry{
		ID:       id,
		Date:     budget.DisplayDateOf(p.Date),
		Reason:   budget.CleanText(p.Reason),
		Category: p.Category,
	}

	if p.AmountPHP != nil {
		e.AmountPhp = budget.Amount(*p.AmountPHP)
		e.AmountAud = budget.Amount(aggregate.Convert(*p.AmountPHP, rate))
	} else {
		e.AmountAud = budget.Amount(*p.AmountAUD)
	}

	return e
}

func (s *Service) AddPhilippinesEntry(ctx context.Context, p PhilippinesParams) (budget.PhilippinesEntry, error) {
	if err := p.validate(); err != nil {
		return budget.PhilippinesEntry{}, err
	}

	var out budget.PhilippinesEntry

	err := s.repo.Update(ctx, "add philippines entry", func(d *budget.Document) error {
		category, err := entryCategory(d, ScopePhilippines, p.Category, "")
		if err != nil {
			return err
		}

		out = p.entry(budget.NewID(), d.PhpAudRate)
		out.Category = category
		d.Philippines = append(d.Philippines, out)

		return nil
	})

	return out, err
}

// EditPhilippinesEntry overwrites a row, re-deriving its AUD amount from the
// current rate when a peso amount is given.
func (s *Service) EditPhilippinesEntry(ctx context.Context, id string, p PhilippinesParams) (budget.PhilippinesEntry, error) {
	if err := p.validate(); err != nil {
		return budget.PhilippinesEntry{}, err
	}

	var out budget.PhilippinesEntry

	err := s.repo.Update(ctx, "edit philippines entry", func(d *budget.Document) error {
		i := indexByID(d.Philippines, id, func(e budget.PhilippinesEntry) string { return e.ID })
		if i < 0 {
			return notFound("philippines entry", id)
		}

		category, err := entryCategory(d, ScopePhilippines, p.Category, d.Philippines[i].Category)
		if err != nil {
			return err
		}

		out = p.entry(id, d.PhpAudRate)
		out.Category = category
		d.Philippines[i] = out

		return nil
	})

	return out, err
}

type SamParams struct {
	Date      string
	Reason    string
	Category  string
	AmountAUD float64
}

func (p SamParams) validate() error {
	if err := required("date", p.Date); err != nil {
		return err
	}

	return finite("amountAud", p.AmountAUD)
}

func (p SamParams) entry(id string) budget.SamLedgerEntry {
	return budget.SamLedgerEntry{
		ID:        id,
		Date:      budget.DisplayDateOf(p.Date),
		Reason:    budget.CleanText(p.Reason),
		Category:  p.Category,
		AmountAud: budget.Amount(p.AmountAUD),
	}
}

func (s *Service) AddSamEntry(ctx context.Context, p SamParams) (budget.SamLedgerEntry, error) {
	if err := p.validate(); err != nil {
		return budget.SamLedgerEntry{}, err
	}

	entry := p.entry(budget.NewID())

	err := s.repo.Update(ctx, "add sam entry", func(d *budget.Document) error {
		category, err := entryCategory(d, ScopeSam, entry.Category, "")
		if err != nil {
			return err
		}

		entry.Category = category
		d.SamLedger = append(d.SamLedger, entry)

		return nil
	})
	if err != nil {
		return budget.SamLedgerEntry{}, err
	}

	return entry, nil
}

func (s *Service) EditSamEntry(ctx context.Context, id string, p SamParams) (budget.SamLedgerEntry, error) {
	if err := p.validate(); err != nil {
		return budget.SamLedgerEntry{}, err
	}

	entry := p.entry(id)

	err := s.repo.Update(ctx, "edit sam entry", func(d *budget.Document) error {
		i := indexByID(d.SamLedger, id, func(e budget.SamLedgerEntry) string { return e.ID })
		if i < 0 {
			return notFound("sam entry", id)
		}

		category, err := entryCategory(d, ScopeSam, entry.Category, d.SamLedger[i].Category)
		if err != nil {
			return err
		}

		entry.Category = category
		d.SamLedger[i] = entry

		return nil
	})
	if err != nil {
		return budget.SamLedgerEntry{}, err
	}

	return entry, nil
}

// Categorize sets the category of one row in the given ledger. Philippines and
// Sam rows only take names from their scope's budget list; AU rows take any
// name and unknown ones aggregate on their own.
func (s *Service) Categorize(ctx context.Context, scope Scope, id, category string) error {
	return s.repo.Update(ctx, fmt.Sprintf("categorize %s entry", scope), func(d *budget.Document) error {
		var target *string

		switch scope {
		case ScopeAU:
			i := indexByID(d.Ledger, id, func(e budget.LedgerEntry) string { return e.ID })
			if i < 0 {
				return notFound("ledger entry", id)
			}

			target = &d.Ledger[i].Category
		case ScopePhilippines:
			i := indexByID(d.Philippines, id, func(e budget.PhilippinesEntry) string { return e.ID })
			if i < 0 {
				return notFound("philippines entry", id)
			}

			target = &d.Philippines[i].Category
		case ScopeSam:
			i := indexByID(d.SamLedger, id, func(e budget.SamLedgerEntry) string { return e.ID })
			if i < 0 {
				return notFound("sam entry", id)
			}

			target = &d.SamLedger[i].Category
		default:
			return invalid("unknown scope %q", scope)
		}

		name, err := entryCategory(d, scope, category, *target)
		if err != nil {
			return err
		}

		*target = name

		return nil
	})
}

// DeleteEntry removes a row by id from the given ledger.
func (s *Service) DeleteEntry(ctx context.Context, scope Scope, id string) error {
	return s.repo.Update(ctx, fmt.Sprintf("delete %s entry", scope), func(d *budget.Document) error {
		switch scope {
		case ScopeAU:
			i := indexByID(d.Ledger, id, func(e budget.LedgerEntry) string { return e.ID })
			if i < 0 {
				return notFound("ledger entry", id)
			}

			d.Ledger = removeAt(d.Ledger, i)
		case ScopePhilippines:
			i := indexByID(d.Philippines, id, func(e budget.PhilippinesEntry) string { return e.ID })
			if i < 0 {
				return notFound("philippines entry", id)
			}

			d.Philippines = removeAt(d.Philippines, i)
		case ScopeSam:
			i := indexByID(d.SamLedger, id, func(e budget.SamLedgerEntry) string { return e.ID })
			if i < 0 {
				return notFound("sam entry", id)
			}

			d.SamLedger = removeAt(d.SamLedger, i)
		default:
			return invalid("unknown scope %q", scope)
		}

		return nil
	})
}
