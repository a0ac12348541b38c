package tracker

import (
	"context"

	"github.com/toby-sam/budget/internal/budget"
)

type IncomeParams struct {
	Date   string
	Source string
	Amount float64
}

func (s *Service) AddIncome(ctx context.Context, p IncomeParams) (budget.IncomeEntry, error) {
	if err := finite("amount", p.Amount); err != nil {
		return budget.IncomeEntry{}, err
	}

	entry := budget.IncomeEntry{
		ID:     budget.NewID(),
		Date:   budget.ISODateOf(p.Date),
		Source: budget.CleanText(p.Source),
		Amount: budget.Amount(p.Amount),
	}

	err := s.repo.Update(ctx, "add income", func(d *budget.Document) error {
		d.Incomes = append(d.Incomes, entry)
		return nil
	})
	if err != nil {
		return budget.IncomeEntry{}, err
	}

	return entry, nil
}

func (s *Service) DeleteIncome(ctx context.Context, id string) error {
	return s.repo.Update(ctx, "delete income", func(d *budget.Document) error {
		i := indexByID(d.Incomes, id, func(e budget.IncomeEntry) string { return e.ID })
		if i < 0 {
			return notFound("income", id)
		}

		d.Incomes = removeAt(d.Incomes, i)

		return nil
	})
}

type InvestmentParams struct {
	Date        string
	Name        string
	Description string
	Value       float64
}

func (p InvestmentParams) validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}

	return finite("value", p.Value)
}

func (p InvestmentParams) investment(id string) budget.Investment {
	return budget.Investment{
		ID:          id,
		Date:        budget.ISODateOf(p.Date),
		Name:        budget.CleanText(p.Name),
		Description: budget.CleanText(p.Description),
		Value:       budget.Amount(p.Value),
	}
}

func (s *Service) AddInvestment(ctx context.Context, p InvestmentParams) (budget.Investment, error) {
	if err := p.validate(); err != nil {
		return budget.Investment{}, err
	}

	inv := p.investment(budget.NewID())

	err := s.repo.Update(ctx, "add investment", func(d *budget.Document) error {
		d.Investments = append(d.Investments, inv)
		return nil
	})
	if err != nil {
		return budget.Investment{}, err
	}

	return inv, nil
}

func (s *Service) EditInvestment(ctx context.Context, id string, p InvestmentParams) (budget.Investment, error) {
	if err := p.validate(); err != nil {
		return budget.Investment{}, err
	}

	inv := p.investment(id)

	err := s.repo.Update(ctx, "edit investment", func(d *budget.Document) error {
		i := indexByID(d.Investments, id, func(e budget.Investment) string { return e.ID })
		if i < 0 {
			return notFound("investment", id)
		}

		d.Investments[i] = inv

		return nil
	})
	if err != nil {
		return budget.Investment{}, err
	}

	return inv, nil
}

func (s *Service) DeleteInvestment(ctx context.Context, id string) error {
	return s.repo.Update(ctx, "delete investment", func(d *budget.Document) error {
		i := indexByID(d.Investments, id, func(e budget.Investment) string { return e.ID })
		if i < 0 {
			return notFound("investment", id)
		}

		d.Investments = removeAt(d.Investments, i)

		return nil
	})
}

type BonusParams struct {
	Date        string
	Description string
	Amount      float64
}

func (s *Service) AddBonus(ctx context.Context, p BonusParams) (budget.BonusIncome, error) {
	if err := required("date", p.Date); err != nil {
		return budget.BonusIncome{}, err
	}

	if err := finite("amount", p.Amount); err != nil {
		return budget.BonusIncome{}, err
	}

	bonus := budget.BonusIncome{
		ID:          budget.NewID(),
		Date:        budget.DisplayDateOf(p.Date),
		Description: budget.CleanText(p.Description),
		Amount:      budget.Amount(p.Amount),
	}

	err := s.repo.Update(ctx, "add bonus income", func(d *budget.Document) error {
		d.BonusIncome = append(d.BonusIncome, bonus)
		return nil
	})
	if err != nil {
		return budget.BonusIncome{}, err
	}

	return bonus, nil
}

func (s *Service) DeleteBonus(ctx context.Context, id string) error {
	return s.repo.Update(ctx, "delete bonus income", func(d *budget.Document) error {
		i := indexByID(d.BonusIncome, id, func(e budget.BonusIncome) string { return e.ID })
		if i < 0 {
			return notFound("bonus income", id)
		}

		d.BonusIncome = removeAt(d.BonusIncome, i)

		return nil
	})
}

type DebtParams struct {
	Name  string
	Total float64
}

func (p DebtParams) validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}

	if err := finite("total", p.Total); err != nil {
		return err
	}

	if p.Total < 0 {
		return invalid("total must not be negative")
	}

	return nil
}

func (s *Service) AddDebt(ctx context.Context, p DebtParams) (budget.Debt, error) {
	if err := p.validate(); err != nil {
		return budget.Debt{}, err
	}

	debt := budget.Debt{ID: budget.NewID(), Name: budget.CleanText(p.Name), Total: budget.Amount(p.Total)}

	err := s.repo.Update(ctx, "add debt", func(d *budget.Document) error {
		d.Debts = append(d.Debts, debt)
		return nil
	})
	if err != nil {
		return budget.Debt{}, err
	}

	return debt, nil
}

func (s *Service) EditDebt(ctx context.Context, id string, p DebtParams) (budget.Debt, error) {
	if err := p.validate(); err != nil {
		return budget.Debt{}, err
	}

	debt := budget.Debt{ID: id, Name: budget.CleanText(p.Name), Total: budget.Amount(p.Total)}

	err := s.repo.Update(ctx, "edit debt", func(d *budget.Document) error {
		i := indexByID(d.Debts, id, func(e budget.Debt) string { return e.ID })
		if i < 0 {
			return notFound("debt", id)
		}

		d.Debts[i] = debt

		return nil
	})
	if err != nil {
		return budget.Debt{}, err
	}

	return debt, nil
}

// DeleteDebt removes a debt together with all of its payments.
func (s *Service) DeleteDebt(ctx context.Context, id string) error {
	return s.repo.Update(ctx, "delete debt", func(d *budget.Document) error {
		i := indexByID(d.Debts, id, func(e budget.Debt) string { return e.ID })
		if i < 0 {
			return notFound("debt", id)
		}

		d.Debts = removeAt(d.Debts, i)

		kept := d.DebtPayments[:0]
		for _, p := range d.DebtPayments {
			if p.DebtID != id {
				kept = append(kept, p)
			}
		}

		d.DebtPayments = kept

		return nil
	})
}

type PaymentParams struct {
	Date        string
	Description string
	Amount      float64
}

// AddDebtPayment records a payment against an existing debt.
func (s *Service) AddDebtPayment(ctx context.Context, debtID string, p PaymentParams) (budget.DebtPayment, error) {
	if err := finite("amount", p.Amount); err != nil {
		return budget.DebtPayment{}, err
	}

	if p.Amount <= 0 {
		return budget.DebtPayment{}, invalid("amount must be positive")
	}

	payment := budget.DebtPayment{
		ID:          budget.NewID(),
		Date:        budget.ISODateOf(p.Date),
		DebtID:      debtID,
		Description: budget.CleanText(p.Description),
		Amount:      budget.Amount(p.Amount),
	}

	err := s.repo.Update(ctx, "add debt payment", func(d *budget.Document) error {
		if indexByID(d.Debts, debtID, func(e budget.Debt) string { return e.ID }) < 0 {
			return notFound("debt", debtID)
		}

		d.DebtPayments = append(d.DebtPayments, payment)

		return nil
	})
	if err != nil {
		return budget.DebtPayment{}, err
	}

	return payment, nil
}

func (s *Service) DeleteDebtPayment(ctx context.Context, id string) error {
	return s.repo.Update(ctx, "delete debt payment", func(d *budget.Document) error {
		i := indexByID(d.DebtPayments, id, func(e budget.DebtPayment) string { return e.ID })
		if i < 0 {
			return notFound("debt payment", id)
		}

		d.DebtPayments = removeAt(d.DebtPayments, i)

		return nil
	})
}
