package tracker

import (
	"context"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/budget"
)

// SetRate changes the PHP→AUD rate and returns how many Philippines rows were
// re-priced under the service's RateChangePolicy.
func (s *Service) SetRate(ctx context.Context, rate float64) (int, error) {
	if err := finite("phpAudRate", rate); err != nil {
		return 0, err
	}

	if rate <= 0 {
		return 0, invalid("phpAudRate must be greater than zero")
	}

	var recomputed int

	err := s.repo.Update(ctx, "set rate", func(d *budget.Document) error {
		d.PhpAudRate = rate

		if s.policy != RecomputeAll {
			return nil
		}

		for i, e := range d.Philippines {
			if !e.HasPHP() {
				continue
			}

			d.Philippines[i].AmountAud = budget.Amount(aggregate.Convert(float64(e.AmountPhp), rate))
			recomputed++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("rate changed", "rate", rate, "recomputed", recomputed)

	return recomputed, nil
}

func (s *Service) SetIncome(ctx context.Context, income float64) error {
	if err := finite("income", income); err != nil {
		return err
	}

	return s.repo.Update(ctx, "set income", func(d *budget.Document) error {
		d.Income = income
		return nil
	})
}

// SetSavings sets the AU and Samal savings targets.
func (s *Service) SetSavings(ctx context.Context, au, samal float64) error {
	if err := finite("auSavings", au); err != nil {
		return err
	}

	if err := finite("samalSavings", samal); err != nil {
		return err
	}

	return s.repo.Update(ctx, "set savings", func(d *budget.Document) error {
		d.AUSavings = au
		d.SamalSavings = samal

		return nil
	})
}

// SetPercentages sets the house and Samal allocation percentages (0-100).
func (s *Service) SetPercentages(ctx context.Context, house, samal float64) error {
	for name, v := range map[string]float64{"housePct": house, "samalPct": samal} {
		if err := finite(name, v); err != nil {
			return err
		}

		if v < 0 || v > 100 {
			return invalid("%s must be between 0 and 100", name)
		}
	}

	return s.repo.Update(ctx, "set percentages", func(d *budget.Document) error {
		d.HousePct = house
		d.SamalPct = samal

		return nil
	})
}
