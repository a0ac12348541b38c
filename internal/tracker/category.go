package tracker

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/toby-sam/budget/internal/budget"
)

type CategoryParams struct {
	Name string
	// Budget is the monthly budget; nil means no budget.
	Budget *float64
	// Kind overrides the kind inferred from the name when set.
	Kind budget.Kind
}

func (p CategoryParams) validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}

	if p.Kind != "" && !p.Kind.Valid() {
		return invalid("unknown category kind %q", p.Kind)
	}

	if p.Budget != nil {
		return finite("budgetMonthly", *p.Budget)
	}

	return nil
}

func (p CategoryParams) category() budget.Category {
	c := budget.Category{Name: strings.TrimSpace(p.Name), Kind: p.Kind}
	if p.Budget != nil {
		c.BudgetMonthly = budget.Ptr(*p.Budget)
	}

	return c
}

func categoryList(d *budget.Document, scope Scope) (*[]budget.Category, error) {
	switch scope {
	case ScopeAU:
		return &d.Categories, nil
	case ScopePhilippines:
		return &d.PhBudgetCategories, nil
	case ScopeSam:
		return &d.SamBudgetCategories, nil
	}

	return nil, invalid("unknown scope %q", scope)
}

// entryCategory checks a Philippines or Sam row category against that scope's
// budget list and returns the list's spelling. Blank is allowed, as is keeping
// the row's current name after its category was deleted. AU rows take any
// name.
func entryCategory(d *budget.Document, scope Scope, name, current string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || scope == ScopeAU {
		return name, nil
	}

	if current != "" && strings.EqualFold(name, strings.TrimSpace(current)) {
		return current, nil
	}

	list, err := categoryList(d, scope)
	if err != nil {
		return "", err
	}

	i := budget.FindCategory(*list, name)
	if i < 0 {
		return "", invalid("category %q is not a %s budget category", name, scope)
	}

	return (*list)[i].Name, nil
}

// AddCategory appends a budget category. Names are unique per list, compared
// case-insensitively.
func (s *Service) AddCategory(ctx context.Context, scope Scope, p CategoryParams) (budget.Category, error) {
	if err := p.validate(); err != nil {
		return budget.Category{}, err
	}

	c := p.category()

	err := s.repo.Update(ctx, fmt.Sprintf("add %s category", scope), func(d *budget.Document) error {
		list, err := categoryList(d, scope)
		if err != nil {
			return err
		}

		if budget.FindCategory(*list, c.Name) >= 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, c.Name)
		}

		*list = append(*list, c)

		return nil
	})
	if err != nil {
		return budget.Category{}, err
	}

	return c, nil
}

// EditCategory renames and re-budgets a category. Entries keep the name they
// were recorded with.
func (s *Service) EditCategory(ctx context.Context, scope Scope, name string, p CategoryParams) (budget.Category, error) {
	if err := p.validate(); err != nil {
		return budget.Category{}, err
	}

	c := p.category()

	err := s.repo.Update(ctx, fmt.Sprintf("edit %s category", scope), func(d *budget.Document) error {
		list, err := categoryList(d, scope)
		if err != nil {
			return err
		}

		i := budget.FindCategory(*list, name)
		if i < 0 {
			return notFound("category", name)
		}

		if j := budget.FindCategory(*list, c.Name); j >= 0 && j != i {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, c.Name)
		}

		(*list)[i] = c

		return nil
	})
	if err != nil {
		return budget.Category{}, err
	}

	return c, nil
}

// DeleteCategory removes a category from its list. Entries filed under it are
// left as they are.
func (s *Service) DeleteCategory(ctx context.Context, scope Scope, name string) error {
	return s.repo.Update(ctx, fmt.Sprintf("delete %s category", scope), func(d *budget.Document) error {
		list, err := categoryList(d, scope)
		if err != nil {
			return err
		}

		i := budget.FindCategory(*list, name)
		if i < 0 {
			return notFound("category", name)
		}

		*list = removeAt(*list, i)

		return nil
	})
}

// AddPhTag adds a name to the free-form Philippines tag list.
func (s *Service) AddPhTag(ctx context.Context, tag string) error {
	tag = strings.TrimSpace(tag)
	if err := required("tag", tag); err != nil {
		return err
	}

	return s.repo.Update(ctx, "add philippines tag", func(d *budget.Document) error {
		if slices.ContainsFunc(d.PhCategories, func(t string) bool { return strings.EqualFold(t, tag) }) {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, tag)
		}

		d.PhCategories = append(d.PhCategories, tag)

		return nil
	})
}

func (s *Service) DeletePhTag(ctx context.Context, tag string) error {
	return s.repo.Update(ctx, "delete philippines tag", func(d *budget.Document) error {
		i := slices.IndexFunc(d.PhCategories, func(t string) bool { return strings.EqualFold(t, tag) })
		if i < 0 {
			return notFound("philippines tag", tag)
		}

		d.PhCategories = removeAt(d.PhCategories, i)

		return nil
	})
}
