package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/toby-sam/budget/internal/budget"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("category already exists")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tracker
type Repository interface {
	Get() budget.Document
	Update(ctx context.Context, op string, mutate func(d *budget.Document) error) error
	Replace(ctx context.Context, op string, doc budget.Document) error
	Undo(ctx context.Context) (string, error)
	History() []string
}

// RateChangePolicy decides which Philippines rows are re-priced when the
// PHP→AUD rate changes.
type RateChangePolicy int

const (
	// RecomputeAll re-derives amountAud on every row that carries a PHP amount.
	RecomputeAll RateChangePolicy = iota
	// KeepHistorical leaves existing rows at the rate they were entered with.
	KeepHistorical
)

func PolicyFor(recomputeAll bool) RateChangePolicy {
	if recomputeAll {
		return RecomputeAll
	}

	return KeepHistorical
}

type Service struct {
	repo   Repository
	policy RateChangePolicy
	logger *slog.Logger
}

type Option func(*Service)

func WithRatePolicy(p RateChangePolicy) Option {
	return func(s *Service) { s.policy = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		policy: RecomputeAll,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Document returns a copy of the current document.
func (s *Service) Document() budget.Document {
	return s.repo.Get()
}

// Undo reverts the most recent action and returns its name.
func (s *Service) Undo(ctx context.Context) (string, error) {
	op, err := s.repo.Undo(ctx)
	if err != nil {
		return op, err
	}

	s.logger.Info("undid operation", "operation", op)

	return op, nil
}

func (s *Service) History() []string {
	return s.repo.History()
}

// Replace swaps in a whole document, e.g. from the API's document PUT.
func (s *Service) Replace(ctx context.Context, doc budget.Document) error {
	return s.repo.Replace(ctx, "replace document", doc)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid("%s must be a finite number", name)
	}

	return nil
}

func required(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", name)
	}

	return nil
}

// indexByID finds the row whose id matches.
func indexByID[T any](rows []T, id string, idOf func(T) string) int {
	for i, r := range rows {
		if idOf(r) == id {
			return i
		}
	}

	return -1
}

func removeAt[T any](rows []T, i int) []T {
	return append(rows[:i], rows[i+1:]...)
}
