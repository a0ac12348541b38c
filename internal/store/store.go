package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/toby-sam/budget/internal/budget"
)

const DefaultUndoDepth = 10

var (
	ErrNotExist      = errors.New("key does not exist")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Medium persists opaque blobs under string keys.
type Medium interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Snapshot is the document as it was before a named operation.
type Snapshot struct {
	Operation string
	Document  budget.Document
}

// Store owns the single in-memory document and persists it through a Medium.
// It is safe for concurrent use.
type Store struct {
	medium Medium
	key    string
	depth  int
	logger *slog.Logger

	mu      sync.Mutex
	doc     budget.Document
	undo    []Snapshot
	subs    map[int]func(budget.Document)
	nextSub int
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithUndoDepth(depth int) Option {
	return func(s *Store) { s.depth = depth }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		key:    budget.StorageKey,
		depth:  DefaultUndoDepth,
		logger: slog.Default(),
		doc:    budget.Defaults(),
		subs:   make(map[int]func(budget.Document)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.depth < 0 {
		s.depth = 0
	}

	return s
}

// Defaults returns a fresh default document.
func Defaults() budget.Document {
	return budget.Defaults()
}

// Load reads the persisted document and makes it current. It never fails: an
// absent, unreadable or unparseable blob yields the defaults.
func (s *Store) Load(ctx context.Context) budget.Document {
	doc := s.read(ctx)

	s.mu.Lock()
	s.doc = doc
	s.undo = nil
	s.mu.Unlock()

	return doc.Clone()
}

func (s *Store) read(ctx context.Context) budget.Document {
	data, err := s.medium.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			s.logger.Error("failed to read document, using defaults", "key", s.key, "error", err)
		}

		return budget.Defaults()
	}

	doc, err := budget.Normalize(data)
	if err != nil {
		s.logger.Error("failed to parse document, using defaults", "key", s.key, "error", err)
		return budget.Defaults()
	}

	if doc.AssignIDs() {
		s.logger.Info("assigned ids to rows without one", "key", s.key)
	}

	return doc
}

// Save normalizes doc, makes it current and persists it. When encoding or the
// medium fails the error is logged and returned and the previously persisted
// blob is left as it was.
func (s *Store) Save(ctx context.Context, doc budget.Document) error {
	doc, data, err := encode(doc)
	if err != nil {
		s.logger.Error("failed to encode document", "key", s.key, "error", err)
		return err
	}

	s.mu.Lock()
	s.doc = doc
	subs := s.subscribers()
	err = s.write(ctx, data)
	s.mu.Unlock()

	notify(subs, doc)

	return err
}

// encode normalizes doc and gives rows arriving without an id (restored
// backups, whole-document replaces) a fresh one before marshalling.
func encode(doc budget.Document) (budget.Document, []byte, error) {
	norm, err := doc.Normalized()
	if err != nil {
		return budget.Document{}, nil, err
	}

	norm.AssignIDs()

	data, err := json.Marshal(norm)
	if err != nil {
		return budget.Document{}, nil, fmt.Errorf("encoding document: %w", err)
	}

	return norm, data, nil
}

func (s *Store) write(ctx context.Context, data []byte) error {
	if err := s.medium.Write(ctx, s.key, data); err != nil {
		s.logger.Error("failed to persist document", "key", s.key, "error", err)
		return fmt.Errorf("persisting document: %w", err)
	}

	return nil
}

// Get returns a deep copy of the current document.
func (s *Store) Get() budget.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.doc.Clone()
}

// Update applies mutate to a copy of the current document. If mutate fails
// nothing changes. Otherwise the pre-image is pushed on the undo stack when op
// is not empty, the result becomes current and is persisted, then subscribers
// are notified. A persistence failure is returned but the in-memory change
// stays.
func (s *Store) Update(ctx context.Context, op string, mutate func(d *budget.Document) error) error {
	s.mu.Lock()

	next := s.doc.Clone()
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		return err
	}

	next, data, err := encode(next)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to encode document", "operation", op, "error", err)

		return err
	}

	if op != "" {
		s.push(Snapshot{Operation: op, Document: s.doc})
	}

	s.doc = next
	subs := s.subscribers()
	err = s.write(ctx, data)
	s.mu.Unlock()

	notify(subs, next)

	return err
}

// Replace swaps in doc wholesale, recording op for undo.
func (s *Store) Replace(ctx context.Context, op string, doc budget.Document) error {
	return s.Update(ctx, op, func(d *budget.Document) error {
		*d = doc.Clone()
		return nil
	})
}

// Undo restores the document captured before the most recent operation and
// returns that operation's name.
func (s *Store) Undo(ctx context.Context) (string, error) {
	s.mu.Lock()

	if len(s.undo) == 0 {
		s.mu.Unlock()
		return "", ErrNothingToUndo
	}

	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	s.doc = last.Document
	subs := s.subscribers()

	_, data, err := encode(last.Document)
	if err == nil {
		err = s.write(ctx, data)
	}
	s.mu.Unlock()

	notify(subs, last.Document)

	return last.Operation, err
}

// History lists the operations that can be undone, most recent last.
func (s *Store) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := make([]string, len(s.undo))
	for i, snap := range s.undo {
		ops[i] = snap.Operation
	}

	return ops
}

func (s *Store) push(snap Snapshot) {
	if s.depth == 0 {
		return
	}

	s.undo = append(s.undo, snap)
	if len(s.undo) > s.depth {
		s.undo = append([]Snapshot(nil), s.undo[len(s.undo)-s.depth:]...)
	}
}

// Subscribe registers fn to be called with a copy of the document after every
// change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(budget.Document)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subs, id)
	}
}

// subscribers must be called with mu held.
func (s *Store) subscribers() []func(budget.Document) {
	out := make([]func(budget.Document), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}

	return out
}

func notify(subs []func(budget.Document), doc budget.Document) {
	for _, fn := range subs {
		fn(doc.Clone())
	}
}
