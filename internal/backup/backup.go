package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/encoding"
)

// ErrInvalidBackup means a backup file could not be restored. The current
// document is never touched when it is returned.
var ErrInvalidBackup = errors.New("invalid backup file")

const (
	extension = ".json"
	indent    = "  "
)

// Filename returns the name a full backup is saved under. A blank name becomes
// BudgetBackup_YYYY-MM-DD; the .json extension is always present.
func Filename(name string, now time.Time) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "BudgetBackup_" + now.Format(budget.ISODate)
	}

	if !strings.HasSuffix(strings.ToLower(name), extension) {
		name += extension
	}

	return name
}

var sectionFilenames = map[string]string{
	"phBudgetCategories":  "ph-budget-only-backup.json",
	"samBudgetCategories": "sam-budget-backup.json",
}

// SectionFilename returns the default file name for a single-section backup.
func SectionFilename(section string) string {
	if name, ok := sectionFilenames[section]; ok {
		return name
	}

	return section + "-backup" + extension
}

// Write writes the full document as 2-space indented JSON.
func Write(w io.Writer, doc budget.Document) error {
	data, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	return nil
}

// WriteSection writes {"<section>": [...]} for the named list field.
func WriteSection(w io.Writer, doc budget.Document, section string) error {
	value, err := doc.Section(section)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]any{section: value}, "", indent)
	if err != nil {
		return fmt.Errorf("encoding %s backup: %w", section, err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	return nil
}

type Mode int

const (
	// ModeFullReplace swaps the whole document for the backup's contents.
	ModeFullReplace Mode = iota
	// ModeSectionMerge replaces one list field and keeps everything else.
	ModeSectionMerge
)

func (m Mode) String() string {
	switch m {
	case ModeFullReplace:
		return "full"
	case ModeSectionMerge:
		return "section"
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode reads "full" or "section".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return ModeFullReplace, nil
	case "section":
		return ModeSectionMerge, nil
	}

	return 0, fmt.Errorf("unknown restore mode %q", s)
}

// Request says how a backup is applied. Section is required for
// ModeSectionMerge.
type Request struct {
	Mode    Mode
	Section string
}

// Restore computes the document that results from applying a backup to
// current. It is all-or-nothing: on any error current is returned unchanged
// along with an error wrapping ErrInvalidBackup.
func Restore(data []byte, current budget.Document, req Request) (budget.Document, error) {
	data, err := encoding.Decode(data)
	if err != nil {
		return current, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	data = bytes.TrimSpace(data)

	switch req.Mode {
	case ModeFullReplace:
		doc, err := budget.Normalize(data)
		if err != nil {
			return current, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
		}

		return doc, nil

	case ModeSectionMerge:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return current, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
		}

		raw, ok := fields[req.Section]
		if !ok {
			return current, fmt.Errorf("%w: backup file does not contain %s", ErrInvalidBackup, req.Section)
		}

		next := current.Clone()
		if err := next.SetSection(req.Section, raw); err != nil {
			return current, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
		}

		return next, nil
	}

	return current, fmt.Errorf("%w: unsupported restore mode %s", ErrInvalidBackup, req.Mode)
}
