package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"

	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/budget"
)

type queryCmd struct {
	env   *Env
	first bool
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression against the document" }
func (*queryCmd) Usage() string {
	return `budget query [-first] <path>

  Examples:
    budget query '$.categories[*].name'
    budget query '$.ledger[?(@.category == "Rent")].amount'
    budget query -first '$.phpAudRate'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.first, "first", false, "Unwrap a single-element result list.")
}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.env.usage("query needs exactly one JSONPath expression")
	}

	return c.env.run(ctx, func(a *app.App) error {
		v, err := Query(a.Tracker.Document(), f.Arg(0), c.first)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}

		_, err = fmt.Fprintln(c.env.Out, string(out))

		return err
	})
}

// Query evaluates path against the document's persisted JSON form.
func Query(doc budget.Document, path string, first bool) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	v, err := jsonpath.Get(path, tree)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", path, err)
	}

	// jsonpath returns a list for wildcard and filter paths even when one
	// element matched.
	if list, ok := v.([]any); ok && first && len(list) == 1 {
		v = list[0]
	}

	return v, nil
}
