// Package cmd implements the CLI application to manage a debt ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/nvoloshin/debtbook"
	"github.com/nvoloshin/debtbook/store"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "clients")
	c.Register(&editCmd{}, "clients")
	c.Register(&archiveCmd{}, "clients")
	c.Register(&rmCmd{}, "clients")

	c.Register(&tookCmd{}, "entries")
	c.Register(&gaveCmd{}, "entries")

	c.Register(&listCmd{}, "reports")
	c.Register(&showCmd{}, "reports")

	c.Register(&exportCmd{}, "backup")
	c.Register(&importCmd{}, "backup")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dbFlag = flag.String("db", "", "Path to the database file (default $DEBTBOOK_DB or ~/.debtbook/debtbook.db)")
var currencyFlag = flag.String("currency", "", "Currency code for displayed amounts (default $DEBTBOOK_CURRENCY or RUB)")

// OpenStore opens the configured database lazily; the first operation on it
// creates the file and any missing collections.
func OpenStore() *store.Store {
	path := *dbFlag
	if path == "" {
		path = os.Getenv("DEBTBOOK_DB")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".debtbook", "debtbook.db")
	}
	if dir := filepath.Dir(path); dir != "" {
		os.MkdirAll(dir, 0o755)
	}
	return store.New(path)
}

// Currency returns the display currency code.
func Currency() string {
	if *currencyFlag != "" {
		return *currencyFlag
	}
	if c := os.Getenv("DEBTBOOK_CURRENCY"); c != "" {
		return c
	}
	return "RUB"
}

// resolveClient finds a single client by id or by name. Name matching is
// case-insensitive; a unique prefix is enough.
func resolveClient(ctx context.Context, g debtbook.Gateway, query string) (debtbook.ClientView, error) {
	views, err := debtbook.BuildModel(ctx, g)
	if err != nil {
		return debtbook.ClientView{}, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var prefixed []debtbook.ClientView
	for _, v := range views {
		if v.ID == query {
			return v, nil
		}
		name := strings.ToLower(v.Name)
		if name == q {
			return v, nil
		}
		if strings.HasPrefix(name, q) {
			prefixed = append(prefixed, v)
		}
	}
	switch len(prefixed) {
	case 0:
		return debtbook.ClientView{}, fmt.Errorf("no client matches %q", query)
	case 1:
		return prefixed[0], nil
	default:
		names := make([]string, len(prefixed))
		for i, v := range prefixed {
			names[i] = v.Name
		}
		return debtbook.ClientView{}, fmt.Errorf("%q is ambiguous: %s", query, strings.Join(names, ", "))
	}
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
