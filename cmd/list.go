package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/nvoloshin/debtbook"
	"github.com/nvoloshin/debtbook/renderer"
)

type listCmd struct {
	query  string
	status string
	plain  bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "display clients with balances, sorted by size of debt" }
func (*listCmd) Usage() string {
	return `dbk list [-q <text>] [-f active|overdue|closed|all] [-plain]

  Rebuilds the model from the store and displays every matching client with
  its balance, status and last activity. The free-text query matches client
  names and entry comments.

Usage Examples:
$ dbk list
$ dbk list -q "laptop" -f overdue

`
}

func (p *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.query, "q", "", "Free-text search over names and comments.")
	f.StringVar(&p.status, "f", "active", "Status filter: active, overdue, closed or all.")
	f.BoolVar(&p.plain, "plain", false, "Print raw markdown without terminal styling.")
}

func (p *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status, err := debtbook.ParseStatusFilter(p.status)
	if err != nil {
		return fail(err)
	}

	s := OpenStore()
	defer s.Close()

	views, err := debtbook.BuildModel(ctx, s)
	if err != nil {
		return fail(err)
	}
	views = debtbook.ByStatus(views, status)
	views = debtbook.Filter(views, p.query)

	md := renderer.RenderOverview(renderer.NewOverview(views, debtbook.ComputeStats(views), Currency()))
	return printMarkdown(md, p.plain)
}

func printMarkdown(md string, plain bool) subcommands.ExitStatus {
	if !plain {
		if pretty, err := glamour.Render(md, "auto"); err == nil {
			fmt.Print(pretty)
			return subcommands.ExitSuccess
		}
		// fall through to raw markdown when the terminal renderer fails
	}
	fmt.Println(md)
	return subcommands.ExitSuccess
}
