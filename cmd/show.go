package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/nvoloshin/debtbook/renderer"
)

type showCmd struct {
	plain bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display one client with its full history" }
func (*showCmd) Usage() string {
	return `dbk show <client>

  Displays a client's balance, details and entry history, newest first.
  The client may be given by name (a unique prefix is enough) or by id.

`
}

func (p *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.plain, "plain", false, "Print raw markdown without terminal styling.")
}

func (p *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one argument: the client")
		return subcommands.ExitUsageError
	}

	s := OpenStore()
	defer s.Close()

	view, err := resolveClient(ctx, s, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	md := renderer.RenderDetail(renderer.NewDetail(view, Currency()))
	return printMarkdown(md, p.plain)
}
