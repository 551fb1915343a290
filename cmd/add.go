package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/nvoloshin/debtbook"
)

type addCmd struct {
	phone string
	note  string
	due   string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a new client to the ledger" }
func (*addCmd) Usage() string {
	return `dbk add [-phone <tel>] [-note <text>] [-due <date>] <name>

  Creates a client. The name is required; everything else is optional.

Usage Examples:
$ dbk add "Ivan" -phone "+7..." -due 2026-09-15

`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.phone, "phone", "", "Contact phone number.")
	f.StringVar(&p.note, "note", "", "Free-form note.")
	f.StringVar(&p.due, "due", "", "Due date for settling up (e.g. 2026-09-15, +30d).")
}

func (p *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one argument: the client name")
		return subcommands.ExitUsageError
	}

	c := debtbook.NewClient(f.Arg(0))
	c.Phone = p.phone
	c.Note = p.note
	if p.due != "" {
		due, err := debtbook.ParseDate(p.due)
		if err != nil {
			return fail(err)
		}
		c.DueDate = &due
	}

	s := OpenStore()
	defer s.Close()
	if err := debtbook.PutClient(ctx, s, c); err != nil {
		return fail(err)
	}
	fmt.Printf("Added client %q (%s)\n", c.Name, c.ID)
	return subcommands.ExitSuccess
}
