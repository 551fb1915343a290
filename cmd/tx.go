package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/nvoloshin/debtbook"
	"github.com/nvoloshin/debtbook/renderer"
)

// entryCmd is the shared implementation of took and gave: they differ only
// in the sign applied to the recorded amount.
type entryCmd struct {
	date    string
	comment string
	gave    bool
}

func (p *entryCmd) setFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "0d", "Date of the entry (defaults to today).")
	f.StringVar(&p.comment, "c", "", "Free-form comment.")
}

func (p *entryCmd) execute(ctx context.Context, f *flag.FlagSet) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected two arguments: the client and the amount")
		return subcommands.ExitUsageError
	}

	var amount int64
	if _, err := fmt.Sscanf(f.Arg(1), "%d", &amount); err != nil || amount <= 0 {
		fmt.Fprintf(os.Stderr, "Error: the amount must be a positive integer, got %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	if p.gave {
		amount = -amount
	}

	on, err := debtbook.ParseDate(p.date)
	if err != nil {
		return fail(err)
	}

	s := OpenStore()
	defer s.Close()

	client, err := resolveClient(ctx, s, f.Arg(0))
	if err != nil {
		return fail(err)
	}

	t := debtbook.NewTransaction(client.ID, on, amount, p.comment)
	if err := debtbook.PutTransaction(ctx, s, t); err != nil {
		return fail(err)
	}

	// Rebuild from scratch to report the fresh balance.
	updated, err := resolveClient(ctx, s, client.ID)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s for %q, balance now %s\n",
		renderer.FormatMoney(amount, Currency()), client.Name, renderer.FormatMoney(updated.Balance, Currency()))
	return subcommands.ExitSuccess
}

type tookCmd struct{ entryCmd }

func (*tookCmd) Name() string     { return "took" }
func (*tookCmd) Synopsis() string { return "record that a client took money (their debt grows)" }
func (*tookCmd) Usage() string {
	return `dbk took [-d <date>] [-c <comment>] <client> <amount>

  Records a debt entry: the client owes the given amount more.

Usage Examples:
$ dbk took Ivan 5000 -c "laptop repair"

`
}
func (p *tookCmd) SetFlags(f *flag.FlagSet) { p.setFlags(f) }
func (p *tookCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p.gave = false
	return p.execute(ctx, f)
}

type gaveCmd struct{ entryCmd }

func (*gaveCmd) Name() string     { return "gave" }
func (*gaveCmd) Synopsis() string { return "record a payment from a client (their debt shrinks)" }
func (*gaveCmd) Usage() string {
	return `dbk gave [-d <date>] [-c <comment>] <client> <amount>

  Records a payment entry: the client paid the given amount back.

Usage Examples:
$ dbk gave Ivan 2000 -c "first installment"

`
}
func (p *gaveCmd) SetFlags(f *flag.FlagSet) { p.setFlags(f) }
func (p *gaveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p.gave = true
	return p.execute(ctx, f)
}
