package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/nvoloshin/debtbook"
)

type rmCmd struct {
	txID string
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a client and all its entries, or a single entry" }
func (*rmCmd) Usage() string {
	return `dbk rm <client> | dbk rm -tx <entry-id>

  Deleting a client cascades over its entries: each is removed on its own,
  so a failure partway through can leave orphaned entries behind. They never
  resurface in any view and the command can simply be re-run.

`
}

func (p *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.txID, "tx", "", "Delete a single entry by id instead of a client.")
}

func (p *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s := OpenStore()
	defer s.Close()

	if p.txID != "" {
		if err := debtbook.DeleteTransaction(ctx, s, p.txID); err != nil {
			return fail(err)
		}
		fmt.Println("Deleted entry", p.txID)
		return subcommands.ExitSuccess
	}

	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one argument: the client")
		return subcommands.ExitUsageError
	}
	client, err := resolveClient(ctx, s, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	if err := debtbook.DeleteClient(ctx, s, client.ID); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted client %q and %d entries\n", client.Name, len(client.Entries))
	return subcommands.ExitSuccess
}

type archiveCmd struct {
	undo bool
}

func (*archiveCmd) Name() string     { return "archive" }
func (*archiveCmd) Synopsis() string { return "close a client (or reopen with -undo)" }
func (*archiveCmd) Usage() string {
	return `dbk archive [-undo] <client>

  Archived clients disappear from the default list (see "dbk list -f") and
  are excluded from backups, but their history is kept.

`
}

func (p *archiveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.undo, "undo", false, "Make the client active again.")
}

func (p *archiveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one argument: the client")
		return subcommands.ExitUsageError
	}

	s := OpenStore()
	defer s.Close()

	client, err := resolveClient(ctx, s, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	if err := debtbook.SetArchived(ctx, s, client.ID, !p.undo); err != nil {
		return fail(err)
	}
	if p.undo {
		fmt.Printf("Client %q is active again\n", client.Name)
	} else {
		fmt.Printf("Closed client %q\n", client.Name)
	}
	return subcommands.ExitSuccess
}
