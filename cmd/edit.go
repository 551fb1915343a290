package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/nvoloshin/debtbook"
)

// editCmd is the interactive form. Every field line is autosaved through an
// edit session: rapid edits are debounced, unchanged content is never
// rewritten, and a new record whose required content is cleared again is
// retracted from the store instead of lingering as an empty placeholder.
type editCmd struct {
	newClient bool
	entryFor  string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "interactively edit a client or compose a new entry" }
func (*editCmd) Usage() string {
	return `dbk edit [<client>] | dbk edit -new | dbk edit -entry <client>

  Opens an interactive form, one "field value" pair per line. Changes are
  saved automatically as you type; finish with "done" or end of input.

  Client fields:  name, phone, note, due
  Entry fields:   amount, date, comment, took, gave

Usage Examples:
$ dbk edit Ivan
name Ivan Petrov
phone +7 900 000-00-00
done

$ dbk edit -entry Ivan
amount 5000
comment laptop repair
done

`
}

func (p *editCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.newClient, "new", false, "Start a blank client draft.")
	f.StringVar(&p.entryFor, "entry", "", "Compose a new ledger entry for the given client.")
}

func (p *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s := OpenStore()
	defer s.Close()

	if p.entryFor != "" {
		client, err := resolveClient(ctx, s, p.entryFor)
		if err != nil {
			return fail(err)
		}
		return p.editEntry(ctx, s, client)
	}
	return p.editClient(ctx, s, f)
}

func (p *editCmd) editClient(ctx context.Context, g debtbook.Gateway, f *flag.FlagSet) subcommands.ExitStatus {
	var draft debtbook.ClientDraft
	existing := false
	switch {
	case p.newClient:
		draft = debtbook.ClientDraft{Record: debtbook.NewClient("")}
	case f.NArg() == 1:
		view, err := resolveClient(ctx, g, f.Arg(0))
		if err != nil {
			return fail(err)
		}
		draft = debtbook.ClientDraft{Record: view.Client}
		existing = true
	default:
		fmt.Fprintln(os.Stderr, "Error: give a client to edit, or -new for a blank draft")
		return subcommands.ExitUsageError
	}

	session := debtbook.NewClientSession(g, draft, existing)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		field, value, done := parseFormLine(scanner.Text())
		if done {
			break
		}
		switch field {
		case "name":
			draft.Record.Name = value
		case "phone":
			draft.Record.Phone = value
		case "note":
			draft.Record.Note = value
		case "due":
			if value == "" {
				draft.Record.DueDate = nil
				break
			}
			due, err := debtbook.ParseDate(value)
			if err != nil {
				fmt.Fprintln(os.Stderr, "?", err)
				continue
			}
			draft.Record.DueDate = &due
		case "":
			continue
		default:
			fmt.Fprintf(os.Stderr, "? unknown field %q\n", field)
			continue
		}
		session.Schedule(draft)
	}
	if err := session.Close(ctx); err != nil {
		return fail(err)
	}

	if session.State() == debtbook.Saved {
		fmt.Printf("Saved client %q\n", draft.Record.Name)
	} else {
		fmt.Println("Nothing to save, draft discarded")
	}
	return subcommands.ExitSuccess
}

func (p *editCmd) editEntry(ctx context.Context, g debtbook.Gateway, client debtbook.ClientView) subcommands.ExitStatus {
	draft := debtbook.EntryDraft{
		EntryID:  uuid.NewString(),
		DebtorID: client.ID,
		Date:     debtbook.Today(),
	}
	session := debtbook.NewEntrySession(g, draft, false)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		field, value, done := parseFormLine(scanner.Text())
		if done {
			break
		}
		switch field {
		case "amount":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "? the amount must be a non-negative integer, got %q\n", value)
				continue
			}
			draft.Magnitude = n
		case "date":
			on, err := debtbook.ParseDate(value)
			if err != nil {
				fmt.Fprintln(os.Stderr, "?", err)
				continue
			}
			draft.Date = on
		case "comment":
			draft.Comment = value
		case "took", "gave":
			draft.Gave = field == "gave"
			// Switching direction is a committing action: force the
			// pending state out before carrying on.
			session.Schedule(draft)
			if err := session.Flush(ctx, true); err != nil {
				fmt.Fprintln(os.Stderr, "autosave:", err)
			}
			continue
		case "":
			continue
		default:
			fmt.Fprintf(os.Stderr, "? unknown field %q\n", field)
			continue
		}
		session.Schedule(draft)
	}
	if err := session.Close(ctx); err != nil {
		return fail(err)
	}

	if session.State() == debtbook.Saved {
		fmt.Printf("Saved entry for %q\n", client.Name)
	} else {
		fmt.Println("Nothing to save, draft discarded")
	}
	return subcommands.ExitSuccess
}

// parseFormLine splits a form line into field and value. done is true for
// the terminating words.
func parseFormLine(line string) (field, value string, done bool) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "done", "quit", ".":
		return "", "", true
	}
	field, value, _ = strings.Cut(line, " ")
	return strings.ToLower(field), strings.TrimSpace(value), false
}
