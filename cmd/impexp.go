package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/nvoloshin/debtbook"
)

type exportCmd struct {
	out string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the whole ledger as a portable JSON document" }
func (*exportCmd) Usage() string {
	return `dbk export [-o <file>]

  Writes every client (except archived ones) and every entry, normalized to
  the canonical shape, to stdout or the given file.

`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.out, "o", "", "Output file (defaults to stdout).")
}

func (p *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s := OpenStore()
	defer s.Close()

	doc, err := debtbook.Export(ctx, s)
	if err != nil {
		return fail(err)
	}

	w := os.Stdout
	if p.out != "" {
		file, err := os.Create(p.out)
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		w = file
	}
	if err := debtbook.EncodeDocument(w, doc); err != nil {
		return fail(err)
	}
	if p.out != "" {
		fmt.Fprintf(os.Stderr, "Exported %d clients and %d entries to %s\n", len(doc.Clients), len(doc.Tx), p.out)
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger with a previously exported document" }
func (*importCmd) Usage() string {
	return `dbk import <file>

  Validates the document first; nothing is written when it is malformed.
  Import REPLACES the current contents: every existing client and entry is
  removed before the document's records are loaded.

`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (p *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one argument: the backup file")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer file.Close()

	doc, err := debtbook.DecodeDocument(file)
	if err != nil {
		return fail(err)
	}

	s := OpenStore()
	defer s.Close()
	if err := debtbook.Import(ctx, s, doc); err != nil {
		return fail(err)
	}
	fmt.Printf("Imported %d clients and %d entries\n", len(doc.Clients), len(doc.Tx))
	return subcommands.ExitSuccess
}
