package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/mlvd/ledger"
	"github.com/mlvd/ledger/store"
)

// initCmd creates a fresh database with its root account.
type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new ledger database" }
func (*initCmd) Usage() string {
	return `lgr init

  Creates the database file named in the configuration, with an empty
  account tree ready for add-commodity and add-account.
`
}

func (*initCmd) SetFlags(*flag.FlagSet) {}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := commandContext(ctx)
	defer cancel()

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return fail(err)
	}
	s, err := store.Open(cfg.DBFile)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	root := &ledger.Account{GUID: uuid.NewString(), Name: "Root", Type: ledger.TypeRoot}
	if err := s.SaveAccount(ctx, root); err != nil {
		return fail(err)
	}
	fmt.Printf("initialized %s\n", cfg.DBFile)
	return subcommands.ExitSuccess
}
