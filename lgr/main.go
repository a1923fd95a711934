package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"k8s.io/klog"

	"github.com/mlvd/ledger/cmd"
)

func main() {
	klog.InitFlags(nil)
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
