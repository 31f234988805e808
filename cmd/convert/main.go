package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OFFIS-RIT/catalog-graph/internal/util"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "convert",
		Short:        "Convert a catalog table into an entity-relationship graph",
		SilenceUsage: true,
		RunE:         runConvertCmd,
	}
	addConvertFlags(root)

	run := &cobra.Command{
		Use:   "run",
		Short: "Convert a catalog table (default command)",
		RunE:  runConvertCmd,
	}
	addConvertFlags(run)

	root.AddCommand(run, newSchemaCmd())
	return root
}

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
