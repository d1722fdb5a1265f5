package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var verbosity int

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stubgen",
		Short:         "Rebuild Java API stubs from compiled classes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newSignatureCmd())
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "stubgen: %s\n", err)
		stop()
		os.Exit(1)
	}
}
