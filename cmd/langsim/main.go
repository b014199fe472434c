package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "langsim",
	Short: "Language similarity from phonology, script and genealogy",
	Long: `langsim ranks languages by similarity to a query language using
PHOIBLE phoneme inventories, Wikipedia character distributions and WALS
genealogy.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(phonCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(overlapCmd)
	rootCmd.AddCommand(overallCmd)
	rootCmd.AddCommand(closestCmd)
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().String("config", "", "TOML configuration file")
	rootCmd.PersistentFlags().String("data", "", "directory holding the data files not named in the config")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log at debug level to stderr")
	rootCmd.PersistentFlags().Int("jobs", 0, "pairs scored concurrently, <=0 uses all CPUs (default from config)")
}

// main executes the root command. An interrupt cancels the running command.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
