package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/botirk38/langsim/loader"
)

var dumpCmd = &cobra.Command{
	Use:   "dump --dir D --out F",
	Short: "Count characters of wikidata.* text dumps into a msgpack file",
	Long: `Dump reads every wikidata.<Wikipedia name> file in --dir, counts its
characters and writes the resulting table to --out for use as the chardump
data file.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().String("dir", ".", "directory holding wikidata.* files")
	dumpCmd.Flags().String("out", "sizes-langdists.msgpack", "output file")
}

func runDump(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}

	if err := setupColor(cmd); err != nil {
		return err
	}
	cfg, err := readConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dump, err := loader.BuildDump(cmd.Context(), dir, cfg.Jobs, logger.Named("dump"))
	if err != nil {
		return err
	}
	if err := loader.SaveDumpFile(out, dump); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s languages to %s\n", scoreColor.Sprint(len(dump)), codeColor.Sprint(out))
	return nil
}
