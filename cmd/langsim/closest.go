package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/botirk38/langsim/ranking"
)

var closestCmd = &cobra.Command{
	Use:   "closest [flags] lang",
	Short: "Rank languages by similarity to an ISO 639-3 code",
	Long: `Closest ranks every other language by one signal or by the weighted
aggregate (the default). Languages missing data for the chosen signal are
left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runClosest,
}

func init() {
	closestCmd.Flags().String("signal", "overall", "ranking signal (phon|features|script|gen|typology|overall)")
	closestCmd.Flags().Int("top", 20, "number of languages to print, <=0 prints all")
}

func runClosest(cmd *cobra.Command, args []string) error {
	signal, err := cmd.Flags().GetString("signal")
	if err != nil {
		return fmt.Errorf("failed to get signal flag: %w", err)
	}
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return fmt.Errorf("failed to get top flag: %w", err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	query := args[0]
	var neighbors []ranking.Neighbor

	switch signal {
	case "overall":
		return printReport(cmd, s, query, top)
	case "phon":
		neighbors, err = s.scorer.ClosestPhonological(ctx, query, top)
	case "features":
		neighbors, err = s.scorer.ClosestFeatures(ctx, query, top)
	case "script":
		neighbors, err = s.scorer.ClosestOrthographic(ctx, query, top)
	case "gen":
		neighbors, err = s.scorer.ClosestGenealogical(ctx, query, top)
	case "typology":
		neighbors, err = s.scorer.ClosestTypological(ctx, query, top)
	default:
		return fmt.Errorf("unknown signal: %s", signal)
	}
	if err != nil {
		return err
	}

	t := &table{header: []string{"rank", "lang", "score"}, paint: []*color.Color{mutedColor, codeColor, scoreColor}}
	for i, n := range neighbors {
		t.add(fmt.Sprint(i+1), n.Code, formatScore(n.Score))
	}
	t.write(cmd.OutOrStdout())
	return nil
}

func printReport(cmd *cobra.Command, s *session, query string, top int) error {
	report, err := s.scorer.Closest(cmd.Context(), query)
	if err != nil {
		return err
	}

	matches := report.Matches
	if top > 0 && len(matches) > top {
		matches = matches[:top]
	}

	t := &table{
		header: []string{"rank", "iso3", "wikipedia", "overall", "phon", "script", "gen"},
		paint:  []*color.Color{mutedColor, codeColor, nil, scoreColor},
	}
	for i, m := range matches {
		t.add(
			fmt.Sprint(i+1),
			m.Lang.ISO3,
			m.Lang.WikiName,
			formatScore(m.Aggregate),
			formatScore(m.Phon),
			formatScore(m.Orth),
			formatScore(m.Gen),
		)
	}
	t.write(cmd.OutOrStdout())

	if n := len(report.Excluded); n > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), mutedColor.Sprintf("%d languages excluded for missing data (use --verbose for details)", n))
	}
	return nil
}
