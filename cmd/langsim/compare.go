package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var phonCmd = &cobra.Command{
	Use:   "phon [flags] lang1 lang2",
	Short: "Phonological similarity of two ISO 639-3 codes",
	Long:  `Phon prints the F1 score of two resolved phoneme inventories, or the distinctive-feature score with --features`,
	Args:  cobra.ExactArgs(2),
	RunE:  runPhon,
}

var scriptCmd = &cobra.Command{
	Use:   "script lang1 lang2",
	Short: "Orthographic similarity of two ISO 639-3 codes",
	Args:  cobra.ExactArgs(2),
	RunE:  runSignal(func(ctx context.Context, s *session, l1, l2 string) (float64, error) { return s.scorer.Orthographic(ctx, l1, l2) }),
}

var genCmd = &cobra.Command{
	Use:   "gen lang1 lang2",
	Short: "Genealogical similarity of two ISO 639-3 codes",
	Args:  cobra.ExactArgs(2),
	RunE:  runSignal(func(ctx context.Context, s *session, l1, l2 string) (float64, error) { return s.scorer.Genealogical(ctx, l1, l2) }),
}

var overlapCmd = &cobra.Command{
	Use:   "overlap bridge target",
	Short: "Shared phonemes minus phonemes found only in the target",
	Args:  cobra.ExactArgs(2),
	RunE:  runOverlap,
}

var overallCmd = &cobra.Command{
	Use:   "overall lang1 lang2",
	Short: "Weighted aggregate similarity of two ISO 639-3 codes",
	Args:  cobra.ExactArgs(2),
	RunE:  runOverall,
}

func init() {
	phonCmd.Flags().Bool("features", false, "use distinctive features instead of inventory overlap")
}

func runSignal(score func(ctx context.Context, s *session, l1, l2 string) (float64, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		v, err := score(cmd.Context(), s, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), scoreColor.Sprint(formatScore(v)))
		return nil
	}
}

func runPhon(cmd *cobra.Command, args []string) error {
	features, err := cmd.Flags().GetBool("features")
	if err != nil {
		return fmt.Errorf("failed to get features flag: %w", err)
	}
	return runSignal(func(ctx context.Context, s *session, l1, l2 string) (float64, error) {
		if features {
			return s.scorer.PhonologicalFeatures(ctx, l1, l2)
		}
		return s.scorer.Phonological(ctx, l1, l2)
	})(cmd, args)
}

func runOverall(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := s.scorer.Pairwise(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	t := &table{header: []string{"signal", "score"}, paint: []*color.Color{nil, scoreColor}}
	t.add("phonological", formatScore(m.Phon))
	t.add("orthographic", formatScore(m.Orth))
	t.add("genealogical", formatScore(m.Gen))
	t.add("aggregate", formatScore(m.Aggregate))
	t.write(cmd.OutOrStdout())
	return nil
}

func runOverlap(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.scorer.Overlap(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), scoreColor.Sprint(n))
	return nil
}
