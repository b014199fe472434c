package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/botirk38/langsim/cluster"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Group Wikipedia languages into script clusters",
	Args:  cobra.NoArgs,
	RunE:  runClusters,
}

func runClusters(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	clusters, err := s.scorer.Clusters(cmd.Context())
	if err != nil {
		return err
	}

	summary, n := cluster.Summary(clusters, s.data.Orthography)
	out := cmd.OutOrStdout()
	for i, members := range summary {
		parts := make([]string, len(members))
		for j, m := range members {
			parts[j] = fmt.Sprintf("%s (%d)", m.Code, m.Size)
		}
		fmt.Fprintf(out, "%s %s %s\n",
			mutedColor.Sprintf("%3d", i+1),
			codeColor.Sprint(clusters[i].Seed+":"),
			strings.Join(parts, ", "),
		)
	}
	fmt.Fprintf(out, "There are %s scripts represented.\n", scoreColor.Sprint(n))
	return nil
}
