package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory lang",
	Short: "Show the resolved phoneme inventory of an ISO 639-3 code",
	Args:  cobra.ExactArgs(1),
	RunE:  runInventory,
}

func runInventory(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	set, res, err := s.scorer.Inventory(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	how := "fallback"
	if res.ByTrump {
		how = "trump"
	}
	if res.Chosen != "" {
		fmt.Fprintf(out, "%s %s %s\n", headerColor.Sprint("source:"), codeColor.Sprint(res.Chosen), mutedColor.Sprintf("(%s)", how))
	}
	if len(res.Discarded) > 0 {
		t := &table{header: []string{"discarded", "phonemes"}, paint: []*color.Color{codeColor}}
		for _, d := range res.Discarded {
			t.add(d.Source, fmt.Sprint(d.Size))
		}
		t.write(out)
	}
	fmt.Fprintf(out, "%s %d\n", headerColor.Sprint("phonemes:"), len(set))
	fmt.Fprintln(out, strings.Join(set.Sorted(), " "))
	return nil
}
