package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	headerColor = color.New(color.Bold)
	scoreColor  = color.New(color.FgGreen)
	codeColor   = color.New(color.FgCyan)
	mutedColor  = color.New(color.FgHiBlack)
	errorColor  = color.New(color.FgRed, color.Bold)
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// setupColor applies --color to every color.Color in the process.
func setupColor(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(value)
	if err != nil {
		return err
	}
	switch mode {
	case colorOn:
		color.NoColor = false
	case colorOff:
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
	return nil
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// table writes rows in left-aligned columns. Widths are measured in terminal
// cells so CJK names line up.
type table struct {
	header []string
	rows   [][]string
	paint  []*color.Color // per column, nil for plain
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(w io.Writer) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	line := func(cells []string, paint func(i int, s string) string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			padded := cell
			if i < len(cells)-1 {
				padded = runewidth.FillRight(cell, widths[i])
			}
			parts[i] = paint(i, padded)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(t.header, func(_ int, s string) string { return headerColor.Sprint(s) })
	for _, row := range t.rows {
		line(row, func(i int, s string) string {
			if i < len(t.paint) && t.paint[i] != nil {
				return t.paint[i].Sprint(s)
			}
			return s
		})
	}
}
