package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Hanaasagi/qbprompt/cmd"
	"github.com/Hanaasagi/qbprompt/internal/length"
	"github.com/Hanaasagi/qbprompt/internal/prompt"
	"github.com/Hanaasagi/qbprompt/internal/widget"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultWidth = 80

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [config_file|-]",
		Short: "List the widgets of every prompt and their lengths",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			prompts, _, err := loadPrompts(arg)
			if err != nil {
				return err
			}
			return renderInspect(c.OutOrStdout(), prompts, terminalWidth())
		},
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

type inspectRow struct {
	role, side, index, kind, class, length string
	static                                 bool
}

// renderInspect prints one row per widget. Rows are cut to width cells.
func renderInspect(w io.Writer, prompts []*prompt.Prompt, width int) error {
	var rows []inspectRow
	var totals []string

	for _, p := range prompts {
		for _, chain := range []prompt.Chain{p.Left, p.Right} {
			for i, wg := range chain.Widgets {
				row := inspectRow{
					role:   p.Name,
					side:   chain.Align.String(),
					index:  strconv.Itoa(i + 1),
					kind:   string(wg.Kind()),
					static: wg.Static(),
				}
				if row.static {
					row.class = "static"
				} else {
					row.class = "dynamic"
				}
				if wg.Measured() {
					row.length = length.New(wg.VisibleLength()...).Sum()
				} else {
					row.length = "?"
				}
				rows = append(rows, row)
			}
			if chain.Align == widget.Right && len(chain.Widgets) > 0 {
				totals = append(totals, fmt.Sprintf("%s right offset: %s", p.Name, chain.Length.SubtractFrom(prompt.ColumnsVar)))
			}
		}
	}

	header := inspectRow{role: "ROLE", side: "SIDE", index: "#", kind: "WIDGET", class: "KIND", length: "LENGTH"}
	widths := columnWidths(append([]inspectRow{header}, rows...))

	if _, err := fmt.Fprintln(w, fit(formatRow(header, widths), width)); err != nil {
		return err
	}
	for _, row := range rows {
		line := fit(formatRow(row, widths), width)
		style := cmd.DynamicStyle
		if row.static {
			style = cmd.StaticStyle
		}
		if _, err := style.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, total := range totals {
		if _, err := fmt.Fprintln(w, fit(total, width)); err != nil {
			return err
		}
	}
	return nil
}

func (r inspectRow) cells() []string {
	return []string{r.role, r.side, r.index, r.kind, r.class, r.length}
}

func columnWidths(rows []inspectRow) []int {
	widths := make([]int, len(rows[0].cells()))
	for _, row := range rows {
		for i, cell := range row.cells() {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func formatRow(row inspectRow, widths []int) string {
	cells := row.cells()
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == len(cells)-1 {
			b.WriteString(cell)
			continue
		}
		b.WriteString(runewidth.FillRight(cell, widths[i]))
	}
	return b.String()
}

func fit(line string, width int) string {
	if runewidth.StringWidth(line) <= width {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}
