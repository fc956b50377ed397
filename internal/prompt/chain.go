// Package prompt assembles widget chains into the value of a prompt
// variable.
package prompt

import (
	"strings"

	"github.com/Hanaasagi/qbprompt/internal/codec"
	"github.com/Hanaasagi/qbprompt/internal/length"
	"github.com/Hanaasagi/qbprompt/internal/widget"
)

// ColumnsVar is the terminal width the right chain is aligned against.
const ColumnsVar = "${COLUMNS}"

// Chain is one side of a prompt after the transitions have been threaded
// through its widgets.
type Chain struct {
	Align   widget.Align
	Widgets []*widget.Widget
	// Text is the prompt text of the side, "" for an empty chain.
	Text string
	// Static holds init code run once when the shell starts, Dynamic the
	// code run by the hook before every prompt.
	Static  []string
	Dynamic []string
	Length  *length.Accumulator
}

// BuildChain folds the widgets left to right. Each step renders a widget
// against the transition of the previous one and passes its own transition
// on. Right chains are assembled in reverse so that they read correctly once
// drawn from the right edge.
func BuildChain(widgets []*widget.Widget, align widget.Align) Chain {
	chain := Chain{
		Align:   align,
		Widgets: widgets,
		Length:  length.New(),
	}
	if len(widgets) == 0 {
		return chain
	}

	var text strings.Builder
	parts := make([]string, 0, len(widgets)+1)
	prev := widget.Transition{}

	for _, w := range widgets {
		hooked := !w.Static() || (w.Conditional() && prev.Hooked)

		if init := w.Init(prev); init != "" {
			if hooked {
				chain.Dynamic = append(chain.Dynamic, init)
			} else {
				chain.Static = append(chain.Static, init)
			}
		}

		parts = append(parts, w.Content(prev))
		chain.Length.Add(w.Length()...)

		next := w.Transition()
		next.Hooked = w.Conditional() && hooked
		prev = next
	}

	if align == widget.Left {
		for _, part := range parts {
			text.WriteString(part)
		}
		text.WriteString(prev.Code)
		text.WriteString(codec.Reset)
		chain.Text = text.String()
		return chain
	}

	text.WriteString(codec.SaveCursor)
	text.WriteString(codec.MoveRight(deferExpansion("$((" + chain.Length.SubtractFrom(ColumnsVar) + "))")))
	text.WriteString(prev.Code)
	for i := len(parts) - 1; i >= 0; i-- {
		text.WriteString(parts[i])
	}
	text.WriteString(codec.RestoreCursor)
	chain.Text = text.String()
	return chain
}

// deferExpansion escapes every '$' so the expression is stored in the prompt
// variable and evaluated each time the prompt is drawn.
func deferExpansion(expr string) string {
	return strings.ReplaceAll(expr, "$", `\$`)
}

// StaticOnly reports whether every widget of the chain is static.
func (c Chain) StaticOnly() bool {
	for _, w := range c.Widgets {
		if !w.Static() {
			return false
		}
	}
	return true
}

// Measured reports whether every widget width is known.
func (c Chain) Measured() bool {
	for _, w := range c.Widgets {
		if !w.Measured() {
			return false
		}
	}
	return true
}
