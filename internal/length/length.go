// Package length accumulates the printable width of right aligned chains.
//
// A width is known either when the script is generated (Resolved) or only
// when the prompt is drawn (Deferred, a shell arithmetic operand such as
// ${#USER}). Resolved terms are folded into one integer; deferred terms are
// kept verbatim and joined in the order they were added.
package length

import (
	"strconv"
	"strings"
)

// Term is one contribution to a chain width.
type Term struct {
	value    int
	expr     string
	deferred bool
}

// Resolved returns a term known at generation time.
func Resolved(n int) Term { return Term{value: n} }

// Deferred returns a term evaluated by the shell. expr must be a single
// arithmetic operand: a variable expansion, $((...)) or a parenthesized
// expression.
func Deferred(expr string) Term { return Term{expr: expr, deferred: true} }

func (t Term) IsDeferred() bool { return t.deferred }

// Value is the cell count of a resolved term, 0 for deferred ones.
func (t Term) Value() int { return t.value }

// Expr is the shell text of the term.
func (t Term) Expr() string {
	if t.deferred {
		return t.expr
	}
	return strconv.Itoa(t.value)
}

func (t Term) String() string { return t.Expr() }

// Accumulator folds terms into a width expression.
type Accumulator struct {
	resolved int
	deferred []string
}

// New returns an accumulator holding terms.
func New(terms ...Term) *Accumulator {
	a := &Accumulator{}
	a.Add(terms...)
	return a
}

func (a *Accumulator) Add(terms ...Term) {
	for _, t := range terms {
		if t.deferred {
			a.deferred = append(a.deferred, t.expr)
		} else {
			a.resolved += t.value
		}
	}
}

// Resolved is the sum of every resolved term.
func (a *Accumulator) Resolved() int { return a.resolved }

// Deferred lists the deferred terms in insertion order.
func (a *Accumulator) Deferred() []string {
	return append([]string(nil), a.deferred...)
}

// Empty reports whether the accumulated width is statically zero.
func (a *Accumulator) Empty() bool { return a.resolved == 0 && len(a.deferred) == 0 }

// Sum joins the deferred terms and the folded literal with '+'. The literal
// is omitted when it is zero; an empty accumulator sums to "0".
func (a *Accumulator) Sum() string {
	return a.join("+", "0")
}

// SubtractFrom renders base minus every term, e.g. "${COLUMNS}-${#USER}-8".
func (a *Accumulator) SubtractFrom(base string) string {
	if a.Empty() {
		return base
	}
	return base + "-" + a.join("-", "")
}

// Expr renders the width as a value assignable to a shell variable: a plain
// number when nothing is deferred, $((...)) otherwise.
func (a *Accumulator) Expr() string {
	if len(a.deferred) == 0 {
		return strconv.Itoa(a.resolved)
	}
	return "$((" + a.Sum() + "))"
}

func (a *Accumulator) join(sep, empty string) string {
	parts := a.Deferred()
	if a.resolved != 0 {
		parts = append(parts, strconv.Itoa(a.resolved))
	}
	if len(parts) == 0 {
		return empty
	}
	return strings.Join(parts, sep)
}
