// Package widget models the segments a prompt line is built from.
//
// A Widget is constructed once from its configuration descriptor and is
// immutable afterwards. The chain builder threads a Transition through
// consecutive widgets: every widget renders against the transition of its
// left neighbor and hands its own transition to the next one.
package widget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Hanaasagi/qbprompt/internal/codec"
	"github.com/Hanaasagi/qbprompt/internal/config"
	"github.com/Hanaasagi/qbprompt/internal/length"
	"github.com/Hanaasagi/qbprompt/pkg/ps1parser"
)

// Defaults applied to absent fields.
const (
	DefaultPrefix    = " "
	DefaultSuffix    = " "
	DefaultSeparator = "/"
	DefaultMaxWidth  = 40
	DefaultEllipsis  = "···"
)

// Style is the validated configuration shared by every kind.
type Style struct {
	FG      codec.Color
	BG      codec.Color
	Format  codec.Format
	Term    string
	Prefix  string
	Suffix  string
	Content string
}

// Payload is the kind specific configuration. The set of implementations
// is closed.
type Payload interface {
	payload()
}

type SSHMarker struct{}

type SSHAddress struct{}

// UserMarker draws the privilege glyph, in root colors for uid 0.
type UserMarker struct {
	RootFG codec.Color
	RootBG codec.Color
}

type UserName struct {
	RootFG codec.Color
	RootBG codec.Color
}

// Custom draws configured text. Length overrides the measured width of the
// content when set.
type Custom struct {
	Length *length.Term
}

type CurrentDir struct {
	SeparatorFG codec.Color
	Separator   string
	MaxWidth    int // percent of the terminal columns
	Ellipsis    string
}

type JobsNumber struct{}

type ErrorCode struct{}

type GitBranch struct{}

type GitMarker struct{}

func (SSHMarker) payload()  {}
func (SSHAddress) payload() {}
func (UserMarker) payload() {}
func (UserName) payload()   {}
func (Custom) payload()     {}
func (CurrentDir) payload() {}
func (JobsNumber) payload() {}
func (ErrorCode) payload()  {}
func (GitBranch) payload()  {}
func (GitMarker) payload()  {}

// Transition is the escape fragment a widget leaves for its right
// neighbor. Hooked marks code that reads variables assigned in the
// per-prompt hook.
type Transition struct {
	Code   string
	Hooked bool
}

// Widget is one prompt segment.
type Widget struct {
	kind    Kind
	align   Align
	id      string
	style   Style
	payload Payload

	printable string
	length    []length.Term
	measured  bool
}

// New builds the widget described by desc. slot, align and index place it
// in the generated script and name its shell variables.
func New(desc config.Widget, slot string, align Align, index int) (*Widget, error) {
	kind, err := ParseKind(desc.Type)
	if err != nil {
		return nil, err
	}

	w := &Widget{
		kind:  kind,
		align: align,
		id:    fmt.Sprintf("QB_%s_%s%d_%s", strings.ToUpper(slot), align.letter(), index, kind.short()),
	}
	if len(desc.Nulls) > 0 {
		return nil, &ValidationError{Kind: kind, Field: desc.Nulls[0], Err: errNull}
	}

	if w.style, err = w.parseStyle(desc); err != nil {
		return nil, err
	}
	if w.payload, err = w.parsePayload(desc); err != nil {
		return nil, err
	}

	w.printable = quoteText(w.style.Prefix) + w.body() + quoteText(w.style.Suffix)
	if err := w.measure(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Widget) parseStyle(desc config.Widget) (Style, error) {
	s := Style{
		FG:     codec.Default,
		BG:     codec.Default,
		Prefix: DefaultPrefix,
		Suffix: DefaultSuffix,
	}

	var err error
	if desc.FG != nil {
		if s.FG, err = codec.ParseColor(desc.FG); err != nil {
			return s, &ValidationError{Kind: w.kind, Field: "fg", Err: err}
		}
	}
	if desc.BG != nil {
		if s.BG, err = codec.ParseColor(desc.BG); err != nil {
			return s, &ValidationError{Kind: w.kind, Field: "bg", Err: err}
		}
	}
	if desc.Fmt != nil {
		flags, err := w.text("fmt", desc.Fmt)
		if err != nil {
			return s, err
		}
		if s.Format, err = codec.ParseFormat(flags); err != nil {
			return s, &ValidationError{Kind: w.kind, Field: "fmt", Err: err}
		}
	}
	if desc.Term != nil {
		if s.Term, err = w.text("term", desc.Term); err != nil {
			return s, err
		}
		s.Term = quoteText(s.Term)
	}
	if desc.Prefix != nil {
		if s.Prefix, err = w.text("prefix", desc.Prefix); err != nil {
			return s, err
		}
	}
	if suffix, key := desc.SuffixText(); suffix != nil {
		if s.Suffix, err = w.text(key, suffix); err != nil {
			return s, err
		}
	}
	if desc.Content != nil {
		if s.Content, err = w.text("content", desc.Content); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (w *Widget) parsePayload(desc config.Widget) (Payload, error) {
	switch w.kind {
	case KindSSHMarker:
		return SSHMarker{}, nil
	case KindSSHAddress:
		return SSHAddress{}, nil
	case KindUserMarker:
		fg, bg, err := w.rootColors(desc)
		return UserMarker{RootFG: fg, RootBG: bg}, err
	case KindUserName:
		fg, bg, err := w.rootColors(desc)
		return UserName{RootFG: fg, RootBG: bg}, err
	case KindCustom:
		return w.parseCustom(desc)
	case KindCurrentDir:
		return w.parseCurrentDir(desc)
	case KindJobsNumber:
		return JobsNumber{}, nil
	case KindErrorCode:
		return ErrorCode{}, nil
	case KindGitBranch:
		return GitBranch{}, nil
	case KindGitMarker:
		return GitMarker{}, nil
	}
	return nil, &UnknownKindError{Type: string(w.kind)}
}

// rootColors reads secondary_fg/secondary_bg, defaulting to the regular
// colors.
func (w *Widget) rootColors(desc config.Widget) (codec.Color, codec.Color, error) {
	fg, bg := w.style.FG, w.style.BG

	var err error
	if desc.SecondaryFG != nil {
		if fg, err = codec.ParseColor(desc.SecondaryFG); err != nil {
			return 0, 0, &ValidationError{Kind: w.kind, Field: "secondary_fg", Err: err}
		}
	}
	if desc.SecondaryBG != nil {
		if bg, err = codec.ParseColor(desc.SecondaryBG); err != nil {
			return 0, 0, &ValidationError{Kind: w.kind, Field: "secondary_bg", Err: err}
		}
	}
	return fg, bg, nil
}

func (w *Widget) parseCustom(desc config.Widget) (Payload, error) {
	if desc.Length == nil {
		return Custom{}, nil
	}

	if expr, ok := desc.Length.(string); ok {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			return nil, &ValidationError{Kind: w.kind, Field: "length", Err: errors.New("empty expression")}
		}
		term := length.Deferred("(" + expr + ")")
		return Custom{Length: &term}, nil
	}

	n, err := toInt(desc.Length)
	if err != nil {
		return nil, &ValidationError{Kind: w.kind, Field: "length", Err: err}
	}
	if err := w.checkLimits(limits{MaxWidth: DefaultMaxWidth, Length: n, Separator: DefaultSeparator}); err != nil {
		return nil, err
	}
	term := length.Resolved(n)
	return Custom{Length: &term}, nil
}

func (w *Widget) parseCurrentDir(desc config.Widget) (Payload, error) {
	p := CurrentDir{
		SeparatorFG: w.style.FG,
		Separator:   DefaultSeparator,
		MaxWidth:    DefaultMaxWidth,
		Ellipsis:    DefaultEllipsis,
	}

	var err error
	if desc.SecondaryFG != nil {
		if p.SeparatorFG, err = codec.ParseColor(desc.SecondaryFG); err != nil {
			return nil, &ValidationError{Kind: w.kind, Field: "secondary_fg", Err: err}
		}
	}
	if desc.MaxWidth != nil {
		if p.MaxWidth, err = toInt(desc.MaxWidth); err != nil {
			return nil, &ValidationError{Kind: w.kind, Field: "max_width", Err: err}
		}
	}
	if desc.Separator != nil {
		if p.Separator, err = w.text("separator", desc.Separator); err != nil {
			return nil, err
		}
	}
	if desc.Ellipsis != nil {
		if p.Ellipsis, err = w.text("ellipsis", desc.Ellipsis); err != nil {
			return nil, err
		}
	}

	l := limits{MaxWidth: p.MaxWidth, Separator: p.Separator, Ellipsis: p.Ellipsis}
	if err := w.checkLimits(l); err != nil {
		return nil, err
	}
	for _, f := range []field{{"separator", p.Separator}, {"ellipsis", p.Ellipsis}} {
		if err := ps1parser.ValidatePS1(ps1parser.UnquoteDouble(quoteText(f.text))); err != nil {
			return nil, &ValidationError{Kind: w.kind, Field: f.name, Err: err}
		}
	}
	p.Separator = quoteText(p.Separator)
	p.Ellipsis = quoteText(p.Ellipsis)
	return p, nil
}

type field struct {
	name string
	text string
}

// measure computes the width terms of the widget. Right aligned widgets
// need every field measurable; left aligned ones are drawn from column 0 and
// their width is informational. Text that does not parse is rejected on
// both sides.
func (w *Widget) measure() error {
	var terms []length.Term
	fields := []field{{"prefix", quoteText(w.style.Prefix)}}

	switch p := w.payload.(type) {
	case Custom:
		if p.Length != nil {
			if err := ps1parser.ValidatePS1(ps1parser.UnquoteDouble(w.body())); err != nil {
				return &ValidationError{Kind: w.kind, Field: "content", Err: err}
			}
			terms = append(terms, *p.Length)
		} else {
			fields = append(fields, field{"content", w.body()})
		}
	case CurrentDir:
		terms = append(terms, length.Deferred("${"+w.id+"_WIDTH}"))
	default:
		fields = append(fields, field{"content", w.body()})
	}
	fields = append(fields, field{"suffix", quoteText(w.style.Suffix)}, field{"term", w.style.Term})

	measured := true
	for _, f := range fields {
		width, err := ps1parser.Measure(ps1parser.UnquoteDouble(f.text))
		if err != nil {
			if w.align == Left && errors.Is(err, ps1parser.ErrUnmeasurable) {
				measured = false
				continue
			}
			return &ValidationError{Kind: w.kind, Field: f.name, Err: err}
		}
		terms = append(terms, length.Resolved(width.Cells))
		for _, expr := range width.Runtime {
			terms = append(terms, length.Deferred(expr))
		}
	}

	if !measured {
		terms = nil
	}
	w.length, w.measured = terms, measured
	return nil
}

// quoteText escapes the double quotes of configured text so it can be placed
// inside a double quoted shell string. Text is otherwise taken verbatim.
func quoteText(s string) string {
	if !strings.Contains(s, `"`) {
		return s
	}

	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '"' && !escaped {
			b.WriteByte('\\')
		}
		escaped = r == '\\' && !escaped
		b.WriteRune(r)
	}
	return b.String()
}

func (w *Widget) Kind() Kind { return w.kind }

func (w *Widget) Align() Align { return w.align }

// ID is the prefix of the shell variables owned by the widget.
func (w *Widget) ID() string { return w.id }

func (w *Widget) Style() Style { return w.style }

func (w *Widget) Payload() Payload { return w.payload }

// Printable is the text drawn between the widget colors.
func (w *Widget) Printable() string { return w.printable }

// Static reports whether the widget is fully resolved when the shell starts.
func (w *Widget) Static() bool {
	switch w.payload.(type) {
	case SSHMarker, SSHAddress, UserMarker, UserName, Custom:
		return true
	}
	return false
}

// Conditional reports whether the widget may be hidden at runtime.
func (w *Widget) Conditional() bool {
	switch w.payload.(type) {
	case SSHMarker, SSHAddress, JobsNumber, ErrorCode, GitBranch, GitMarker:
		return true
	}
	return false
}

// Measured reports whether Length is known. Only left aligned widgets may be
// unmeasured.
func (w *Widget) Measured() bool { return w.measured }

// Length is the contribution of the widget to a right aligned chain.
func (w *Widget) Length() []length.Term {
	if w.Conditional() {
		return []length.Term{length.Deferred("${" + w.id + "_LEN}")}
	}
	return append([]length.Term(nil), w.length...)
}

// VisibleLength is the width of the widget when it is shown.
func (w *Widget) VisibleLength() []length.Term {
	return append([]length.Term(nil), w.length...)
}
