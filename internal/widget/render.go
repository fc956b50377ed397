package widget

import (
	"fmt"
	"strings"

	"github.com/Hanaasagi/qbprompt/internal/codec"
	"github.com/Hanaasagi/qbprompt/internal/length"
	"github.com/Hanaasagi/qbprompt/pkg/ps1parser"
)

// ErrCodeVar holds the exit status of the last command. The hook assigns it
// before anything else runs.
const ErrCodeVar = "QB_ERR_CODE"

func (w *Widget) variable(name string) string {
	return w.id + "_" + name
}

// ref expands one of the widget variables.
func (w *Widget) ref(name string) string {
	return "${" + w.variable(name) + "}"
}

// body is the text between prefix and suffix, as double quoted script text.
// Values taken from the environment are referenced with an escaped '$' so
// they are expanded when the prompt is drawn and never parsed as prompt
// syntax.
func (w *Widget) body() string {
	switch w.payload.(type) {
	case UserMarker:
		return `\\$`
	case UserName:
		return `\u`
	case SSHAddress, GitBranch:
		return `\` + w.ref("VALUE")
	case CurrentDir:
		return `\` + w.ref("PATH")
	case JobsNumber:
		return w.ref("VALUE")
	case ErrorCode:
		return "${" + ErrCodeVar + "}"
	}
	return quoteText(w.style.Content)
}

// colors returns the foreground, background and background-as-foreground
// sequences of the widget.
func (w *Widget) colors() (fg, bg, bgAsFg string) {
	switch w.payload.(type) {
	case UserMarker, UserName:
		return codec.FgVar(w.variable("FG")), codec.BgVar(w.variable("BG")), codec.FgVar(w.variable("BG"))
	}
	return w.style.FG.Fg(), w.style.BG.Bg(), w.style.BG.Fg()
}

// render draws the widget after the transition of its left neighbor. Left
// chains toggle the readline markers around printable text; right chains
// sit inside one non-printing block and carry no markers.
func (w *Widget) render(prev string) string {
	fg, bg, _ := w.colors()
	format := w.style.Format.Code()

	if w.align == Right {
		return fg + bg + format + w.printable + codec.Reset + bg + prev + codec.Reset
	}
	return bg + prev + fg + format + codec.EndNonPrinting + w.printable + codec.BeginNonPrinting + codec.Reset
}

// transition draws the terminator in the widget background color.
func (w *Widget) transition() string {
	_, _, bgAsFg := w.colors()
	if w.align == Right {
		return bgAsFg + w.style.Term
	}
	return bgAsFg + codec.EndNonPrinting + w.style.Term + codec.BeginNonPrinting
}

// Content returns the prompt text of the widget drawn after prev.
func (w *Widget) Content(prev Transition) string {
	if w.Conditional() {
		return w.ref("CONTENT")
	}
	if _, ok := w.payload.(Custom); ok && w.printable == "" && prev.Code == "" {
		return ""
	}
	return w.render(prev.Code)
}

// Transition returns the fragment handed to the next widget. Hooked is left
// for the chain builder to decide.
func (w *Widget) Transition() Transition {
	if w.Conditional() {
		return Transition{Code: w.ref("TRANSITION")}
	}
	return Transition{Code: w.transition()}
}

// Init returns the shell code that must run before the widget content is
// expanded, or "" when there is none.
func (w *Widget) Init(prev Transition) string {
	switch p := w.payload.(type) {
	case UserMarker:
		return w.rootColorInit(p.RootFG, p.RootBG)
	case UserName:
		return w.rootColorInit(p.RootFG, p.RootBG)
	case CurrentDir:
		return w.currentDirInit(p)
	}
	if w.Conditional() {
		return w.conditionalInit(prev)
	}
	return ""
}

type condition struct {
	pre  []string
	test string
}

func (w *Widget) condition() condition {
	value := w.variable("VALUE")

	switch w.payload.(type) {
	case SSHMarker:
		return condition{test: `[ -n "${SSH_TTY}" ]`}
	case SSHAddress:
		return condition{
			pre: []string{
				value + `="${SSH_CONNECTION#* * }"`,
				value + `="${` + value + `%% *}"`,
			},
			test: `[ -n "${` + value + `}" ]`,
		}
	case JobsNumber:
		return condition{
			pre: []string{
				value + `=$(jobs -p | wc -l)`,
				value + `=$((` + value + `))`,
			},
			test: `[ "${` + value + `}" -gt 0 ]`,
		}
	case ErrorCode:
		return condition{test: `[ "${` + ErrCodeVar + `}" -ne 0 ]`}
	case GitBranch:
		return condition{
			// a detached or unborn HEAD falls back to the short commit id
			pre:  []string{value + `=$(git symbolic-ref --short HEAD 2> /dev/null || git rev-parse --short HEAD 2> /dev/null)`},
			test: `[ -n "${` + value + `}" ]`,
		}
	case GitMarker:
		// prints "false" with status 0 inside .git
		return condition{test: `[ "$(git rev-parse --is-inside-work-tree 2> /dev/null)" = "true" ]`}
	}
	return condition{test: ":"}
}

func (w *Widget) conditionalInit(prev Transition) string {
	c := w.condition()
	lines := []string{"# " + string(w.kind)}
	lines = append(lines, c.pre...)

	lines = append(lines,
		"if "+c.test+"; then",
		fmt.Sprintf(`    %s="%s"`, w.variable("CONTENT"), w.render(prev.Code)),
		fmt.Sprintf(`    %s="%s"`, w.variable("TRANSITION"), w.transition()))
	if w.align == Right {
		lines = append(lines, fmt.Sprintf("    %s=%s", w.variable("LEN"), w.lengthExpr()))
	}

	lines = append(lines,
		"else",
		fmt.Sprintf(`    %s=""`, w.variable("CONTENT")),
		fmt.Sprintf(`    %s="%s"`, w.variable("TRANSITION"), prev.Code))
	if w.align == Right {
		lines = append(lines, fmt.Sprintf("    %s=0", w.variable("LEN")))
	}
	lines = append(lines, "fi")

	return strings.Join(lines, "\n")
}

func (w *Widget) rootColorInit(rootFG, rootBG codec.Color) string {
	return strings.Join([]string{
		"# " + string(w.kind),
		`if [ "${UID}" -eq 0 ]; then`,
		fmt.Sprintf(`    %s="%s"`, w.variable("FG"), rootFG.Suffix()),
		fmt.Sprintf(`    %s="%s"`, w.variable("BG"), rootBG.Suffix()),
		"else",
		fmt.Sprintf(`    %s="%s"`, w.variable("FG"), w.style.FG.Suffix()),
		fmt.Sprintf(`    %s="%s"`, w.variable("BG"), w.style.BG.Suffix()),
		"fi",
	}, "\n")
}

// currentDirInit computes the displayed path: the home prefix becomes '~',
// a path longer than MaxWidth percent of the columns keeps its head and tail
// around the ellipsis, and separators other than '/' are drawn in their own
// color.
func (w *Widget) currentDirInit(p CurrentDir) string {
	pathVar := w.variable("PATH")
	limit := w.variable("MAX")
	keep := w.variable("KEEP")
	ellipsisCells := cells(p.Ellipsis)

	lines := []string{
		"# " + string(w.kind),
		pathVar + `="${PWD}"`,
		`case "${PWD}" in`,
		`    "${HOME}") ` + pathVar + `="~" ;;`,
		`    "${HOME}"/*) ` + pathVar + `="~${PWD#"${HOME}"}" ;;`,
		"esac",
		fmt.Sprintf("%s=$((${COLUMNS:-80}*%d/100))", limit, p.MaxWidth),
		fmt.Sprintf(`if [ "${#%s}" -gt "${%s}" ]; then`, pathVar, limit),
		fmt.Sprintf("    %s=$(((%s-%d)/2))", keep, limit, ellipsisCells),
		fmt.Sprintf(`    [ "${%s}" -lt 1 ] && %s=1`, keep, keep),
		fmt.Sprintf(`    %s="${%s:0:%s}%s${%s: -%s}"`, pathVar, pathVar, keep, p.Ellipsis, pathVar, keep),
		"fi",
		fmt.Sprintf("%s=${#%s}", w.variable("WIDTH"), pathVar),
	}

	if p.Separator == DefaultSeparator {
		return strings.Join(lines, "\n")
	}

	sep := w.variable("SEP")
	rest := w.variable("REST")
	begin, end := `\001`, `\002`
	if w.align == Right {
		// the whole right block is already non-printing
		begin, end = "", ""
	}

	lines = append(lines,
		fmt.Sprintf(`%s=$'%s%s%s'"%s"$'%s%s%s'`, sep,
			begin, p.SeparatorFG.Fg(), end, p.Separator, begin, w.style.FG.Fg(), end),
		fmt.Sprintf(`%s="${%s:1}"`, rest, pathVar))
	if sepCells := cells(p.Separator); sepCells != 1 {
		slashes := w.variable("SLASHES")
		lines = append(lines,
			fmt.Sprintf(`%s="${%s//[^\/]/}"`, slashes, rest),
			fmt.Sprintf("%s=$((%s+${#%s}*%d))", w.variable("WIDTH"), w.ref("WIDTH"), slashes, sepCells-1))
	}
	lines = append(lines,
		fmt.Sprintf(`%s="${%s:0:1}${%s//\//"${%s}"}"`, pathVar, pathVar, rest, sep))

	return strings.Join(lines, "\n")
}

// cells is the width of configured literal text, 0 when it cannot be known.
func cells(text string) int {
	width, err := ps1parser.Measure(ps1parser.UnquoteDouble(text))
	if err != nil {
		return 0
	}
	return width.Cells
}

// lengthExpr is the visible width assigned to the _LEN variable.
func (w *Widget) lengthExpr() string {
	return length.New(w.length...).Expr()
}
