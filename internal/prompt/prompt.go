package prompt

import (
	"fmt"

	"github.com/Hanaasagi/qbprompt/internal/codec"
	"github.com/Hanaasagi/qbprompt/internal/config"
	"github.com/Hanaasagi/qbprompt/internal/widget"
)

// Roles are the prompt variables, in emission order.
var Roles = config.Roles

// Prompt is one prompt variable with its two chains.
type Prompt struct {
	Name  string
	Left  Chain
	Right Chain
}

// New builds the widgets of both sides of the role name.
func New(name string, cfg config.Prompt) (*Prompt, error) {
	left, err := buildWidgets(name, cfg.Left, widget.Left)
	if err != nil {
		return nil, err
	}
	right, err := buildWidgets(name, cfg.Right, widget.Right)
	if err != nil {
		return nil, err
	}

	return &Prompt{
		Name:  name,
		Left:  BuildChain(left, widget.Left),
		Right: BuildChain(right, widget.Right),
	}, nil
}

func buildWidgets(name string, descs []config.Widget, align widget.Align) ([]*widget.Widget, error) {
	widgets := make([]*widget.Widget, 0, len(descs))
	for i, desc := range descs {
		w, err := widget.New(desc, name, align, i)
		if err != nil {
			return nil, fmt.Errorf("%s %s widget #%d: %w", name, align, i+1, err)
		}
		widgets = append(widgets, w)
	}
	return widgets, nil
}

// FromConfig builds every role present in cfg, in Roles order.
func FromConfig(cfg *config.Config) ([]*Prompt, error) {
	var prompts []*Prompt
	for _, role := range Roles {
		desc, ok := cfg.Prompts[role]
		if !ok {
			continue
		}
		p, err := New(role, desc)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

// StaticOnly reports whether the prompt can be set once at shell start.
func (p *Prompt) StaticOnly() bool {
	return p.Left.StaticOnly() && p.Right.StaticOnly()
}

// Empty reports a prompt without widgets.
func (p *Prompt) Empty() bool {
	return len(p.Left.Widgets) == 0 && len(p.Right.Widgets) == 0
}

// StaticInit returns the init code run when the shell starts.
func (p *Prompt) StaticInit() []string {
	return append(append([]string(nil), p.Left.Static...), p.Right.Static...)
}

// DynamicInit returns the init code run before every prompt.
func (p *Prompt) DynamicInit() []string {
	return append(append([]string(nil), p.Left.Dynamic...), p.Right.Dynamic...)
}

// Text is the prompt value. The right block is drawn first and restores
// the cursor, so the whole prompt up to the left chain text is marked
// non-printing.
func (p *Prompt) Text() string {
	return codec.BeginNonPrinting + p.Right.Text + p.Left.Text + codec.EndNonPrinting + " "
}

// Export is the statement setting the prompt variable. suffix is appended
// to the value verbatim.
func (p *Prompt) Export(suffix string) string {
	return fmt.Sprintf(`export %s="%s%s"`, p.Name, p.Text(), suffix)
}
