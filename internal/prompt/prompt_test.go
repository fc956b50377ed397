package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hanaasagi/qbprompt/internal/codec"
	"github.com/Hanaasagi/qbprompt/internal/config"
	"github.com/Hanaasagi/qbprompt/internal/widget"
)

func widgets(t *testing.T, align widget.Align, descs ...config.Widget) []*widget.Widget {
	t.Helper()
	out := make([]*widget.Widget, 0, len(descs))
	for i, desc := range descs {
		w, err := widget.New(desc, "PS1", align, i)
		require.NoError(t, err)
		out = append(out, w)
	}
	return out
}

func TestLeftChainTransitionRoundTrip(t *testing.T) {
	ws := widgets(t, widget.Left,
		config.Widget{Type: "WG_CUSTOM", FG: 15, BG: 4, Content: "a", Term: ">"},
		config.Widget{Type: "WG_CUSTOM", FG: 0, BG: 2, Content: "b", Term: ">"},
	)
	a, b := ws[0], ws[1]

	chain := BuildChain(ws, widget.Left)

	contentA := a.Content(widget.Transition{})
	contentB := b.Content(a.Transition())
	assert.Equal(t, contentA+contentB+b.Transition().Code+codec.Reset, chain.Text)

	// B starts on its own background and then draws A's transition
	assert.True(t, strings.HasPrefix(contentB, codec.Color(2).Bg()+a.Transition().Code))
	assert.Empty(t, chain.Static)
	assert.Empty(t, chain.Dynamic)
}

func TestRightChainIsReversed(t *testing.T) {
	ws := widgets(t, widget.Right,
		config.Widget{Type: "WG_CUSTOM", Content: "first", Term: "<"},
		config.Widget{Type: "WG_CUSTOM", Content: "second", Term: "<"},
	)
	chain := BuildChain(ws, widget.Right)

	first := strings.Index(chain.Text, "first")
	second := strings.Index(chain.Text, "second")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, second, first)

	assert.True(t, strings.HasPrefix(chain.Text, codec.SaveCursor))
	assert.True(t, strings.HasSuffix(chain.Text, codec.RestoreCursor))
	assert.NotContains(t, chain.Text, codec.EndNonPrinting)
}

func TestRightChainLength(t *testing.T) {
	ws := widgets(t, widget.Right,
		config.Widget{Type: "WG_CUSTOM", Content: "abc", Prefix: "", Suffix: ""},
		config.Widget{Type: "WG_USER_NAME", Prefix: "", Suffix: ""},
		config.Widget{Type: "WG_CUSTOM", Content: "12345", Prefix: "", Suffix: ""},
	)
	chain := BuildChain(ws, widget.Right)

	assert.Equal(t, 8, chain.Length.Resolved())
	assert.Equal(t, []string{"${#USER}"}, chain.Length.Deferred())
	assert.Contains(t, chain.Text, `\e[\$((\${COLUMNS}-\${#USER}-8))C`)
}

func TestStaticAndDynamicBuckets(t *testing.T) {
	ws := widgets(t, widget.Left,
		config.Widget{Type: "WG_USER_NAME"},
		config.Widget{Type: "WG_SSH_MARKER", Content: "ssh"},
		config.Widget{Type: "WG_ERROR_CODE"},
		config.Widget{Type: "WG_SSH_ADDRESS"},
		config.Widget{Type: "WG_CUSTOM", Content: "$"},
	)
	chain := BuildChain(ws, widget.Left)

	require.Len(t, chain.Static, 2)
	assert.True(t, strings.HasPrefix(chain.Static[0], "# WG_USER_NAME"))
	assert.True(t, strings.HasPrefix(chain.Static[1], "# WG_SSH_MARKER"))

	// the address follows a transition assigned by the hook
	require.Len(t, chain.Dynamic, 2)
	assert.True(t, strings.HasPrefix(chain.Dynamic[0], "# WG_ERROR_CODE"))
	assert.True(t, strings.HasPrefix(chain.Dynamic[1], "# WG_SSH_ADDRESS"))

	assert.False(t, chain.StaticOnly())
}

func TestHookedTransitionStopsAtInlineWidget(t *testing.T) {
	ws := widgets(t, widget.Left,
		config.Widget{Type: "WG_GIT_MARKER"},
		config.Widget{Type: "WG_CUSTOM", Content: "x"},
		config.Widget{Type: "WG_SSH_MARKER"},
	)
	chain := BuildChain(ws, widget.Left)

	require.Len(t, chain.Dynamic, 1)
	require.Len(t, chain.Static, 1)
	assert.True(t, strings.HasPrefix(chain.Static[0], "# WG_SSH_MARKER"))
}

func TestEmptyChain(t *testing.T) {
	chain := BuildChain(nil, widget.Right)

	assert.Equal(t, "", chain.Text)
	assert.True(t, chain.Length.Empty())
	assert.True(t, chain.StaticOnly())
}

func TestPrompt(t *testing.T) {
	p, err := New("PS1", config.Prompt{
		Left: []config.Widget{{Type: "WG_USER_NAME", FG: 15, BG: 4}},
	})
	require.NoError(t, err)

	assert.True(t, p.StaticOnly())
	assert.False(t, p.Empty())
	assert.Len(t, p.StaticInit(), 1)
	assert.Empty(t, p.DynamicInit())

	export := p.Export("")
	assert.True(t, strings.HasPrefix(export, `export PS1="\[`))
	assert.True(t, strings.HasSuffix(export, `\] "`))
	assert.Contains(t, export, `\u`)
}

func TestPromptWrapsWidgetErrors(t *testing.T) {
	_, err := New("PS2", config.Prompt{
		Right: []config.Widget{{Type: "WG_CUSTOM"}, {Type: "WG_CUSTOM", BG: 999}},
	})

	var verr *widget.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bg", verr.Field)
	assert.Contains(t, err.Error(), "PS2 right widget #2")
}

func TestFromConfigOrder(t *testing.T) {
	cfg := &config.Config{Prompts: map[string]config.Prompt{
		"PS4": {Left: []config.Widget{{Type: "WG_CUSTOM"}}},
		"PS1": {Left: []config.Widget{{Type: "WG_CUSTOM"}}},
		"PS2": {},
	}}

	prompts, err := FromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, prompts, 3)
	assert.Equal(t, "PS1", prompts[0].Name)
	assert.Equal(t, "PS2", prompts[1].Name)
	assert.Equal(t, "PS4", prompts[2].Name)
	assert.True(t, prompts[1].Empty())
}

func TestFromConfigReportsWidgetTypes(t *testing.T) {
	tests := []struct {
		doc   string
		kind  string
		field string
	}{
		{`{"PS1": {"left": [{"type": "WG_CUSTOM", "prefix": 5}]}}`, "WG_CUSTOM", "prefix"},
		{`{"PS1": {"left": [{"type": "WG_GIT_BRANCH", "fmt": 1}]}}`, "WG_GIT_BRANCH", "fmt"},
		{`{"PS1": {"left": [{"type": "WG_CUSTOM", "fg": null}]}}`, "WG_CUSTOM", "fg"},
		{`{"PS3": {"right": [{"type": "WG_JOBS_NUMBER", "max_width": null}]}}`, "WG_JOBS_NUMBER", "max_width"},
	}

	for _, tt := range tests {
		cfg, err := config.Parse([]byte(tt.doc), config.FormatJSON)
		require.NoError(t, err, tt.doc)

		_, err = FromConfig(cfg)
		var verr *widget.ValidationError
		require.ErrorAs(t, err, &verr, tt.doc)
		assert.Equal(t, widget.Kind(tt.kind), verr.Kind)
		assert.Equal(t, tt.field, verr.Field)
		assert.Contains(t, err.Error(), tt.kind)
	}
}
