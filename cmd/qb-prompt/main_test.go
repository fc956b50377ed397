package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hanaasagi/qbprompt/internal/config"
	"github.com/Hanaasagi/qbprompt/internal/prompt"
	"github.com/Hanaasagi/qbprompt/internal/widget"
	"github.com/fatih/color"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args   []string
		config string
		output string
	}{
		{nil, "", defaultOutput},
		{[]string{"c.json"}, "c.json", defaultOutput},
		{[]string{"-", "-"}, "-", defaultOutput},
		{[]string{"c.toml", "out.sh"}, "c.toml", "out.sh"},
	}

	for _, tt := range tests {
		c := &AppConfig{}
		parseArgs(c, tt.args)
		if c.configFile != tt.config || c.outputFile != tt.output {
			t.Errorf("parseArgs(%v) = (%q, %q), want (%q, %q)",
				tt.args, c.configFile, c.outputFile, tt.config, tt.output)
		}
	}
}

func TestRunAppWritesScript(t *testing.T) {
	in := writeConfig(t, "config.json", `{"PS1": {"left": [{"type":"WG_USER_NAME","fg":15,"bg":4}]}}`)
	out := filepath.Join(t.TempDir(), "prompt.sh")

	var stdout bytes.Buffer
	if err := runApp(&AppConfig{configFile: in, outputFile: out}, &stdout); err != nil {
		t.Fatalf("runApp failed: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", stdout.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read script: %v", err)
	}
	script := string(data)
	if !strings.HasPrefix(script, "#!/bin/bash\n") {
		t.Errorf("Script does not start with a shebang: %q", script)
	}
	if !strings.Contains(script, "# Generated by qb-prompt from "+in+".") {
		t.Errorf("Script header does not name the source")
	}
	if strings.Count(script, `export PS1="`) != 1 {
		t.Errorf("Expected one PS1 export in %q", script)
	}
}

func TestRunAppStdout(t *testing.T) {
	in := writeConfig(t, "config.yaml", "PS2:\n  left:\n    - type: WG_CUSTOM\n      content: \">\"\n")
	out := filepath.Join(t.TempDir(), "unused.sh")

	var stdout bytes.Buffer
	if err := runApp(&AppConfig{configFile: in, outputFile: out, stdout: true}, &stdout); err != nil {
		t.Fatalf("runApp failed: %v", err)
	}
	if !strings.Contains(stdout.String(), `export PS2="`) {
		t.Errorf("Expected PS2 export on stdout, got %q", stdout.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("Expected no output file, stat returned %v", err)
	}
}

func TestRunAppVersion(t *testing.T) {
	var stdout bytes.Buffer
	if err := runApp(&AppConfig{showVersion: true}, &stdout); err != nil {
		t.Fatalf("runApp failed: %v", err)
	}
	if got := stdout.String(); got != appName+" version: "+FullVersion+"\n" {
		t.Errorf("Unexpected version output %q", got)
	}
}

func TestRunAppErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeConfig(t, "valid.json", `{"PS1": {"left": [{"type":"WG_CUSTOM"}]}}`)

	tests := []struct {
		name     string
		config   *AppConfig
		category string
	}{
		{
			name:     "missing config",
			config:   &AppConfig{configFile: filepath.Join(dir, "missing.json"), outputFile: filepath.Join(dir, "a.sh")},
			category: "cannot read configuration",
		},
		{
			name:     "malformed json",
			config:   &AppConfig{configFile: writeConfig(t, "bad.json", `{"PS1": `), outputFile: filepath.Join(dir, "b.sh")},
			category: "invalid configuration",
		},
		{
			name:     "bad field",
			config:   &AppConfig{configFile: writeConfig(t, "field.json", `{"PS1": {"left": [{"type":"WG_USER_NAME","fg":300}]}}`), outputFile: filepath.Join(dir, "c.sh")},
			category: "invalid configuration",
		},
		{
			name:     "unknown widget",
			config:   &AppConfig{configFile: writeConfig(t, "kind.json", `{"PS1": {"left": [{"type":"WG_BOGUS"}]}}`), outputFile: filepath.Join(dir, "d.sh")},
			category: "invalid configuration",
		},
		{
			name:     "unclosed backtick",
			config:   &AppConfig{configFile: writeConfig(t, "tick.json", `{"PS1": {"left": [{"type":"WG_CUSTOM","content":"`+"`"+`x"}]}}`), outputFile: filepath.Join(dir, "f.sh")},
			category: "invalid configuration",
		},
		{
			name:     "unclosed command",
			config:   &AppConfig{configFile: writeConfig(t, "cmd.json", `{"PS1": {"left": [{"type":"WG_CUSTOM","content":"$(x"}]}}`), outputFile: filepath.Join(dir, "g.sh")},
			category: "invalid configuration",
		},
		{
			name:     "string field of wrong type",
			config:   &AppConfig{configFile: writeConfig(t, "prefix.json", `{"PS1": {"left": [{"type":"WG_CUSTOM","prefix":5}]}}`), outputFile: filepath.Join(dir, "h.sh")},
			category: "invalid configuration",
		},
		{
			name:     "explicit null",
			config:   &AppConfig{configFile: writeConfig(t, "null.json", `{"PS1": {"left": [{"type":"WG_CUSTOM","fg":null}]}}`), outputFile: filepath.Join(dir, "i.sh")},
			category: "invalid configuration",
		},
		{
			name:     "unwritable output",
			config:   &AppConfig{configFile: valid, outputFile: filepath.Join(dir, "no", "such", "dir", "e.sh")},
			category: "cannot write script",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runApp(tt.config, &bytes.Buffer{})
			if err == nil {
				t.Fatal("Expected an error")
			}
			if got := errorCategory(err); got != tt.category {
				t.Errorf("errorCategory(%v) = %q, want %q", err, got, tt.category)
			}
			if _, statErr := os.Stat(tt.config.outputFile); !os.IsNotExist(statErr) {
				t.Errorf("Expected no script to be written, stat returned %v", statErr)
			}
		})
	}
}

func TestUnknownWidgetListsKinds(t *testing.T) {
	in := writeConfig(t, "kind.json", `{"PS1": {"left": [{"type":"WG_BOGUS"}]}}`)
	err := runApp(&AppConfig{configFile: in, outputFile: filepath.Join(t.TempDir(), "x.sh")}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("Expected an error")
	}
	for _, kind := range widget.Kinds {
		if !strings.Contains(err.Error(), string(kind)) {
			t.Errorf("Error %q does not list %s", err, kind)
		}
	}
}

func TestHelp(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	root := newRootCmd(&AppConfig{})
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for _, want := range []string{"Usage:", "Arguments:", "config_file", "--benchmark", "--stdout", "inspect"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Help output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestRenderInspect(t *testing.T) {
	color.NoColor = true

	cfg, err := config.Parse([]byte(`{
		"PS1": {
			"left": [{"type":"WG_USER_NAME"}, {"type":"WG_CURRENT_DIR"}],
			"right": [{"type":"WG_CUSTOM","content":"abc"}, {"type":"WG_JOBS_NUMBER"}]
		}
	}`), config.FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	prompts, err := prompt.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	var out bytes.Buffer
	if err := renderInspect(&out, prompts, 200); err != nil {
		t.Fatalf("renderInspect failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected header, 4 widgets and a total, got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "ROLE") {
		t.Errorf("Unexpected header %q", lines[0])
	}

	checks := []struct {
		line  int
		parts []string
	}{
		{1, []string{"PS1", "left", "WG_USER_NAME", "static", "${#USER}+2"}},
		{2, []string{"PS1", "left", "WG_CURRENT_DIR", "dynamic"}},
		{3, []string{"PS1", "right", "WG_CUSTOM", "static", "5"}},
		{4, []string{"PS1", "right", "WG_JOBS_NUMBER", "dynamic"}},
		{5, []string{"PS1 right offset: ${COLUMNS}-"}},
	}
	for _, c := range checks {
		for _, part := range c.parts {
			if !strings.Contains(lines[c.line], part) {
				t.Errorf("Line %d %q does not contain %q", c.line, lines[c.line], part)
			}
		}
	}
}

func TestRenderInspectTruncates(t *testing.T) {
	color.NoColor = true

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	prompts, err := prompt.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	var out bytes.Buffer
	if err := renderInspect(&out, prompts, 20); err != nil {
		t.Fatalf("renderInspect failed: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		if w := len([]rune(line)); w > 20 {
			t.Errorf("Line %q is %d cells wide", line, w)
		}
	}
}
