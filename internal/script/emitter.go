// Package script emits the bash program that installs the prompts.
package script

import (
	"fmt"
	"strings"

	"github.com/Hanaasagi/qbprompt/internal/prompt"
	"github.com/Hanaasagi/qbprompt/internal/widget"
)

const (
	// HookName is the function run from PROMPT_COMMAND before every prompt.
	HookName = "__qb_prompt_hook"
	// BenchName prints and records the render time of PS1.
	BenchName = "__qb_prompt_bench"

	DefaultProfileFile = "/tmp/qb-prompt.profile"
)

// Options controls script generation.
type Options struct {
	// Benchmark adds timing of the script start and of every PS1 render.
	Benchmark   bool
	ProfileFile string
	// Source names the configuration in the script header.
	Source string
}

// Generate builds the script setting every non-empty prompt. Prompts that
// are fully static are exported once; the others are exported by the hook.
// The script is checked before it is returned.
func Generate(prompts []*prompt.Prompt, opts Options) (string, error) {
	if opts.ProfileFile == "" {
		opts.ProfileFile = DefaultProfileFile
	}

	var staticInit, dynamicInit, staticExports, dynamicExports []string
	for _, p := range prompts {
		if p.Empty() {
			continue
		}

		staticInit = append(staticInit, p.StaticInit()...)
		dynamicInit = append(dynamicInit, p.DynamicInit()...)

		suffix := ""
		if opts.Benchmark && p.Name == "PS1" {
			suffix = `\$(` + BenchName + `)`
		}
		if p.StaticOnly() {
			staticExports = append(staticExports, p.Export(suffix))
		} else {
			dynamicExports = append(dynamicExports, p.Export(suffix))
		}
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("#\n")
	if opts.Source != "" {
		fmt.Fprintf(&b, "# Generated by qb-prompt from %s.\n", opts.Source)
	} else {
		b.WriteString("# Generated by qb-prompt.\n")
	}
	b.WriteString("# It is not recommended to edit it manually.\n")

	if opts.Benchmark {
		b.WriteString("\nQB_PROMPT_INIT_TS=$(date +%s%N)\n")
		fmt.Fprintf(&b, "\n%s() {\n", BenchName)
		b.WriteString("    local elapsed=$((($(date +%s%N) - QB_PROMPT_RENDER_TS) / 1000))\n")
		fmt.Fprintf(&b, "    printf '[%%d.%%03d ms] ' \"$((elapsed / 1000))\" \"$((elapsed %% 1000))\" | tee -a %s\n", shellQuote(opts.ProfileFile))
		b.WriteString("}\n")
	}

	b.WriteString("\n# Apply only if the terminal supports 8-bit colors\n")
	b.WriteString("if [[ \"${TERM}\" != *256color* ]]; then\n")
	b.WriteString("    echo \"qb-prompt: terminal does not support 8-bit colors\"\n")
	b.WriteString("else\n")

	writeSection(&b, staticInit, 1)
	writeSection(&b, group(staticExports), 1)

	if len(dynamicInit) > 0 || len(dynamicExports) > 0 || opts.Benchmark {
		fmt.Fprintf(&b, "\n    %s() {\n", HookName)
		// must stay first, anything else run here overwrites $?
		fmt.Fprintf(&b, "        %s=$?\n", widget.ErrCodeVar)
		if opts.Benchmark {
			b.WriteString("        QB_PROMPT_RENDER_TS=$(date +%s%N)\n")
		}
		writeSection(&b, dynamicInit, 2)
		writeSection(&b, group(dynamicExports), 2)
		b.WriteString("    }\n")

		fmt.Fprintf(&b, "\n    if [[ \"${PROMPT_COMMAND}\" != *%s* ]]; then\n", HookName)
		fmt.Fprintf(&b, "        PROMPT_COMMAND=\"%s${PROMPT_COMMAND:+; ${PROMPT_COMMAND}}\"\n", HookName)
		b.WriteString("    fi\n")
	}
	b.WriteString("fi\n")

	if opts.Benchmark {
		b.WriteString("\nQB_PROMPT_INIT_US=$((($(date +%s%N) - QB_PROMPT_INIT_TS) / 1000))\n")
		fmt.Fprintf(&b, "echo \"Init time: $((QB_PROMPT_INIT_US / 1000)).$(printf '%%03d' $((QB_PROMPT_INIT_US %% 1000))) ms\" | tee -a %s\n", shellQuote(opts.ProfileFile))
	}

	script := b.String()
	if err := Check(script); err != nil {
		return "", fmt.Errorf("generated script is malformed: %w", err)
	}
	return script, nil
}

// writeSection writes blocks separated by blank lines, preceded by one.
func writeSection(b *strings.Builder, blocks []string, depth int) {
	if len(blocks) == 0 {
		return
	}
	for _, block := range blocks {
		b.WriteString("\n")
		b.WriteString(indent(block, depth))
	}
}

// group joins lines into one block.
func group(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	return []string{strings.Join(lines, "\n")}
}

// shellQuote quotes s for the shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// indent prefixes every non-empty line with depth levels of four spaces and
// terminates the block with a newline.
func indent(block string, depth int) string {
	pad := strings.Repeat("    ", depth)
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n") + "\n"
}
