// nolint:errcheck
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	titleStyle       = color.New(color.Bold, color.FgHiWhite)
	commandStyle     = color.New(color.FgHiGreen)
	descriptionStyle = color.New(color.FgHiCyan)
	exampleStyle     = color.New(color.FgHiCyan)
	flagStyle        = color.New(color.Bold, color.FgHiCyan)
	tipStyle         = color.New(color.FgHiYellow)
	argStyle         = color.New(color.FgHiMagenta)

	errorStyle  = color.New(color.Bold, color.FgHiRed)
	detailStyle = color.New(color.FgRed)

	// StaticStyle and DynamicStyle mark widget kinds in listings.
	StaticStyle  = color.New(color.FgGreen)
	DynamicStyle = color.New(color.FgYellow)
)

var HelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}` + titleStyle.Sprintf("GitHub:") + color.New(color.FgYellow).Sprintln(
	"		https://github.com/Hanaasagi/qbprompt",
)

// Arg describes a positional argument in the usage text.
type Arg struct {
	Name        string
	Description string
}

func rpad(s string, padding int) string {
	template := fmt.Sprintf("%%-%ds", padding)
	return fmt.Sprintf(template, s)
}

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

var (
	reWithShort = regexp.MustCompile(`^( {2,})(-[a-zA-Z]), (--[a-zA-Z0-9-]+)(.*)$`)
	reLongOnly  = regexp.MustCompile(`^( {2,})(--[a-zA-Z0-9-]+)(.*)$`)
)

func colorFlags(raw string) []byte {
	var out bytes.Buffer

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case reWithShort.MatchString(line):
			m := reWithShort.FindStringSubmatch(line)
			out.WriteString(m[1])
			flagStyle.Fprint(&out, m[2])
			out.WriteString(", ")
			out.WriteString(m[3])
			out.WriteString(m[4])

		case reLongOnly.MatchString(line):
			m := reLongOnly.FindStringSubmatch(line)
			out.WriteString(m[1])
			flagStyle.Fprint(&out, m[2])
			out.WriteString(m[3])

		default:
			out.WriteString(line)
		}
		out.WriteByte('\n')
	}

	return out.Bytes()
}

// ColorUsageFunc returns a usage function printing the command usage,
// its positional arguments, subcommands and flags in color.
func ColorUsageFunc(args ...Arg) func(*cobra.Command) error {
	return func(c *cobra.Command) error {
		return writeUsage(c.OutOrStderr(), c, args)
	}
}

func writeUsage(w io.Writer, cmd *cobra.Command, args []Arg) error {
	buf := &bytes.Buffer{}

	titleStyle.Fprint(buf, "Usage:")
	if cmd.Runnable() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprint(buf, cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprintf(buf, "%s [command]", cmd.CommandPath())
	}

	if len(args) > 0 {
		padding := 0
		for _, a := range args {
			padding = max(padding, len(a.Name))
		}

		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Arguments:")
		for _, a := range args {
			fmt.Fprint(buf, "\n  ")
			argStyle.Fprint(buf, rpad(a.Name, padding))
			fmt.Fprint(buf, "   ")
			descriptionStyle.Fprint(buf, a.Description)
		}
	}

	if cmd.HasExample() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Examples:")
		fmt.Fprint(buf, "\n")
		exampleStyle.Fprint(buf, cmd.Example)
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Available Commands:")
		for _, subcmd := range cmd.Commands() {
			if subcmd.IsAvailableCommand() || subcmd.Name() == "help" {
				fmt.Fprint(buf, "\n  ")
				commandStyle.Fprint(buf, rpad(subcmd.Name(), subcmd.NamePadding()))
				fmt.Fprint(buf, " ")
				descriptionStyle.Fprint(buf, subcmd.Short)
			}
		}
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Flags:")
		fmt.Fprint(buf, "\n")
		buf.Write(colorFlags(trimRightSpace(cmd.LocalFlags().FlagUsages())))
	}

	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Global Flags:")
		fmt.Fprint(buf, "\n")
		buf.Write(colorFlags(trimRightSpace(cmd.InheritedFlags().FlagUsages())))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n\n")
		tipStyle.Fprintf(buf, "Use \"%s [command] --help\" for more information about a command.", cmd.CommandPath())
	}

	fmt.Fprintln(buf)

	_, err := w.Write(buf.Bytes())
	return err
}

// PrintError writes a diagnostic: the program name and category in bold red,
// the error itself below.
func PrintError(w io.Writer, program, category string, err error) {
	errorStyle.Fprintf(w, "%s: %s\n", program, category)
	for _, line := range strings.Split(err.Error(), "\n") {
		detailStyle.Fprintf(w, "  %s\n", line)
	}
}
