package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/Hanaasagi/qbprompt/cmd"
	"github.com/Hanaasagi/qbprompt/internal/config"
	"github.com/Hanaasagi/qbprompt/internal/logger"
	"github.com/Hanaasagi/qbprompt/internal/prompt"
	"github.com/Hanaasagi/qbprompt/internal/script"
	"github.com/Hanaasagi/qbprompt/internal/widget"
	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	appName       = "qb-prompt"
	defaultOutput = "qb-prompt.sh"
)

var (
	Version     = "0.1.0"
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

var appDir = filepath.Join(xdg.StateHome, appName)

// AppConfig holds application configuration
type AppConfig struct {
	configFile  string
	outputFile  string
	benchmark   bool
	stdout      bool
	logLevel    string
	showVersion bool
}

func setupState(level string) {
	logFilePath := filepath.Join(appDir, appName+".log")
	if err := logger.InitLogger(logFilePath, logger.ResolveLevel(level)); err != nil {
		fmt.Fprintf(os.Stderr, "%s: warning: %v\n", appName, err)
	}

	crashFilePath := filepath.Join(appDir, "crash")
	if f, err := os.Create(crashFilePath); err == nil {
		_ = debug.SetCrashOutput(f, debug.CrashOptions{})
	}
}

func parseArgs(config *AppConfig, args []string) {
	if len(args) > 0 {
		config.configFile = args[0]
	}
	config.outputFile = defaultOutput
	if len(args) > 1 && args[1] != "-" {
		config.outputFile = args[1]
	}
}

// loadPrompts resolves the configuration and builds its prompts.
func loadPrompts(arg string) ([]*prompt.Prompt, string, error) {
	cfg, source, err := config.Resolve(arg)
	if err != nil {
		return nil, source, err
	}
	slog.Debug("Configuration loaded", "source", source, "roles", len(cfg.Prompts))

	prompts, err := prompt.FromConfig(cfg)
	if err != nil {
		return nil, source, err
	}
	return prompts, source, nil
}

// runApp runs the main application logic
func runApp(config *AppConfig, stdout io.Writer) error {
	if config.showVersion {
		fmt.Fprintf(stdout, "%s version: %s\n", appName, FullVersion)
		return nil
	}

	prompts, source, err := loadPrompts(config.configFile)
	if err != nil {
		return err
	}

	out, err := script.Generate(prompts, script.Options{
		Benchmark: config.benchmark,
		Source:    source,
	})
	if err != nil {
		return err
	}

	if config.stdout {
		_, err := io.WriteString(stdout, out)
		return err
	}

	if err := script.WriteFile(config.outputFile, out); err != nil {
		return err
	}
	slog.Info("Script generated", "source", source, "output", config.outputFile, "roles", len(prompts))
	return nil
}

// errorCategory names the failure class printed above the error.
func errorCategory(err error) string {
	var (
		inputErr   *config.InputError
		parseErr   *config.ParseError
		invalidErr *widget.ValidationError
		kindErr    *widget.UnknownKindError
		outputErr  *script.OutputError
	)

	switch {
	case errors.As(err, &inputErr):
		return "cannot read configuration"
	case errors.As(err, &parseErr), errors.As(err, &invalidErr), errors.As(err, &kindErr):
		return "invalid configuration"
	case errors.As(err, &outputErr):
		return "cannot write script"
	case errors.Is(err, script.ErrMalformed):
		return "generated script is malformed"
	default:
		return "error"
	}
}

func newRootCmd(config *AppConfig) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName + " [config_file|-] [output_file|-]",
		Short: "Compile a prompt configuration into a bash script",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Compile a prompt configuration into a bash script setting PS1 to PS4. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		Example:       "  qb-prompt config.json ~/.qb-prompt.sh\n  qb-prompt - --stdout",
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			setupState(config.logLevel)
		},
		RunE: func(c *cobra.Command, args []string) error {
			parseArgs(config, args)
			return runApp(config, c.OutOrStdout())
		},
	}

	rootCmd.Flags().BoolVarP(&config.benchmark, "benchmark", "b", false, "Record the render time of every prompt")
	rootCmd.Flags().BoolVar(&config.stdout, "stdout", false, "Print the script instead of writing a file")
	rootCmd.Flags().BoolVarP(&config.showVersion, "version", "v", false, "Print version and exit")
	rootCmd.PersistentFlags().StringVar(&config.logLevel, "log-level", "", "Log level: debug, info, warn, error or off")

	rootCmd.SetHelpTemplate(cmd.HelpTemplate)
	rootCmd.SetUsageFunc(cmd.ColorUsageFunc(
		cmd.Arg{Name: "config_file", Description: "prompt configuration (json, toml or yaml), - to search the config directories"},
		cmd.Arg{Name: "output_file", Description: "script to write, - for " + defaultOutput},
	))

	rootCmd.AddCommand(newInspectCmd())
	return rootCmd
}

func main() {
	rootCmd := newRootCmd(&AppConfig{})

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Error executing command", "error", err)
		cmd.PrintError(os.Stderr, appName, errorCategory(err), err)
		os.Exit(1)
	}
}
