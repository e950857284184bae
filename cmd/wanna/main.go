// Package main provides the wanna CLI entry point.
// wanna turns a natural-language task description into a shell script, runs it,
// refines it with the model and saves it as a reusable command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wanna/internal/logger"
	"wanna/internal/output"
	"wanna/internal/parser"
	"wanna/internal/services"
	"wanna/internal/shell"
	"wanna/internal/statemachine"
	"wanna/internal/store"
	"wanna/internal/version"
)

var (
	logLevel string
	logFile  string
	testMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wanna",
	Short: "Shell command launcher with natural language",
	Long: `wanna asks a language model for a bash script that does what you describe,
lets you run and refine it, and saves it under a name for later reuse.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Println(version.ShortVersion())
			return
		}
		fmt.Println(version.GetFormattedVersion())
	},
}

// exitCodeError carries a process exit code through cobra.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	code := exitCode(err)
	if code != 0 && err != nil {
		var exitErr *exitCodeError
		if !errors.As(err, &exitErr) {
			newPrinter().Error(err.Error())
		}
	}
	os.Exit(code)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var exitErr *exitCodeError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.Is(err, statemachine.ErrAborted), errors.Is(err, shell.ErrInterrupted):
		return 0
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: warn]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Run in deterministic test mode")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider (openai|openrouter|anthropic|gemini) [default: openai]")
	rootCmd.PersistentFlags().String("model", "", "Model identifier [default: provider specific]")
	rootCmd.PersistentFlags().String("config-dir", "", "Directory for saved scripts [default: ~/.wanna]")

	for _, name := range []string{"log-level", "log-file", "test-mode", "provider", "model", "config-dir"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(thinkCmd)
	rootCmd.AddCommand(doCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(removeCmd)
	versionCmd.Flags().Bool("short", false, "Print only the semantic version")
	rootCmd.AddCommand(versionCmd)

	// Configure logger before any command execution
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := logger.Configure(logLevel, logFile, testMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*services.Config, error) {
	return services.NewConfigurationService(viper.GetViper()).Load()
}

func openStore(cfg *services.Config) (*store.Store, error) {
	return store.Open(cfg.ConfigDir)
}

func colorEnabled() bool {
	return !testMode && output.SupportsColor()
}

func newPrinter() *output.Printer {
	if !colorEnabled() {
		return output.NewPrinter(output.PlainText())
	}
	return output.NewPrinter(output.WithStyles(output.NewTerminalStyleProvider()))
}

func newHighlighter() parser.Highlighter {
	if !colorEnabled() {
		return parser.PlainHighlighter
	}
	return parser.ChromaHighlighter("monokai")
}
