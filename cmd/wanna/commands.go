package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wanna/internal/agent"
	"wanna/internal/clipboard"
	"wanna/internal/execution"
	"wanna/internal/output"
	"wanna/internal/parser"
	"wanna/internal/services"
	"wanna/internal/shell"
	"wanna/internal/statemachine"
	"wanna/internal/store"
	"wanna/pkg/wannatypes"
)

var listCommandsOnly bool

var thinkCmd = &cobra.Command{
	Use:   "think [question]",
	Short: "Generate a bash script that answers the incoming request",
	RunE:  runThink,
}

var doCmd = &cobra.Command{
	Use:   "do [command] [args...]",
	Short: "Execute a saved command",
	RunE:  runDo,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List up all commands",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <command>",
	Short: "Show the code of a saved command",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var removeCmd = &cobra.Command{
	Use:   "remove [command]",
	Short: "Remove selected command",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRemove,
}

func init() {
	listCmd.Flags().BoolVar(&listCommandsOnly, "command", false, "Print command names only")
	// Everything after the command name belongs to the script.
	doCmd.Flags().SetInterspersed(false)
}

func runThink(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := services.NewClient(cfg)
	if err != nil {
		return err
	}
	scripts, err := openStore(cfg)
	if err != nil {
		return err
	}

	term := shell.NewTerminal()
	defer term.Close()

	assistant := agent.New(client, *cfg.ModelConfig(),
		agent.WithHighlighter(newHighlighter()),
		agent.WithSystemInfo(agent.DetectSystemInfo()),
		agent.WithExcerptLimit(cfg.ExcerptLimit),
		agent.WithTestMode(testMode),
	)
	controller := statemachine.NewController(
		assistant,
		term,
		execution.NewRunner(cfg.Shell),
		scripts,
		clipboard.New(),
		newPrinter(),
		statemachine.Config{MaxRethinks: cfg.MaxRethinks},
	)

	question := strings.TrimSpace(strings.Join(args, " "))
	return controller.Run(cmd.Context(), question, question == "")
}

func runDo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scripts, err := openStore(cfg)
	if err != nil {
		return err
	}

	var term *shell.Terminal
	defer func() {
		if term != nil {
			term.Close()
		}
	}()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if !scripts.Exists(name) {
		term = shell.NewTerminal()
		if name, err = chooseCommand(term, scripts); err != nil || name == "" {
			return err
		}
	}

	script, err := scripts.Get(name)
	if err != nil {
		return err
	}

	var scriptArgs []string
	if len(args) > 1 {
		scriptArgs = args[1:]
	} else if placeholders := parser.ExtractArguments(script.Code); len(placeholders) > 0 {
		if term == nil {
			term = shell.NewTerminal()
		}
		line, err := term.Text(fmt.Sprintf("Please input arguments (%s):", strings.Join(placeholders, " ")), "")
		if err != nil {
			return err
		}
		if scriptArgs, err = parser.SplitArguments(line); err != nil {
			return err
		}
	}

	result := execution.NewRunner(cfg.Shell).RunFile(cmd.Context(), scripts.Path(name), scriptArgs, execution.Tee)
	return scriptExit(newPrinter(), result)
}

// scriptExit turns a finished run into the process exit status. The script's own output
// was already streamed; only a failure to start the interpreter is reported here.
func scriptExit(printer *output.Printer, result wannatypes.ExecutionResult) error {
	if result.NotStarted {
		printer.Error(fmt.Sprintf("Could not run the script: %s", strings.TrimSpace(result.Stderr)))
	}
	if result.ReturnCode != 0 {
		return &exitCodeError{code: result.ReturnCode}
	}
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scripts, err := openStore(cfg)
	if err != nil {
		return err
	}

	lines := scripts.Ideas()
	if listCommandsOnly {
		lines = scripts.Names()
	}
	printer := newPrinter()
	for _, line := range lines {
		printer.Println(line)
	}
	return nil
}

func runShow(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scripts, err := openStore(cfg)
	if err != nil {
		return err
	}

	script, err := scripts.Get(args[0])
	if err != nil {
		return err
	}
	newPrinter().Markdown(fmt.Sprintf("# %s\n\n%s\n\n```bash\n%s```\n", script.Name, script.Question, ensureNewline(script.Code)))
	return nil
}

func runRemove(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scripts, err := openStore(cfg)
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if !scripts.Exists(name) {
		term := shell.NewTerminal()
		defer term.Close()
		if name, err = chooseCommand(term, scripts); err != nil || name == "" {
			return err
		}
	}

	if err := scripts.Remove(name); err != nil {
		return err
	}
	newPrinter().Success(fmt.Sprintf("Removed %s", name))
	return nil
}

// chooseCommand asks for a saved command with completion. An unknown answer yields "".
func chooseCommand(term *shell.Terminal, scripts *store.Store) (string, error) {
	if len(scripts.Names()) == 0 {
		newPrinter().Warning("No saved commands yet. Create one with: wanna think")
		return "", nil
	}
	name, err := term.Choose("Choose command:", scripts.Ideas())
	if err != nil {
		return "", err
	}
	if !scripts.Exists(name) {
		return "", nil
	}
	return name, nil
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
