// Package shell provides the interactive prompts wanna shows in a terminal:
// selection lists, free-text input with a default value, confirmations and the
// command chooser with tab completion.
package shell

import (
	"errors"
	"io"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"

	"wanna/internal/logger"
)

// ErrInterrupted is returned when the user leaves a prompt with Ctrl-C or Ctrl-D.
var ErrInterrupted = errors.New("prompt interrupted")

// lineEditor is the part of *readline.Instance used for prefilled input.
type lineEditor interface {
	SetPrompt(prompt string)
	ReadlineWithDefault(defaultValue string) (string, error)
}

// Terminal implements interactive prompts on top of a single ishell instance.
type Terminal struct {
	sh     *ishell.Shell
	editor lineEditor
}

// NewTerminal creates a terminal bound to the process's stdin and stdout.
func NewTerminal() *Terminal {
	rl, err := readline.NewEx(&readline.Config{Prompt: "> "})
	if err != nil {
		logger.Fatal("Terminal not supported", "error", err)
	}
	sh := ishell.NewWithReadline(rl)
	sh.CustomCompleter(NewIdeaCompleter(nil))
	return &Terminal{sh: sh, editor: rl}
}

// Close releases the terminal.
func (t *Terminal) Close() {
	t.sh.Close()
}

// Select shows options as a list navigated with the arrow keys.
func (t *Terminal) Select(message string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("nothing to choose from")
	}
	index := t.sh.MultiChoice(options, message)
	if index < 0 || index >= len(options) {
		return "", ErrInterrupted
	}
	return options[index], nil
}

// Text reads one line. A non-empty defaultValue is prefilled for editing.
// ishell drops the read error for prefilled input, so that path reads through
// the readline instance directly to report Ctrl-C and Ctrl-D.
func (t *Terminal) Text(message, defaultValue string) (string, error) {
	if defaultValue != "" {
		t.editor.SetPrompt(message + " ")
		line, err := t.editor.ReadlineWithDefault(defaultValue)
		if err != nil {
			return "", interrupted(err)
		}
		return line, nil
	}
	t.sh.SetPrompt(message + " ")
	line, err := t.sh.ReadLineErr()
	if err != nil {
		return "", interrupted(err)
	}
	return line, nil
}

// Confirm asks a yes/no question. An empty answer selects defaultValue.
func (t *Terminal) Confirm(message string, defaultValue bool) (bool, error) {
	hint := "(y/N)"
	if defaultValue {
		hint = "(Y/n)"
	}
	for {
		answer, err := t.Text(message+" "+hint, "")
		if err != nil {
			return false, err
		}
		if value, ok := ParseConfirm(answer, defaultValue); ok {
			return value, nil
		}
	}
}

// Choose reads a command name with tab completion over ideas ("name ~ question").
func (t *Terminal) Choose(message string, ideas []string) (string, error) {
	t.sh.CustomCompleter(NewIdeaCompleter(ideas))
	defer t.sh.CustomCompleter(NewIdeaCompleter(nil))

	line, err := t.Text(message, "")
	if err != nil {
		return "", err
	}
	return CommandFromIdea(line), nil
}

// ParseConfirm interprets a yes/no answer. ok is false for anything unrecognized.
func ParseConfirm(answer string, defaultValue bool) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultValue, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

// CommandFromIdea returns the name part of a "name ~ question" line.
func CommandFromIdea(line string) string {
	name, _, _ := strings.Cut(line, "~")
	return strings.TrimSpace(name)
}

func interrupted(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return ErrInterrupted
	}
	return err
}
