// Package statemachine drives a conversation: it shows the current answer, collects the
// user's next choice and dispatches to execution, saving, follow-up questions or exit.
package statemachine

import (
	"context"
	"errors"

	"wanna/internal/agent"
	"wanna/internal/execution"
	"wanna/internal/naming"
	"wanna/pkg/wannatypes"
)

var (
	// ErrEmptyQuestion is returned when the user gives no task description.
	ErrEmptyQuestion = errors.New("please tell me what you wanna do")
	// ErrAborted is returned when the user leaves a prompt (Ctrl-C, Ctrl-D).
	ErrAborted = errors.New("aborted by user")
)

// NoCodeMessage is shown when the model answered without a script.
const NoCodeMessage = "Sorry, I could not generate the proper code from your comment."

// State represents the controller's position in the conversation loop.
type State int

const (
	// AwaitingChoice shows the choices and waits for the user.
	AwaitingChoice State = iota
	// Executing runs the current script and reflects on the result.
	Executing
	// Saving names and stores the current script.
	Saving
	// AdditionalRequest refines the current script with more instructions.
	AdditionalRequest
	// AnotherQuestion starts a new session seeded with a summary of this one.
	AnotherQuestion
	// Copying puts the current script on the clipboard.
	Copying
	// Done ends the loop.
	Done
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case AwaitingChoice:
		return "AwaitingChoice"
	case Executing:
		return "Executing"
	case Saving:
		return "Saving"
	case AdditionalRequest:
		return "AdditionalRequest"
	case AnotherQuestion:
		return "AnotherQuestion"
	case Copying:
		return "Copying"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Choice labels offered in AwaitingChoice.
const (
	ChoiceDo                = "Do"
	ChoiceSave              = "Save"
	ChoiceAdditionalRequest = "Additional Request"
	ChoiceAnotherQuestion   = "Another Question"
	ChoiceCopy              = "Copy"
	ChoiceExit              = "Exit"
)

var choiceStates = map[string]State{
	ChoiceDo:                Executing,
	ChoiceSave:              Saving,
	ChoiceAdditionalRequest: AdditionalRequest,
	ChoiceAnotherQuestion:   AnotherQuestion,
	ChoiceCopy:              Copying,
	ChoiceExit:              Done,
}

// Prompter collects input from the user.
type Prompter interface {
	Select(message string, options []string) (string, error)
	Text(message, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// Assistant is the conversation the controller drives.
type Assistant interface {
	Think(ctx context.Context, question string) (*agent.Answer, error)
	Rethink(ctx context.Context, result wannatypes.ExecutionResult) (*agent.Reflection, error)
	ProposeNames(ctx context.Context) (naming.Result, error)
	ProposeSummary(ctx context.Context) (string, error)
	Reset()
	Code() (string, error)
}

// Executor runs a script and captures its result.
type Executor interface {
	RunCode(ctx context.Context, code string, args []string, mode execution.Mode) (wannatypes.ExecutionResult, error)
}

// ScriptSaver persists named scripts.
type ScriptSaver interface {
	Exists(name string) bool
	Save(name, code, question string) error
}

// Copier puts text on the system clipboard.
type Copier interface {
	Available() bool
	Copy(text string) error
}

// Config holds the controller's limits.
type Config struct {
	// MaxRethinks bounds consecutive refinements of one request; 0 means unlimited.
	MaxRethinks int
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{MaxRethinks: 5}
}
