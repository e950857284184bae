package statemachine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"wanna/internal/execution"
	"wanna/internal/logger"
	"wanna/internal/naming"
	"wanna/internal/output"
	"wanna/internal/parser"
)

// Controller runs the conversation loop for one or more consecutive sessions.
type Controller struct {
	assistant Assistant
	prompter  Prompter
	executor  Executor
	saver     ScriptSaver
	copier    Copier
	printer   *output.Printer
	config    Config
	logger    *log.Logger

	rethinks int
}

// NewController wires a controller. copier may be nil.
func NewController(assistant Assistant, prompter Prompter, executor Executor, saver ScriptSaver,
	copier Copier, printer *output.Printer, config Config) *Controller {
	if printer == nil {
		printer = output.NewPrinter()
	}
	return &Controller{
		assistant: assistant,
		prompter:  prompter,
		executor:  executor,
		saver:     saver,
		copier:    copier,
		printer:   printer,
		config:    config,
		logger:    logger.NewStyledLogger("Controller"),
	}
}

// Run starts a session for question. When ask is true the user is asked for the question
// first, with question as the default answer.
// It returns nil when the user exits or the first answer holds no code.
func (c *Controller) Run(ctx context.Context, question string, ask bool) error {
	for {
		if ask {
			text, err := c.prompter.Text("What do you want to do?", question)
			if err != nil {
				return c.abort(err)
			}
			question = text
		}
		question = strings.TrimSpace(question)
		if question == "" {
			return ErrEmptyQuestion
		}

		answer, err := c.assistant.Think(ctx, question)
		if err != nil {
			return err
		}
		c.rethinks = 0
		c.printer.Answer(answer.Comment)
		if !answer.HasCode {
			c.printer.Error(NoCodeMessage)
			return nil
		}

		next, err := c.loop(ctx)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		question, ask = *next, true
	}
}

// loop runs the state machine until Done or AnotherQuestion. For AnotherQuestion it
// returns the summary that seeds the next session.
func (c *Controller) loop(ctx context.Context) (*string, error) {
	state := AwaitingChoice
	for {
		c.logger.Debug("Controller state", "state", state)

		var err error
		switch state {
		case AwaitingChoice:
			state, err = c.awaitChoice()
		case Executing:
			state, err = c.execute(ctx)
		case Saving:
			state, err = c.save(ctx)
		case AdditionalRequest:
			state, err = c.additionalRequest(ctx)
		case Copying:
			state = c.copyCode()
		case AnotherQuestion:
			summary := c.anotherQuestion(ctx)
			return &summary, nil
		case Done:
			return nil, nil
		default:
			return nil, fmt.Errorf("unknown state %d", state)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (c *Controller) choices() []string {
	var options []string
	if _, err := c.assistant.Code(); err == nil {
		options = append(options, ChoiceDo, ChoiceSave)
	}
	options = append(options, ChoiceAdditionalRequest, ChoiceAnotherQuestion)
	if _, err := c.assistant.Code(); err == nil && c.copier != nil && c.copier.Available() {
		options = append(options, ChoiceCopy)
	}
	return append(options, ChoiceExit)
}

func (c *Controller) awaitChoice() (State, error) {
	choice, err := c.prompter.Select("What's next?", c.choices())
	if err != nil {
		return Done, c.abort(err)
	}
	state, ok := choiceStates[choice]
	if !ok {
		c.logger.Warn("Unknown choice", "choice", choice)
		return AwaitingChoice, nil
	}
	return state, nil
}

func (c *Controller) execute(ctx context.Context) (State, error) {
	code, err := c.assistant.Code()
	if err != nil {
		c.printer.Error(NoCodeMessage)
		return AwaitingChoice, nil
	}

	var args []string
	if placeholders := parser.ExtractArguments(code); len(placeholders) > 0 {
		line, err := c.prompter.Text(fmt.Sprintf("Please input arguments (%s):", strings.Join(placeholders, " ")), "")
		if err != nil {
			return Done, c.abort(err)
		}
		if args, err = parser.SplitArguments(line); err != nil {
			c.printer.Error(fmt.Sprintf("Could not read arguments: %v", err))
			return AwaitingChoice, nil
		}
	}

	result, err := c.executor.RunCode(ctx, code, args, execution.Tee)
	if err != nil {
		c.printer.Error(fmt.Sprintf("Could not run the script: %v", err))
		return AwaitingChoice, nil
	}

	if result.Failed() {
		retry, err := c.prompter.Confirm(fmt.Sprintf("The script failed (exit code %d). Ask the AI to fix it?", result.ReturnCode), true)
		if err != nil {
			return Done, c.abort(err)
		}
		if !retry {
			return AwaitingChoice, nil
		}
	}

	if c.config.MaxRethinks > 0 && c.rethinks >= c.config.MaxRethinks {
		c.printer.Warning(fmt.Sprintf("Stopped after %d refinements. Try an additional request instead.", c.config.MaxRethinks))
		return AwaitingChoice, nil
	}
	c.rethinks++

	reflection, err := c.assistant.Rethink(ctx, result)
	if err != nil {
		c.printer.Error(fmt.Sprintf("Could not reflect on the result: %v", err))
		return AwaitingChoice, nil
	}
	if reflection.Fixed {
		c.printer.Diff(reflection.Previous, reflection.Code)
		c.printer.Answer(reflection.Comment)
	} else {
		c.printer.Println(reflection.Comment)
	}
	return AwaitingChoice, nil
}

func (c *Controller) save(ctx context.Context) (State, error) {
	code, err := c.assistant.Code()
	if err != nil {
		c.printer.Error(NoCodeMessage)
		return AwaitingChoice, nil
	}

	result, err := c.assistant.ProposeNames(ctx)
	if err != nil {
		if errors.Is(err, naming.ErrRetriesExhausted) {
			c.printer.Error("Could not come up with names for this script.")
			return Done, err
		}
		c.printer.Error(fmt.Sprintf("Could not come up with names: %v", err))
		return AwaitingChoice, nil
	}
	c.logger.Debug("Names proposed", "attempt", result.Attempts, "names", result.Names)

	name, err := c.prompter.Select("I thought of the following names. Which one do you like?", result.Names)
	if err != nil {
		return Done, c.abort(err)
	}
	if c.saver.Exists(name) {
		overwrite, err := c.prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite it?", name), false)
		if err != nil {
			return Done, c.abort(err)
		}
		if !overwrite {
			return AwaitingChoice, nil
		}
	}

	summary, err := c.assistant.ProposeSummary(ctx)
	if err != nil {
		c.printer.Error(fmt.Sprintf("Could not summarize the script: %v", err))
		return AwaitingChoice, nil
	}

	if err := c.saver.Save(name, code, summary); err != nil {
		c.printer.Error(fmt.Sprintf("Could not save %s: %v", name, err))
		return AwaitingChoice, nil
	}
	c.printer.Success(fmt.Sprintf("Saved as %s. Run it with: wanna do %s", name, name))
	return Done, nil
}

func (c *Controller) additionalRequest(ctx context.Context) (State, error) {
	text, err := c.prompter.Text("What additional requests do you have?", "")
	if err != nil {
		return Done, c.abort(err)
	}
	if strings.TrimSpace(text) == "" {
		return AwaitingChoice, nil
	}

	answer, err := c.assistant.Think(ctx, text)
	if err != nil {
		return Done, err
	}
	c.rethinks = 0
	c.printer.Answer(answer.Comment)
	if !answer.HasCode {
		c.printer.Warning(NoCodeMessage)
	}
	return AwaitingChoice, nil
}

func (c *Controller) anotherQuestion(ctx context.Context) string {
	summary, err := c.assistant.ProposeSummary(ctx)
	if err != nil {
		c.logger.Warn("Could not summarize the session", "error", err)
		summary = ""
	}
	c.assistant.Reset()
	return summary
}

func (c *Controller) copyCode() State {
	code, err := c.assistant.Code()
	if err != nil || c.copier == nil {
		return AwaitingChoice
	}
	if err := c.copier.Copy(code); err != nil {
		c.printer.Error(fmt.Sprintf("Could not copy the script: %v", err))
		return AwaitingChoice
	}
	c.printer.Success("Copied the script to the clipboard.")
	return AwaitingChoice
}

func (c *Controller) abort(err error) error {
	c.logger.Debug("Prompt ended", "error", err)
	return fmt.Errorf("%w: %v", ErrAborted, err)
}
