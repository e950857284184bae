package statemachine

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanna/internal/agent"
	"wanna/internal/execution"
	"wanna/internal/naming"
	"wanna/internal/output"
	"wanna/internal/store"
	"wanna/internal/testutils"
	"wanna/pkg/wannatypes"
)

// fakePrompter answers prompts from queues and records what was asked.
// An exhausted queue behaves like Ctrl-D.
type fakePrompter struct {
	selects  []string
	texts    []string
	confirms []bool

	selectMessages []string
	selectOptions  [][]string
	textMessages   []string
	textDefaults   []string
	confirmAsked   []string
}

func (p *fakePrompter) Select(message string, options []string) (string, error) {
	p.selectMessages = append(p.selectMessages, message)
	p.selectOptions = append(p.selectOptions, options)
	if len(p.selects) == 0 {
		return "", io.EOF
	}
	choice := p.selects[0]
	p.selects = p.selects[1:]
	return choice, nil
}

func (p *fakePrompter) Text(message, defaultValue string) (string, error) {
	p.textMessages = append(p.textMessages, message)
	p.textDefaults = append(p.textDefaults, defaultValue)
	if len(p.texts) == 0 {
		return "", io.EOF
	}
	text := p.texts[0]
	p.texts = p.texts[1:]
	return text, nil
}

func (p *fakePrompter) Confirm(message string, _ bool) (bool, error) {
	p.confirmAsked = append(p.confirmAsked, message)
	if len(p.confirms) == 0 {
		return false, io.EOF
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

// fakeExecutor returns scripted results and records every run.
type fakeExecutor struct {
	results []wannatypes.ExecutionResult
	codes   []string
	args    [][]string
	modes   []execution.Mode
}

func (e *fakeExecutor) RunCode(_ context.Context, code string, args []string, mode execution.Mode) (wannatypes.ExecutionResult, error) {
	e.codes = append(e.codes, code)
	e.args = append(e.args, args)
	e.modes = append(e.modes, mode)
	if len(e.results) == 0 {
		return wannatypes.ExecutionResult{}, nil
	}
	result := e.results[0]
	e.results = e.results[1:]
	return result, nil
}

type failingSaver struct{ err error }

func (s failingSaver) Exists(string) bool { return false }

func (s failingSaver) Save(string, string, string) error { return s.err }

type fakeCopier struct{ copied []string }

func (c *fakeCopier) Available() bool { return true }
func (c *fakeCopier) Copy(text string) error {
	c.copied = append(c.copied, text)
	return nil
}

type fixture struct {
	client   *testutils.MockLLMClient
	prompter *fakePrompter
	executor *fakeExecutor
	store    *store.Store
	out      *output.CaptureBuffer
	config   Config
	saver    ScriptSaver
	copier   Copier
}

func newFixture(t *testing.T, replies ...string) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), ".wanna"))
	require.NoError(t, err)
	return &fixture{
		client:   testutils.NewMockLLMClient(replies...),
		prompter: &fakePrompter{},
		executor: &fakeExecutor{},
		store:    s,
		out:      output.NewCaptureBuffer(),
		config:   DefaultConfig(),
	}
}

func (f *fixture) run(question string, ask bool) error {
	saver := f.saver
	if saver == nil {
		saver = f.store
	}
	a := agent.New(f.client, wannatypes.ModelConfig{BaseModel: "test"}, agent.WithTestMode(true))
	printer := output.NewPrinter(output.WithWriter(f.out), output.TestMode())
	c := NewController(a, f.prompter, f.executor, saver, f.copier, printer, f.config)
	return c.Run(context.Background(), question, ask)
}

func TestRun_EmptyQuestion(t *testing.T) {
	f := newFixture(t)
	f.prompter.texts = []string{"   "}

	err := f.run("", true)

	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Equal(t, 0, f.client.CallCount())
}

func TestRun_FirstAnswerWithoutCodeTerminates(t *testing.T) {
	f := newFixture(t, "en", "You should buy a coffee machine.")

	err := f.run("make coffee", false)

	require.NoError(t, err)
	assert.True(t, f.out.Contains("AI Answer:\nYou should buy a coffee machine."))
	assert.True(t, f.out.Contains(NoCodeMessage))
	assert.Empty(t, f.prompter.selectMessages, "the loop is never entered")
}

func TestRun_ExitShowsChoices(t *testing.T) {
	f := newFixture(t, "en", "Listing:\n```bash\nls -la\n```")
	f.prompter.selects = []string{ChoiceExit}

	err := f.run("list files", false)

	require.NoError(t, err)
	require.Len(t, f.prompter.selectOptions, 1)
	assert.Equal(t, []string{ChoiceDo, ChoiceSave, ChoiceAdditionalRequest, ChoiceAnotherQuestion, ChoiceExit},
		f.prompter.selectOptions[0])
	assert.Empty(t, f.executor.codes)
}

func TestRun_PromptAbort(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls\n```")

	err := f.run("list files", false)

	assert.ErrorIs(t, err, ErrAborted)
}

func TestDo_FailureOffersRefineAndDeclineSkipsRethink(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls /nope\n```")
	f.prompter.selects = []string{ChoiceDo, ChoiceExit}
	f.prompter.confirms = []bool{false}
	f.executor.results = []wannatypes.ExecutionResult{{ReturnCode: 2, Stderr: "No such file\n"}}

	err := f.run("list nope", false)

	require.NoError(t, err)
	require.Len(t, f.prompter.confirmAsked, 1)
	assert.Contains(t, f.prompter.confirmAsked[0], "exit code 2")
	assert.Equal(t, 2, f.client.CallCount(), "no rethink after declining")
	assert.Equal(t, []execution.Mode{execution.Tee}, f.executor.modes)
}

func TestDo_FailureRefinedWithFix(t *testing.T) {
	f := newFixture(t, "en", "First try\n```bash\nls /nope\n```", "Use /tmp.\n```bash\nls /tmp\n```")
	f.client.Fallback = "It listed /tmp."
	f.prompter.selects = []string{ChoiceDo, ChoiceDo, ChoiceExit}
	f.prompter.confirms = []bool{true}
	f.executor.results = []wannatypes.ExecutionResult{
		{ReturnCode: 2, Stderr: "No such file\n"},
		{Stdout: "a.txt\n"},
	}

	err := f.run("list a directory", false)

	require.NoError(t, err)
	assert.Equal(t, []string{"ls /nope\n", "ls /tmp\n"}, f.executor.codes)
	assert.True(t, f.out.Contains("- ls /nope"))
	assert.True(t, f.out.Contains("+ ls /tmp"))
	assert.True(t, f.out.Contains("Use /tmp."))
	assert.True(t, f.out.Contains("It listed /tmp."))
	assert.Len(t, f.prompter.confirmAsked, 1, "successful runs are not confirmed")
}

func TestDo_NoFixDoesNotRedisplayComment(t *testing.T) {
	f := newFixture(t, "en", "Show the date\n```bash\ndate\n```", "The script printed today's date.")
	f.prompter.selects = []string{ChoiceDo, ChoiceExit}
	f.executor.results = []wannatypes.ExecutionResult{{Stdout: "Mon Oct 19\n"}}

	err := f.run("show the date", false)

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(f.out.String(), output.AnswerHeader))
	assert.Equal(t, 1, strings.Count(f.out.String(), "Show the date"))
	assert.True(t, f.out.Contains("The script printed today's date."))
	assert.Len(t, f.prompter.selectMessages, 2, "returns to the choice after the narrative")
}

func TestDo_PromptsForArguments(t *testing.T) {
	f := newFixture(t, "en", "```bash\nfind \"$1\" -mtime +\"$2\" -delete\n```", "Done.")
	f.prompter.selects = []string{ChoiceDo, ChoiceExit}
	f.prompter.texts = []string{`/tmp 7`}

	err := f.run("cleanup old files", false)

	require.NoError(t, err)
	require.Len(t, f.prompter.textMessages, 1)
	assert.Contains(t, f.prompter.textMessages[0], "$1 $2")
	assert.Equal(t, [][]string{{"/tmp", "7"}}, f.executor.args)
}

func TestDo_RethinkCeiling(t *testing.T) {
	f := newFixture(t, "en", "```bash\nfalse\n```")
	f.client.Fallback = "```bash\nfalse\n```"
	f.config = Config{MaxRethinks: 1}
	f.prompter.selects = []string{ChoiceDo, ChoiceDo, ChoiceExit}
	f.prompter.confirms = []bool{true, true}
	f.executor.results = []wannatypes.ExecutionResult{{ReturnCode: 1}, {ReturnCode: 1}}

	err := f.run("fail", false)

	require.NoError(t, err)
	assert.Equal(t, 3, f.client.CallCount(), "only one rethink")
	assert.True(t, f.out.Contains("Stopped after 1 refinements"))
}

func TestAdditionalRequestResetsCeilingAndShowsAnswer(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls\n```", "Sorted:\n```bash\nls -S\n```")
	f.prompter.selects = []string{ChoiceAdditionalRequest, ChoiceExit}
	f.prompter.texts = []string{"sort by size"}

	err := f.run("list files", false)

	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(f.out.String(), output.AnswerHeader))
	assert.True(t, f.out.Contains("ls -S"))
}

func TestAdditionalRequestWithoutCodeHidesActions(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls\n```", "I need more details.")
	f.prompter.selects = []string{ChoiceAdditionalRequest, ChoiceExit}
	f.prompter.texts = []string{"make it better"}

	err := f.run("list files", false)

	require.NoError(t, err)
	require.Len(t, f.prompter.selectOptions, 2)
	assert.Equal(t, []string{ChoiceAdditionalRequest, ChoiceAnotherQuestion, ChoiceExit}, f.prompter.selectOptions[1])
}

func TestSave_StoresScript(t *testing.T) {
	f := newFixture(t, "en", "```bash\nfind . -size +10M\n```", `["big-files", "find_large", "scan10mb", "large.list"]`)
	f.prompter.selects = []string{ChoiceSave, "find_large"}

	err := f.run("list files larger than 10MB", false)

	require.NoError(t, err)
	script, err := f.store.Get("find_large")
	require.NoError(t, err)
	assert.Equal(t, "find . -size +10M\n", script.Code)
	assert.Equal(t, "list files larger than 10MB", script.Question)
	assert.Equal(t, []string{"big-files", "find_large", "scan10mb", "large.list"}, f.prompter.selectOptions[1])
	assert.True(t, f.out.Contains("wanna do find_large"))
}

func TestSave_RetriesExhaustedIsFatal(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls\n```")
	f.client.Fallback = "no idea"
	f.prompter.selects = []string{ChoiceSave}

	err := f.run("list", false)

	assert.ErrorIs(t, err, naming.ErrRetriesExhausted)
	assert.Equal(t, 2+naming.MaxAttempts, f.client.CallCount())
	assert.Empty(t, f.store.Names())
}

func TestSave_DeclineOverwriteReturnsToChoice(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls\n```", `["a", "b", "c", "d"]`)
	require.NoError(t, f.store.Save("a", "echo old\n", "old"))
	f.prompter.selects = []string{ChoiceSave, "a", ChoiceExit}
	f.prompter.confirms = []bool{false}

	err := f.run("list", false)

	require.NoError(t, err)
	script, err := f.store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "echo old\n", script.Code)
	assert.Len(t, f.prompter.selectMessages, 3)
}

func TestSave_StorageFailureKeepsCode(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls\n```", `["a", "b", "c", "d"]`, `["a", "b", "c", "d"]`)
	f.saver = failingSaver{err: errors.New("disk full")}
	f.prompter.selects = []string{ChoiceSave, "b", ChoiceDo, ChoiceExit}
	f.client.Fallback = "Listed."

	err := f.run("list", false)

	require.NoError(t, err)
	assert.True(t, f.out.Contains("Could not save b: disk full"))
	assert.Equal(t, []string{"ls\n"}, f.executor.codes, "the code survives a failed save")
}

func TestAnotherQuestionInterruptedIsUserExit(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls\n```")
	f.prompter.selects = []string{ChoiceAnotherQuestion}

	err := f.run("list files", false)

	assert.ErrorIs(t, err, ErrAborted)
	assert.NotErrorIs(t, err, ErrEmptyQuestion)
	assert.Equal(t, []string{"list files"}, f.prompter.textDefaults)
}

func TestAnotherQuestionSeedsNextSession(t *testing.T) {
	f := newFixture(t, "en", "```bash\nls\n```", "fr", "```bash\npwd\n```")
	f.prompter.selects = []string{ChoiceAnotherQuestion, ChoiceExit}
	f.prompter.texts = []string{"affiche le dossier courant"}

	err := f.run("list files", false)

	require.NoError(t, err)
	require.Len(t, f.prompter.textDefaults, 1)
	assert.Equal(t, "list files", f.prompter.textDefaults[0])

	last := f.client.LastCall()
	assert.Len(t, last, 3, "the new session starts from a fresh transcript")
	assert.Equal(t, wannatypes.UserMessage("affiche le dossier courant"), last[2])
}

func TestCopy(t *testing.T) {
	f := newFixture(t, "en", "```bash\nuptime\n```")
	copier := &fakeCopier{}
	f.copier = copier
	f.prompter.selects = []string{ChoiceCopy, ChoiceExit}

	err := f.run("uptime", false)

	require.NoError(t, err)
	assert.Contains(t, f.prompter.selectOptions[0], ChoiceCopy)
	assert.Equal(t, []string{"uptime\n"}, copier.copied)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "AwaitingChoice", AwaitingChoice.String())
	assert.Equal(t, "Done", Done.String())
	assert.Equal(t, "Unknown", State(99).String())
}
