// Package agent owns the model conversation that turns a task description into a shell script.
//
// An Agent keeps the transcript, the detected language of the user, the most recent
// script and its explanation, and every question asked in the session. Think asks for a
// script, Rethink feeds an execution result back for self-correction, ProposeNames and
// ProposeSummary prepare a script for saving.
package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"wanna/internal/execution"
	"wanna/internal/logger"
	"wanna/internal/naming"
	"wanna/internal/parser"
	"wanna/internal/testutils"
	"wanna/pkg/wannatypes"
)

// DefaultLanguage is used when language detection fails.
const DefaultLanguage = "en"

// DefaultExcerptLimit bounds each output stream fed back by Rethink (runes from head and tail).
const DefaultExcerptLimit = 1000

// DefaultSummaryLength bounds the one-line summary in runes.
const DefaultSummaryLength = 80

// ErrNoCode is returned by Code when the latest answer holds no script.
var ErrNoCode = errors.New("no shell code in the answer")

var languagePattern = regexp.MustCompile(`^[a-z]{2}\b`)

// Answer is the parsed form of a model reply.
type Answer struct {
	// Comment is the reply as shown to the user, with shell blocks re-rendered.
	Comment string
	// Code is the inner text of the first shell block.
	Code    string
	HasCode bool
}

// Reflection is the outcome of Rethink.
type Reflection struct {
	Answer
	// Fixed is true when the reply proposed new code. Otherwise Comment is a narrative
	// about the result and the current code is unchanged.
	Fixed bool
	// Previous is the code before the fix.
	Previous string
}

// Agent is a single conversation with the model. It is not safe for concurrent use.
type Agent struct {
	client  wannatypes.LLMClient
	model   wannatypes.ModelConfig
	prompts *Prompts
	namer   *naming.Service
	log     *log.Logger

	highlight     parser.Highlighter
	systemInfo    string
	excerptLimit  int
	summaryLength int
	testMode      bool

	sessionID string
	messages  []wannatypes.Message
	language  string
	code      string
	hasCode   bool
	comment   string
	questions []string
}

// Option configures an Agent.
type Option func(*Agent)

// WithHighlighter sets how shell blocks are rendered in comments.
func WithHighlighter(h parser.Highlighter) Option {
	return func(a *Agent) { a.highlight = h }
}

// WithSystemInfo primes new conversations with a description of the host.
func WithSystemInfo(info string) Option {
	return func(a *Agent) { a.systemInfo = info }
}

// WithExcerptLimit sets the head and tail length of output fed back by Rethink.
func WithExcerptLimit(limit int) Option {
	return func(a *Agent) { a.excerptLimit = limit }
}

// WithSummaryLength sets the maximum summary length in runes.
func WithSummaryLength(length int) Option {
	return func(a *Agent) {
		if length > 0 {
			a.summaryLength = length
		}
	}
}

// WithPrompts replaces the embedded prompt catalog.
func WithPrompts(p *Prompts) Option {
	return func(a *Agent) {
		if p != nil {
			a.prompts = p
		}
	}
}

// WithTestMode makes session IDs deterministic.
func WithTestMode(testMode bool) Option {
	return func(a *Agent) { a.testMode = testMode }
}

// New creates an agent that talks to client with the given model settings.
// The temperature in model is fixed for the lifetime of the agent.
func New(client wannatypes.LLMClient, model wannatypes.ModelConfig, opts ...Option) *Agent {
	a := &Agent{
		client:        client,
		model:         model,
		highlight:     parser.PlainHighlighter,
		excerptLimit:  DefaultExcerptLimit,
		summaryLength: DefaultSummaryLength,
		log:           logger.NewStyledLogger("Agent"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.prompts == nil {
		a.prompts = DefaultPrompts()
	}
	a.namer = naming.NewService(a.prompts.Naming)
	a.sessionID = testutils.GenerateUUID(a.testMode)
	return a
}

// Think asks for a script that performs question.
// The first call of a session primes the transcript with the task framing and a
// language directive derived from question. On a gateway error the transcript is left
// as it was before the call.
func (a *Agent) Think(ctx context.Context, question string) (*Answer, error) {
	mark := len(a.messages)
	language := a.language

	if mark == 0 {
		a.prime(ctx, question)
	}
	a.messages = append(a.messages, wannatypes.UserMessage(question))

	reply, err := a.send(ctx)
	if err != nil {
		a.messages = a.messages[:mark]
		a.language = language
		return nil, err
	}

	a.messages = append(a.messages, wannatypes.AssistantMessage(reply))
	a.questions = append(a.questions, question)

	answer := a.parse(reply)
	a.code, a.hasCode, a.comment = answer.Code, answer.HasCode, answer.Comment
	a.log.Debug("Thought", "session", a.sessionID, "has_code", answer.HasCode, "questions", len(a.questions))
	return &answer, nil
}

// Rethink shows the model the outcome of running the current script and asks it to
// reflect. A reply with a shell block replaces the current code and comment.
func (a *Agent) Rethink(ctx context.Context, result wannatypes.ExecutionResult) (*Reflection, error) {
	instruction := fill(a.prompts.Rethink, map[string]string{
		"returncode": strconv.Itoa(result.ReturnCode),
		"stdout":     execution.Excerpt(result.Stdout, a.excerptLimit),
		"stderr":     execution.Excerpt(result.Stderr, a.excerptLimit),
	})

	reply, err := a.Ask(ctx, instruction)
	if err != nil {
		return nil, err
	}

	reflection := &Reflection{Answer: a.parse(reply), Previous: a.code}
	if reflection.HasCode {
		reflection.Fixed = true
		a.code, a.hasCode, a.comment = reflection.Code, true, reflection.Comment
	} else {
		reflection.Code, reflection.HasCode = a.code, a.hasCode
	}
	a.log.Debug("Rethought", "session", a.sessionID, "returncode", result.ReturnCode, "fixed", reflection.Fixed)
	return reflection, nil
}

// ProposeNames asks for four candidate file names for the current script.
func (a *Agent) ProposeNames(ctx context.Context) (naming.Result, error) {
	return a.namer.Propose(ctx, a)
}

// ProposeSummary describes the session in one line. With a single question the
// question itself is the summary and no model call is made.
func (a *Agent) ProposeSummary(ctx context.Context) (string, error) {
	switch len(a.questions) {
	case 0:
		return "", nil
	case 1:
		return a.questions[0], nil
	}

	reply, err := a.Ask(ctx, fill(a.prompts.Summary, map[string]string{
		"language":   a.Language(),
		"max_length": strconv.Itoa(a.summaryLength),
	}))
	if err != nil {
		return "", err
	}
	return oneLine(reply, a.summaryLength), nil
}

// Ask appends instruction as a system message, sends the transcript and appends the
// reply. On a gateway error the instruction is removed again.
func (a *Agent) Ask(ctx context.Context, instruction string) (string, error) {
	a.messages = append(a.messages, wannatypes.SystemMessage(instruction))
	reply, err := a.send(ctx)
	if err != nil {
		a.Rollback(1)
		return "", err
	}
	a.messages = append(a.messages, wannatypes.AssistantMessage(reply))
	return reply, nil
}

// Rollback drops the last n messages of the transcript.
func (a *Agent) Rollback(n int) {
	if n <= 0 {
		return
	}
	if n > len(a.messages) {
		n = len(a.messages)
	}
	a.messages = a.messages[:len(a.messages)-n]
}

// Reset discards the conversation. The next Think starts a new session and detects
// the language again.
func (a *Agent) Reset() {
	a.messages = nil
	a.language = ""
	a.code, a.hasCode, a.comment = "", false, ""
	a.questions = nil
	a.sessionID = testutils.GenerateUUID(a.testMode)
}

// Code returns the current script, or ErrNoCode when the latest answer had none.
func (a *Agent) Code() (string, error) {
	if !a.hasCode {
		return "", ErrNoCode
	}
	return a.code, nil
}

// HasCode reports whether the latest answer carried a script.
func (a *Agent) HasCode() bool { return a.hasCode }

// Comment returns the display text of the latest answer.
func (a *Agent) Comment() string { return a.comment }

// Language returns the detected ISO 639-1 code, or DefaultLanguage before detection.
func (a *Agent) Language() string {
	if a.language == "" {
		return DefaultLanguage
	}
	return a.language
}

// Questions returns the questions asked in this session, oldest first.
func (a *Agent) Questions() []string {
	return append([]string(nil), a.questions...)
}

// Messages returns a copy of the transcript.
func (a *Agent) Messages() []wannatypes.Message {
	return append([]wannatypes.Message(nil), a.messages...)
}

// SessionID identifies the current conversation in logs.
func (a *Agent) SessionID() string { return a.sessionID }

func (a *Agent) prime(ctx context.Context, question string) {
	a.messages = append(a.messages, wannatypes.SystemMessage(a.prompts.TaskFraming))
	if a.systemInfo != "" && a.prompts.SystemInfo != "" {
		a.messages = append(a.messages, wannatypes.SystemMessage(
			fill(a.prompts.SystemInfo, map[string]string{"system_info": a.systemInfo})))
	}
	a.language = a.detectLanguage(ctx, question)
	a.messages = append(a.messages, wannatypes.SystemMessage(
		fill(a.prompts.LanguageDirective, map[string]string{"language": a.language})))
}

// detectLanguage classifies question with a separate one-shot call outside the transcript.
func (a *Agent) detectLanguage(ctx context.Context, question string) string {
	request := []wannatypes.Message{wannatypes.UserMessage(
		fill(a.prompts.LanguageDetection, map[string]string{"question": question}))}

	reply, err := a.client.SendChatCompletion(ctx, request, &a.model)
	if err != nil {
		a.log.Warn("Language detection failed", "error", err)
		return DefaultLanguage
	}
	code := languagePattern.FindString(strings.ToLower(strings.Trim(strings.TrimSpace(reply), `"'.`)))
	if code == "" {
		a.log.Warn("Unrecognized language code", "reply", reply)
		return DefaultLanguage
	}
	return code
}

func (a *Agent) send(ctx context.Context) (string, error) {
	reply, err := a.client.SendChatCompletion(ctx, a.messages, &a.model)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", a.client.GetProviderName(), err)
	}
	return reply, nil
}

func (a *Agent) parse(reply string) Answer {
	code, ok := parser.ExtractCodeBlock(reply)
	return Answer{
		Comment: parser.RenderDisplay(reply, a.highlight),
		Code:    code,
		HasCode: ok,
	}
}

// oneLine keeps the first non-empty line of reply without surrounding quotes, cut to limit runes.
func oneLine(reply string, limit int) string {
	line := ""
	for _, l := range strings.Split(reply, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.Trim(line, "\"'`")
	if runes := []rune(line); limit > 0 && len(runes) > limit {
		line = strings.TrimSpace(string(runes[:limit]))
	}
	return line
}
