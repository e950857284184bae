package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// AnswerHeader is printed above every reply shown to the user.
const AnswerHeader = "AI Answer:"

// Printer is the main output handler that supports both plain and styled output.
// It uses dependency injection to optionally support styling.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	forcePlain    bool
	testMode      bool
	markdownWidth int

	// Thread safety for concurrent output
	mu sync.Mutex
}

// NewPrinter creates a new Printer with the given options.
// By default, it writes plain text to os.Stdout.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer:        os.Stdout,
		markdownWidth: 80,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Writer returns the destination of this printer.
func (p *Printer) Writer() io.Writer {
	return p.writer
}

// IsPlain reports whether output is rendered without styles.
func (p *Printer) IsPlain() bool {
	return p.forcePlain || p.styleProvider == nil
}

// Print outputs text without any semantic styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without any semantic styling.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text with a newline without any semantic styling.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text with info styling.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success outputs success text with success styling (typically green).
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Warning outputs warning text with warning styling (typically yellow).
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs error text with error styling (typically red).
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Answer prints the answer header followed by the display text of a reply.
// The text may carry terminal escapes from syntax highlighting; plain printers strip them.
func (p *Printer) Answer(text string) {
	p.output(SemanticHeader, AnswerHeader, true)
	if p.IsPlain() {
		text = ansi.Strip(text)
	}
	p.write(text + "\n")
}

// Diff prints a line-based diff between two versions of a script.
func (p *Printer) Diff(before, after string) {
	p.write(p.renderDiff(before, after))
}

// Markdown renders markdown text for the terminal. Plain printers print the source as is.
func (p *Printer) Markdown(text string) {
	if p.IsPlain() {
		p.write(ensureNewline(text))
		return
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(p.markdownWidth),
	)
	if err != nil {
		p.write(ensureNewline(text))
		return
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		p.write(ensureNewline(text))
		return
	}
	p.write(rendered)
}

func (p *Printer) renderDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				sb.WriteString(p.render(SemanticDiffAdded, line))
			case diffmatchpatch.DiffDelete:
				sb.WriteString(p.render(SemanticDiffRemoved, line))
			default:
				sb.WriteString("  " + line)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// output is the core output method that handles all rendering logic.
func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	result := p.render(semantic, text)
	if addNewline {
		result = ensureNewline(result)
	}
	p.write(result)
}

func (p *Printer) render(semantic SemanticType, text string) string {
	if !p.forcePlain && p.styleProvider != nil && p.styleProvider.IsAvailable() {
		return p.styleProvider.GetStyle(semantic).Render(text)
	}
	return NewPlainStyleProvider().GetStyle(semantic).Render(text)
}

func (p *Printer) write(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprint(p.writer, text) // Ignore write errors for output operations
}

func ensureNewline(text string) string {
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}
