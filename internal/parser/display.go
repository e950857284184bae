package parser

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// Highlighter turns shell code into its terminal presentation.
type Highlighter func(code string) string

// PlainHighlighter leaves code untouched.
func PlainHighlighter(code string) string {
	return code
}

// ChromaHighlighter returns a Highlighter that colors bash with the named chroma style.
// Highlighting failures fall back to the plain code.
func ChromaHighlighter(style string) Highlighter {
	return func(code string) string {
		var b strings.Builder
		if err := quick.Highlight(&b, code, "bash", "terminal256", style); err != nil {
			return code
		}
		return b.String()
	}
}

// RenderDisplay re-renders every shell fenced block in text with highlight and leaves the
// surrounding prose as is. It is display-only: the values returned by ExtractCodeBlock
// and ExtractJSONBlock never go through it.
func RenderDisplay(text string, highlight Highlighter) string {
	if highlight == nil {
		highlight = PlainHighlighter
	}
	return codeBlockPattern.ReplaceAllStringFunc(text, func(block string) string {
		match := codeBlockPattern.FindStringSubmatch(block)
		return match[1] + highlight(match[2]) + "```"
	})
}
