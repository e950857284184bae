// Package output provides wanna's console output: semantic messages, the model's answer,
// script diffs and rendered markdown. Styling is optional and injected via StyleProvider.
package output

// StyleProvider supplies styled rendering for semantic output types.
// The Printer falls back to plain prefixes when no provider is available.
type StyleProvider interface {
	// GetStyle returns a TextStyle for the given semantic type.
	GetStyle(semantic SemanticType) TextStyle

	// IsAvailable returns true if the style provider is ready to provide styles.
	IsAvailable() bool
}

// TextStyle represents the capability to render text with styling.
// lipgloss.Style satisfies it.
type TextStyle interface {
	Render(strs ...string) string
}

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents success or completion text.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents warning text.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents error text.
	SemanticError SemanticType = "error"
	// SemanticHeader represents section headers such as "AI Answer:".
	SemanticHeader SemanticType = "header"
	// SemanticDiffAdded represents lines added to a script.
	SemanticDiffAdded SemanticType = "diff_added"
	// SemanticDiffRemoved represents lines removed from a script.
	SemanticDiffRemoved SemanticType = "diff_removed"
)
