package output

// PlainTextStyle implements TextStyle for plain text output without any styling.
// A prefix keeps the semantic meaning visible without colors.
type PlainTextStyle struct {
	prefix string
}

// Render implements TextStyle.Render by prepending the semantic prefix.
func (p PlainTextStyle) Render(strs ...string) string {
	text := ""
	for _, s := range strs {
		text += s
	}
	return p.prefix + text
}

// PlainStyleProvider provides prefix-only styles.
type PlainStyleProvider struct{}

// NewPlainStyleProvider creates a new plain style provider.
func NewPlainStyleProvider() *PlainStyleProvider {
	return &PlainStyleProvider{}
}

// GetStyle returns the plain style for a semantic type.
func (p *PlainStyleProvider) GetStyle(semantic SemanticType) TextStyle {
	switch semantic {
	case SemanticInfo:
		return PlainTextStyle{prefix: "ℹ "}
	case SemanticSuccess:
		return PlainTextStyle{prefix: "✓ "}
	case SemanticWarning:
		return PlainTextStyle{prefix: "⚠ "}
	case SemanticError:
		return PlainTextStyle{prefix: "✗ "}
	case SemanticDiffAdded:
		return PlainTextStyle{prefix: "+ "}
	case SemanticDiffRemoved:
		return PlainTextStyle{prefix: "- "}
	default:
		return PlainTextStyle{}
	}
}

// IsAvailable always returns true for the plain provider.
func (p *PlainStyleProvider) IsAvailable() bool {
	return true
}
