package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// TerminalStyleProvider renders semantic output with lipgloss, when the terminal supports color.
type TerminalStyleProvider struct {
	profile termenv.Profile
	styles  map[SemanticType]lipgloss.Style
}

// NewTerminalStyleProvider detects the color profile of stdout and builds the styles.
func NewTerminalStyleProvider() *TerminalStyleProvider {
	return NewTerminalStyleProviderWithProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
}

// NewTerminalStyleProviderWithProfile builds the styles for an explicit color profile.
func NewTerminalStyleProviderWithProfile(profile termenv.Profile) *TerminalStyleProvider {
	return &TerminalStyleProvider{
		profile: profile,
		styles: map[SemanticType]lipgloss.Style{
			SemanticInfo:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			SemanticSuccess:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			SemanticWarning:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			SemanticError:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			SemanticHeader:      lipgloss.NewStyle().Bold(true).Reverse(true),
			SemanticDiffAdded:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			SemanticDiffRemoved: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		},
	}
}

// GetStyle returns the lipgloss style for a semantic type; unknown types render unstyled.
func (t *TerminalStyleProvider) GetStyle(semantic SemanticType) TextStyle {
	if style, ok := t.styles[semantic]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// IsAvailable reports whether the terminal can show colors at all.
func (t *TerminalStyleProvider) IsAvailable() bool {
	return t.profile != termenv.Ascii
}

// SupportsColor reports whether stdout can show colors; NO_COLOR and dumb terminals cannot.
func SupportsColor() bool {
	return termenv.NewOutput(os.Stdout).EnvColorProfile() != termenv.Ascii
}
