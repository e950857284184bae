package output

import "io"

// Option is a functional option for configuring Printer instances.
type Option func(*Printer)

// WithStyles configures the printer to use the provided StyleProvider for styling.
// If the provider is nil or not available, the printer will fall back to plain text.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
		}
	}
}

// WithWriter configures the printer to write output to the specified writer.
// Default is os.Stdout if not specified.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// PlainText forces plain output: no styles and escape sequences stripped from
// pre-rendered text such as highlighted code.
func PlainText() Option {
	return func(p *Printer) {
		p.forcePlain = true
	}
}

// TestMode configures the printer for deterministic output in tests.
func TestMode() Option {
	return func(p *Printer) {
		p.forcePlain = true
		p.testMode = true
	}
}

// WithMarkdownWidth sets the word wrap width used when rendering markdown.
func WithMarkdownWidth(width int) Option {
	return func(p *Printer) {
		if width > 0 {
			p.markdownWidth = width
		}
	}
}
