package output

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestPrinterBasicOutput(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Print("hello")
	printer.Println("world")
	printer.Printf("number: %d", 42)

	result := buffer.String()

	if !strings.Contains(result, "hello") {
		t.Errorf("Expected output to contain 'hello', got: %s", result)
	}
	if !strings.Contains(result, "world\n") {
		t.Errorf("Expected output to contain 'world\\n', got: %s", result)
	}
	if !strings.Contains(result, "number: 42") {
		t.Errorf("Expected output to contain 'number: 42', got: %s", result)
	}
}

func TestPrinterSemanticOutput(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Info("information")
	printer.Success("completed")
	printer.Warning("careful")
	printer.Error("failed")

	lines := buffer.Lines()

	expectedLines := []string{
		"ℹ information",
		"✓ completed",
		"⚠ careful",
		"✗ failed",
	}

	if len(lines) != len(expectedLines) {
		t.Fatalf("Expected %d lines, got %d: %v", len(expectedLines), len(lines), lines)
	}

	for i, expected := range expectedLines {
		if lines[i] != expected {
			t.Errorf("Line %d: expected '%s', got '%s'", i, expected, lines[i])
		}
	}
}

func TestPrinterWithMockStyleProvider(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), WithStyles(&MockStyleProvider{}))

	printer.Success("saved")

	if got := buffer.String(); got != "[success]saved[/success]\n" {
		t.Errorf("Unexpected styled output: %q", got)
	}
	if printer.IsPlain() {
		t.Error("Printer with available styles should not be plain")
	}
}

func TestPrinterWithUnavailableStyleProvider(t *testing.T) {
	buffer := NewCaptureBuffer()
	provider := NewTerminalStyleProviderWithProfile(termenv.Ascii)
	printer := NewPrinter(WithWriter(buffer), WithStyles(provider))

	printer.Info("message")

	if got := buffer.String(); got != "ℹ message\n" {
		t.Errorf("Expected plain fallback, got %q", got)
	}
	if !printer.IsPlain() {
		t.Error("Printer should be plain when the provider is unavailable")
	}
}

func TestPrinterAnswerStripsEscapesInPlainMode(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), PlainText())

	printer.Answer("List files\n```bash\n\x1b[38;5;81mls\x1b[0m -la\n```")

	expected := "AI Answer:\nList files\n```bash\nls -la\n```\n"
	if got := buffer.String(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestPrinterDiff(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Diff("echo one\necho two\n", "echo one\necho three\n")

	lines := buffer.Lines()
	expected := []string{"  echo one", "- echo two", "+ echo three"}
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %v", len(expected), lines)
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("Line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}

func TestPrinterDiffIdentical(t *testing.T) {
	out := CaptureOutput(func(p *Printer) {
		p.Diff("pwd", "pwd")
	})
	if out != "  pwd\n" {
		t.Errorf("Expected unchanged line, got %q", out)
	}
}

func TestPrinterMarkdownPlain(t *testing.T) {
	out := CaptureOutput(func(p *Printer) {
		p.Markdown("# backup\nCopies files")
	})
	if out != "# backup\nCopies files\n" {
		t.Errorf("Plain markdown should be printed verbatim, got %q", out)
	}
}

func TestPrinterMarkdownStyled(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), WithStyles(&MockStyleProvider{}), WithMarkdownWidth(40))

	printer.Markdown("Copies **files**")

	if !buffer.Contains("files") {
		t.Errorf("Rendered markdown lost its text: %q", buffer.String())
	}
}

func TestCaptureOutput(t *testing.T) {
	out := CaptureOutput(func(p *Printer) {
		p.Println("captured")
	})
	if out != "captured\n" {
		t.Errorf("Expected 'captured\\n', got %q", out)
	}
}

func TestTerminalStyleProvider(t *testing.T) {
	provider := NewTerminalStyleProviderWithProfile(termenv.ANSI256)
	if !provider.IsAvailable() {
		t.Fatal("ANSI256 profile should be available")
	}
	if got := provider.GetStyle(SemanticPlain).Render("x"); !strings.Contains(got, "x") {
		t.Errorf("Unstyled render lost text: %q", got)
	}
}

func TestCaptureBufferMethods(t *testing.T) {
	buffer := NewCaptureBuffer()
	if len(buffer.Lines()) != 0 {
		t.Error("Empty buffer should have no lines")
	}

	_, _ = buffer.Write([]byte("line1\nline2\n"))
	if lines := buffer.Lines(); len(lines) != 2 || lines[1] != "line2" {
		t.Errorf("Unexpected lines: %v", lines)
	}
	if !buffer.Contains("line1") {
		t.Error("Buffer should contain line1")
	}

	buffer.Reset()
	if buffer.String() != "" {
		t.Error("Reset should clear the buffer")
	}
}
