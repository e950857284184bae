package output

import (
	"bytes"
	"strings"
)

// CaptureBuffer is a buffer for capturing output during tests.
type CaptureBuffer struct {
	buf bytes.Buffer
}

// NewCaptureBuffer creates a new capture buffer.
func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

// Write implements io.Writer for capturing output.
func (c *CaptureBuffer) Write(p []byte) (n int, err error) {
	return c.buf.Write(p)
}

// String returns the captured output as a string.
func (c *CaptureBuffer) String() string {
	return c.buf.String()
}

// Lines returns the captured output split into lines.
func (c *CaptureBuffer) Lines() []string {
	content := c.String()
	if content == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// Reset clears the captured output.
func (c *CaptureBuffer) Reset() {
	c.buf.Reset()
}

// Contains checks if the captured output contains the given text.
func (c *CaptureBuffer) Contains(text string) bool {
	return strings.Contains(c.String(), text)
}

// CaptureOutput captures output from a function that uses a Printer.
func CaptureOutput(fn func(*Printer)) string {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode())
	fn(printer)
	return buffer.String()
}

// MockStyleProvider wraps text in [semantic]...[/semantic] markers.
type MockStyleProvider struct{}

// GetStyle implements StyleProvider.GetStyle.
func (m *MockStyleProvider) GetStyle(semantic SemanticType) TextStyle {
	return mockTextStyle{semantic: semantic}
}

// IsAvailable implements StyleProvider.IsAvailable.
func (m *MockStyleProvider) IsAvailable() bool {
	return true
}

type mockTextStyle struct {
	semantic SemanticType
}

func (m mockTextStyle) Render(strs ...string) string {
	return "[" + string(m.semantic) + "]" + strings.Join(strs, "") + "[/" + string(m.semantic) + "]"
}
