// Package clipboard copies generated scripts to the system clipboard where the platform allows it.
package clipboard

import "sync"

// Clipboard writes text to the system clipboard.
type Clipboard struct {
	once    sync.Once
	initErr error
}

// New creates a clipboard. The platform clipboard is initialized on first use.
func New() *Clipboard {
	return &Clipboard{}
}

// Available reports whether this build can reach a system clipboard.
func (c *Clipboard) Available() bool {
	return clipboardAvailable
}

// Copy writes text to the system clipboard.
func (c *Clipboard) Copy(text string) error {
	c.once.Do(func() {
		c.initErr = initClipboard()
	})
	if c.initErr != nil {
		return c.initErr
	}
	return writeToClipboard(text)
}
