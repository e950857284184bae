package shell

import (
	"sort"
	"strings"
)

// IdeaCompleter implements readline.AutoCompleter over "name ~ question" lines.
// The whole line typed so far is matched as a prefix of each idea.
type IdeaCompleter struct {
	ideas []string
}

// NewIdeaCompleter creates a completer for the given ideas.
func NewIdeaCompleter(ideas []string) *IdeaCompleter {
	sorted := append([]string(nil), ideas...)
	sort.Strings(sorted)
	return &IdeaCompleter{ideas: sorted}
}

// Do implements the readline.AutoCompleter interface.
// It returns the missing suffix of every idea that starts with the text before the cursor.
func (c *IdeaCompleter) Do(line []rune, pos int) (newLine [][]rune, offset int) {
	if pos > len(line) {
		pos = len(line)
	}
	typed := string(line[:pos])

	var suggestions [][]rune
	for _, idea := range c.ideas {
		if strings.HasPrefix(idea, typed) {
			suggestions = append(suggestions, []rune(strings.TrimPrefix(idea, typed)))
		}
	}
	return suggestions, len([]rune(typed))
}
