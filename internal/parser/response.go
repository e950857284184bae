// Package parser extracts machine-consumable payloads (shell code, JSON) from free-form model replies.
package parser

import (
	"regexp"
)

var (
	codeBlockPattern = regexp.MustCompile("(?s)(```(?i:bash|shell|sh)[ \t]*\r?\n)(.*?)```")
	jsonBlockPattern = regexp.MustCompile("(?s)```(?i:json)[ \t]*\r?\n?(.*?)```")
)

// ExtractCodeBlock returns the inner text of the first shell-tagged fenced block.
// Later blocks are ignored. ok is false when the text has no such block.
func ExtractCodeBlock(text string) (code string, ok bool) {
	match := codeBlockPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[2], true
}

// ExtractJSONBlock returns the inner text of the first json-tagged fenced block,
// or the whole text when there is none. The result is not validated.
func ExtractJSONBlock(text string) string {
	match := jsonBlockPattern.FindStringSubmatch(text)
	if match == nil {
		return text
	}
	return match[1]
}
