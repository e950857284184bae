package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Unbraced parameters are a single digit in bash: $10 is $1 followed by "0".
var positionalPattern = regexp.MustCompile(`\$([1-9])|\$\{([0-9]+)\}`)

// ExtractArguments returns the positional parameters ($1, ${2}, ...) referenced by code,
// deduplicated and in numeric order. $0 is the script name and is not reported.
func ExtractArguments(code string) []string {
	seen := make(map[int]bool)
	for _, match := range positionalPattern.FindAllStringSubmatch(code, -1) {
		digits := match[1]
		if digits == "" {
			digits = match[2]
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n == 0 {
			continue
		}
		seen[n] = true
	}

	positions := make([]int, 0, len(seen))
	for n := range seen {
		positions = append(positions, n)
	}
	sort.Ints(positions)

	args := make([]string, len(positions))
	for i, n := range positions {
		args[i] = "$" + strconv.Itoa(n)
	}
	return args
}

// NeedsArguments reports whether code references any positional parameter.
func NeedsArguments(code string) bool {
	return len(ExtractArguments(code)) > 0
}

// SplitArguments splits a user-typed argument line using shell quoting rules.
func SplitArguments(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return []string{}, nil
	}
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("invalid argument line: %w", err)
	}
	return args, nil
}
