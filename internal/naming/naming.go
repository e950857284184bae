// Package naming asks the model for candidate script names and validates the reply.
package naming

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"wanna/internal/logger"
	"wanna/internal/parser"
)

const (
	// MaxAttempts is the number of model calls made before giving up.
	MaxAttempts = 3
	// CandidateCount is the exact number of names a valid reply carries.
	CandidateCount = 4
)

var (
	// ErrRetriesExhausted is returned when every attempt produced an invalid reply.
	ErrRetriesExhausted = errors.New("naming: no valid name candidates after retries")
	// ErrInvalidCandidates describes a reply that does not hold exactly four usable names.
	ErrInvalidCandidates = errors.New("naming: invalid name candidates")
)

var safeNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Conversation is the part of the agent the naming protocol drives.
type Conversation interface {
	// Ask appends instruction as a system message, sends the transcript and
	// appends the reply as an assistant message.
	Ask(ctx context.Context, instruction string) (string, error)
	// Rollback removes the last n messages from the transcript.
	Rollback(n int)
}

// Result carries the outcome of a naming run.
type Result struct {
	Names    []string
	Attempts int
	LastErr  error
}

// Service runs the bounded naming protocol.
type Service struct {
	instruction string
	maxAttempts int
}

// NewService creates a naming service that sends instruction on each attempt.
func NewService(instruction string) *Service {
	return &Service{instruction: instruction, maxAttempts: MaxAttempts}
}

// Propose asks for four names, retrying on malformed replies.
// Each failed attempt's system+assistant pair is removed from the transcript.
// Gateway errors end the run immediately.
func (s *Service) Propose(ctx context.Context, conv Conversation) (Result, error) {
	var result Result
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result.Attempts = attempt
		reply, err := conv.Ask(ctx, s.instruction)
		if err != nil {
			result.LastErr = err
			return result, fmt.Errorf("naming attempt %d: %w", attempt, err)
		}

		names, err := ParseCandidates(reply)
		if err == nil {
			result.Names = names
			result.LastErr = nil
			return result, nil
		}

		logger.Debug("Rejected name candidates", "attempt", attempt, "error", err)
		result.LastErr = err
		conv.Rollback(2)
	}
	return result, fmt.Errorf("%w (%d attempts): %v", ErrRetriesExhausted, result.Attempts, result.LastErr)
}

// ParseCandidates extracts exactly four names from a model reply.
// The payload is a JSON array of strings or an object with a "candidates" array,
// optionally inside a ```json fence. Names are returned unmodified.
func ParseCandidates(reply string) ([]string, error) {
	payload := parser.ExtractJSONBlock(reply)
	if !gjson.Valid(payload) {
		return nil, fmt.Errorf("%w: reply is not valid JSON", ErrInvalidCandidates)
	}

	list := gjson.Parse(payload)
	if list.IsObject() {
		list = list.Get("candidates")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array of names", ErrInvalidCandidates)
	}

	items := list.Array()
	if len(items) != CandidateCount {
		return nil, fmt.Errorf("%w: expected %d names, got %d", ErrInvalidCandidates, CandidateCount, len(items))
	}

	names := make([]string, 0, CandidateCount)
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("%w: %s is not a string", ErrInvalidCandidates, item.Raw)
		}
		if !IsSafeName(item.Str) {
			return nil, fmt.Errorf("%w: %q is not a safe file name", ErrInvalidCandidates, item.Str)
		}
		names = append(names, item.Str)
	}
	return names, nil
}

// IsSafeName reports whether name can be used as a file name in the script directory.
// Hidden names are rejected; the directory also holds .env and the store's temp files.
func IsSafeName(name string) bool {
	return !strings.HasPrefix(name, ".") && safeNamePattern.MatchString(name)
}
