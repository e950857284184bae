package wannatypes

import "strings"

// ExecutionResult is the outcome of a single script execution.
type ExecutionResult struct {
	ReturnCode int    `json:"returncode"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	// NotStarted is set when the interpreter itself could not be started.
	NotStarted bool `json:"-"`
}

// Failed reports whether the execution should be treated as a failure:
// a nonzero exit code or anything written to the error stream.
func (r ExecutionResult) Failed() bool {
	return r.ReturnCode != 0 || strings.TrimSpace(r.Stderr) != ""
}

// NamedScript is a saved, reusable script.
type NamedScript struct {
	Name     string `toml:"-"`
	Question string `toml:"question"`
	Code     string `toml:"code,multiline"`
}

// Idea formats the script the way the command chooser lists it.
func (s NamedScript) Idea() string {
	return s.Name + " ~ " + s.Question
}
