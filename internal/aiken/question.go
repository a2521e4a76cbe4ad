// Package aiken parses the Aiken plain-text multiple-choice format.
package aiken

import "fmt"

// Option is one answer choice, keyed by its display letter.
type Option struct {
	Letter rune
	Text   string
}

// Question is a single parsed multiple-choice question. Questions are
// built by Parse and are immutable afterwards.
type Question struct {
	// Identifier is unique within one Parse call (q_1, q_2, ...).
	// The packager assigns its own archive-wide identifiers and does
	// not rely on this one.
	Identifier string
	Text       string
	// Options are ordered A, B, C, ... with contiguous letters.
	Options []Option
	// Answer is the letter of the correct option and always matches
	// one entry in Options.
	Answer rune
}

// HasOption reports whether letter is among the declared options.
func (q Question) HasOption(letter rune) bool {
	for _, o := range q.Options {
		if o.Letter == letter {
			return true
		}
	}
	return false
}

// ParseError describes a structural violation in the input, pointing
// at the offending source line. One malformed block aborts the whole
// parse: silently dropping questions from an exam bank is worse than a
// hard failure.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
