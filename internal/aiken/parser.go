package aiken

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	optionPattern = regexp.MustCompile(`^([A-Z])[).]\s*(\S.*)$`)
	answerPattern = regexp.MustCompile(`(?i)^ANSWER:\s*([A-Z])$`)
)

// parseState tracks where we are inside the current question block.
type parseState int

const (
	stateExpectQuestion parseState = iota
	stateQuestionText
	stateOptions
)

// Parse converts decoded input lines into an ordered list of Questions.
// It is a single forward pass over blank-line-delimited blocks; all
// state is local to the call. Input must already be decoded text (see
// package textfile); Parse never inspects byte encodings.
func Parse(lines []string) ([]Question, error) {
	var (
		questions []Question
		state     = stateExpectQuestion
		textParts []string
		options   []Option
		lastLine  int
	)

	reset := func() {
		state = stateExpectQuestion
		textParts = nil
		options = nil
	}

	for i, raw := range lines {
		n := i + 1
		line := strings.TrimSpace(raw)

		if line == "" {
			// Block separator. Only legal between complete blocks.
			switch state {
			case stateQuestionText:
				return nil, &ParseError{Line: lastLine, Reason: "question has no options"}
			case stateOptions:
				return nil, &ParseError{Line: lastLine, Reason: "missing answer"}
			}
			continue
		}
		lastLine = n

		if m := answerPattern.FindStringSubmatch(line); m != nil {
			if state != stateOptions {
				return nil, &ParseError{Line: n, Reason: "question has no options"}
			}
			q, err := finalize(textParts, options, unicode.ToUpper(rune(m[1][0])), n, len(questions)+1)
			if err != nil {
				return nil, err
			}
			questions = append(questions, q)
			reset()
			continue
		}

		if m := optionPattern.FindStringSubmatch(line); m != nil {
			letter := rune(m[1][0])
			next := 'A' + rune(len(options))
			switch {
			case letter == next:
				options = append(options, Option{Letter: letter, Text: strings.TrimSpace(m[2])})
				state = stateOptions
				continue
			case state == stateOptions:
				return nil, &ParseError{Line: n, Reason: "out-of-sequence option"}
			}
			// Looks like an option but is not the next expected letter
			// and no option run is open: treat as question text.
		}

		switch state {
		case stateExpectQuestion, stateQuestionText:
			textParts = append(textParts, line)
			state = stateQuestionText
		case stateOptions:
			// Continuation of the previous option's text.
			options[len(options)-1].Text += " " + line
		}
	}

	// End of input is an implicit block terminator, but only for
	// complete blocks.
	switch state {
	case stateQuestionText:
		return nil, &ParseError{Line: lastLine, Reason: "question has no options"}
	case stateOptions:
		return nil, &ParseError{Line: lastLine, Reason: "missing answer"}
	}

	return questions, nil
}

// finalize validates an accumulated block and builds its Question.
// line is the ANSWER line number, used for error reporting.
func finalize(textParts []string, options []Option, answer rune, line, seq int) (Question, error) {
	text := strings.Join(textParts, " ")
	if text == "" {
		return Question{}, &ParseError{Line: line, Reason: "empty question text"}
	}
	if len(options) < 2 {
		return Question{}, &ParseError{Line: line, Reason: "fewer than two options"}
	}
	q := Question{
		Identifier: fmt.Sprintf("q_%d", seq),
		Text:       text,
		Options:    options,
		Answer:     answer,
	}
	if !q.HasOption(answer) {
		return Question{}, &ParseError{Line: line, Reason: "answer references undeclared option"}
	}
	return q, nil
}
