// Package validate holds the per-operation acceptance rules applied to raw
// model output. A validator only trims wrapping quotes, boilerplate prefixes
// and whitespace; it never rewrites meaning.
package validate

import (
	"regexp"
	"strings"
)

// Outcome is the tagged result of validating one candidate.
type Outcome[T any] struct {
	Accepted bool
	Value    T
	Reason   string
}

// Accept wraps an accepted value.
func Accept[T any](v T) Outcome[T] {
	return Outcome[T]{Accepted: true, Value: v}
}

// Reject returns a rejection with a short machine-readable reason.
func Reject[T any](reason string) Outcome[T] {
	return Outcome[T]{Reason: reason}
}

// Func validates one raw candidate text.
type Func[T any] func(raw string) Outcome[T]

var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"`", "`"},
	{"“", "”"},
	{"‘", "’"},
	{"«", "»"},
}

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\n?```$")

// StripWrapping removes surrounding whitespace, a markdown code fence and
// matching pairs of wrapping quote characters.
func StripWrapping(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	for {
		stripped := false
		for _, q := range quotePairs {
			if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
				s = strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

// Prefixes models like to put in front of rewritten text. Longest first.
var boilerplatePrefix = regexp.MustCompile(`(?i)^\s*(?:` +
	`here(?:'s| is) (?:the |an |your )?(?:enhanced|improved|rewritten|expanded|revised) (?:complaint )?(?:description|version|response|reply|text)` +
	`|(?:enhanced|improved|rewritten|revised|expanded) (?:complaint )?(?:description|version|response|reply|text)` +
	`|enhanced|rewritten|improved|revised|description|response|reply|answer|output` +
	`)\s*[:\-]\s*`)

// StripBoilerplate removes one leading "Enhanced:"-style label.
func StripBoilerplate(s string) string {
	return strings.TrimSpace(boilerplatePrefix.ReplaceAllString(s, ""))
}
