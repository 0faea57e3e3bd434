package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

// Acceptance thresholds, in runes after cleanup.
const (
	MinDescriptionLength = 20 // exclusive
	MinResponseLength    = 10 // exclusive

	QuickQuestionCount     = 4
	MinQuickQuestionLength = 10
	MaxQuickQuestionLength = 100
)

// Metadata accepts text containing a JSON object whose category and priority
// are members of the closed sets. Out-of-vocabulary values are rejected, not
// coerced.
func Metadata(raw string) Outcome[taxonomy.Classification] {
	var parsed struct {
		Category string `json:"category"`
		Priority string `json:"priority"`
	}
	if err := decodeEmbeddedObject(raw, &parsed); err != nil {
		return Reject[taxonomy.Classification](err.Error())
	}

	category, ok := taxonomy.ParseCategory(parsed.Category)
	if !ok {
		return Reject[taxonomy.Classification]("unknown category " + quoteReason(parsed.Category))
	}
	priority, ok := taxonomy.ParsePriority(parsed.Priority)
	if !ok {
		return Reject[taxonomy.Classification]("unknown priority " + quoteReason(parsed.Priority))
	}
	return Accept(taxonomy.Classification{Category: category, Priority: priority})
}

// decodeEmbeddedObject decodes the first complete JSON object in raw into v.
// Text before the object and anything after its closing brace is ignored,
// so prose around the object may itself contain braces.
func decodeEmbeddedObject(raw string, v any) error {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return errors.New("no json object")
	}
	var firstErr error
	for start >= 0 {
		var obj json.RawMessage
		err := json.NewDecoder(strings.NewReader(raw[start:])).Decode(&obj)
		if err == nil {
			return json.Unmarshal(obj, v)
		}
		if firstErr == nil {
			firstErr = err
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return fmt.Errorf("invalid json: %w", firstErr)
}

func quoteReason(s string) string {
	if utf8.RuneCountInString(s) > 40 {
		s = string([]rune(s)[:40]) + "..."
	}
	return `"` + s + `"`
}

// Description accepts an enhanced description longer than MinDescriptionLength
// once quotes and boilerplate labels are removed.
func Description(raw string) Outcome[string] {
	text := StripWrapping(StripBoilerplate(StripWrapping(raw)))
	if utf8.RuneCountInString(text) <= MinDescriptionLength {
		return Reject[string]("description too short")
	}
	return Accept(text)
}

// Response accepts a drafted or enhanced reply longer than MinResponseLength
// once wrapping quotes are removed.
func Response(raw string) Outcome[string] {
	text := StripWrapping(raw)
	if utf8.RuneCountInString(text) <= MinResponseLength {
		return Reject[string]("response too short")
	}
	return Accept(text)
}

var listMarker = regexp.MustCompile(`^\s*(?:\(?\d+[.):]|[-*•])\s*`)

// QuickQuestions returns the validator for one role's quick questions. A
// candidate is accepted only when exactly QuickQuestionCount lines survive the
// shape and vocabulary filters.
func QuickQuestions(role taxonomy.Role) Func[[]string] {
	vocab := taxonomy.VocabularyFor(role)
	return func(raw string) Outcome[[]string] {
		kept := make([]string, 0, QuickQuestionCount)
		for _, line := range strings.Split(raw, "\n") {
			q := StripWrapping(listMarker.ReplaceAllString(StripWrapping(line), ""))
			if !wellFormedQuestion(q) || !vocab.Matches(q) {
				continue
			}
			kept = append(kept, q)
		}
		if len(kept) != QuickQuestionCount {
			return Reject[[]string](fmt.Sprintf("got %d questions, want %d", len(kept), QuickQuestionCount))
		}
		return Accept(kept)
	}
}

func wellFormedQuestion(q string) bool {
	n := utf8.RuneCountInString(q)
	return n >= MinQuickQuestionLength && n <= MaxQuickQuestionLength && strings.HasSuffix(q, "?")
}
