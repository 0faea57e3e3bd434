package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinEnhanceLength is the shortest trimmed description, in runes, that the
// local enhancer rewrites. Shorter input is returned unchanged.
const MinEnhanceLength = 5

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
	// standalone restricts the match to free-standing words, not parts of
	// abbreviations like "u.s." or labels like "r 5".
	standalone bool
}

func word(fragment, replacement string) substitution {
	fragment = strings.ReplaceAll(fragment, "'", `['’]`)
	return substitution{
		pattern:     regexp.MustCompile(`(?i)\b` + fragment + `\b`),
		replacement: replacement,
	}
}

// contraction also matches the form typed without an apostrophe ("dont").
// Only used where the bare form is not an ordinary English word.
func contraction(fragment, replacement string) substitution {
	fragment = strings.ReplaceAll(fragment, "'", `['’]?`)
	return substitution{
		pattern:     regexp.MustCompile(`(?i)\b` + fragment + `\b`),
		replacement: replacement,
	}
}

func letter(fragment, replacement string) substitution {
	s := word(fragment, replacement)
	s.standalone = true
	return s
}

// Contractions come before informal tokens so "i'm" is expanded before "i" is
// touched. "its", "ill", "id", "were" and "lets" are real words, so those
// contractions still need the apostrophe.
var informalSubstitutions = []substitution{
	contraction("i'm", "I am"),
	contraction("i've", "I have"),
	word("i'll", "I will"),
	word("i'd", "I would"),
	contraction("don't", "do not"),
	contraction("doesn't", "does not"),
	contraction("didn't", "did not"),
	contraction("can't", "cannot"),
	contraction("won't", "will not"),
	contraction("isn't", "is not"),
	contraction("aren't", "are not"),
	contraction("wasn't", "was not"),
	contraction("weren't", "were not"),
	contraction("haven't", "have not"),
	contraction("hasn't", "has not"),
	contraction("hadn't", "had not"),
	contraction("couldn't", "could not"),
	contraction("shouldn't", "should not"),
	contraction("wouldn't", "would not"),
	word("it's", "it is"),
	contraction("that's", "that is"),
	contraction("there's", "there is"),
	contraction("what's", "what is"),
	contraction("you're", "you are"),
	contraction("they're", "they are"),
	word("we're", "we are"),
	word("let's", "let us"),
	word("idk", "I do not know"),
	letter("u", "you"),
	letter("ur", "your"),
	letter("r", "are"),
	word("pls", "please"),
	word("plz", "please"),
	word("thx", "thank you"),
	word("b?coz", "because"),
	word("cuz", "because"),
	word("wanna", "want to"),
	word("gonna", "going to"),
	word("gotta", "have to"),
	word("b4", "before"),
	word("msg", "message"),
	word("abt", "about"),
	word("tmrw", "tomorrow"),
	letter("i", "I"),
}

var toneSubstitutions = []substitution{
	word("bad", "unsatisfactory"),
	word("worst", "most unsatisfactory"),
	word("terrible", "very poor"),
	word("awful", "very poor"),
	word("horrible", "very poor"),
	word("useless", "ineffective"),
	word("broken", "damaged"),
	word("dirty", "unclean"),
	word("rude", "discourteous"),
	word("stupid", "unreasonable"),
	word("angry", "frustrated"),
	word("sucks", "is unsatisfactory"),
	word("crappy", "poor"),
	word("crap", "poor"),
}

// Bare first words that get a formal opening. None of these appear in the
// substitution tables above.
var (
	reportedNouns = map[string]bool{
		"wifi": true, "internet": true, "network": true, "fan": true, "fans": true,
		"ac": true, "projector": true, "mentor": true, "teacher": true, "class": true,
		"session": true, "fees": true, "fee": true, "refund": true, "payment": true,
		"certificate": true, "lab": true, "washroom": true, "water": true, "chair": true,
		"chairs": true, "desk": true, "hub": true, "laptop": true, "system": true,
		"computer": true, "canteen": true, "food": true, "room": true, "hostel": true,
		"library": true, "lights": true, "light": true, "bus": true,
	}
	requestVerbs = map[string]bool{
		"need": true, "want": true, "require": true, "request": true,
	}
	imperativeVerbs = map[string]bool{
		"fix": true, "change": true, "replace": true, "provide": true,
		"help": true, "check": true, "resolve": true, "repair": true,
	}
)

var (
	sentenceStartRegex  = regexp.MustCompile(`(^|[.!?]\s+)\p{Ll}`)
	clauseSpacingRegex  = regexp.MustCompile(`([,;:])(\p{L})`)
	sentenceSpacingRe   = regexp.MustCompile(`([.!?])(\p{Lu})`)
	whitespaceRunRegex  = regexp.MustCompile(`\s+`)
	leadingWordRegex    = regexp.MustCompile(`^\p{L}+`)
	terminalPunctuation = ".!?"
)

// EnhanceDescription rewrites a complaint description into a more formal
// version without changing its meaning. The steps run in a fixed order and
// the result is a fixed point: enhancing the output again changes nothing.
func EnhanceDescription(description string) string {
	text := strings.TrimSpace(description)
	if utf8.RuneCountInString(text) < MinEnhanceLength {
		return description
	}

	text = capitalizeSentences(text)
	text = spaceAfterPunctuation(text)
	text = collapseWhitespace(text)
	text = ensureTerminalPunctuation(text)
	text = substitute(text, informalSubstitutions)
	text = substitute(text, toneSubstitutions)
	text = addFormalOpening(text)
	return text
}

func capitalizeSentences(text string) string {
	return sentenceStartRegex.ReplaceAllStringFunc(text, func(m string) string {
		r, size := utf8.DecodeLastRuneInString(m)
		return m[:len(m)-size] + string(unicode.ToUpper(r))
	})
}

// Space after a full stop is only added before an upper-case letter, so
// "example.com" is left alone and no lower-case sentence start is created.
func spaceAfterPunctuation(text string) string {
	text = clauseSpacingRegex.ReplaceAllString(text, "$1 $2")
	return sentenceSpacingRe.ReplaceAllString(text, "$1 $2")
}

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRunRegex.ReplaceAllString(text, " "))
}

func ensureTerminalPunctuation(text string) string {
	last, _ := utf8.DecodeLastRuneInString(text)
	if strings.ContainsRune(terminalPunctuation, last) {
		return text
	}
	return text + "."
}

func substitute(text string, table []substitution) string {
	for _, s := range table {
		if !s.standalone {
			text = s.pattern.ReplaceAllStringFunc(text, func(m string) string {
				return matchCase(m, s.replacement)
			})
			continue
		}
		var sb strings.Builder
		last := 0
		for _, loc := range s.pattern.FindAllStringIndex(text, -1) {
			if !isStandalone(text, loc[0], loc[1]) {
				continue
			}
			sb.WriteString(text[last:loc[0]])
			sb.WriteString(matchCase(text[loc[0]:loc[1]], s.replacement))
			last = loc[1]
		}
		sb.WriteString(text[last:])
		text = sb.String()
	}
	return text
}

// isStandalone reports whether text[start:end] is a word on its own: not
// glued to a dotted abbreviation, a hyphen, a slash or an apostrophe, and
// not a label followed by a number.
func isStandalone(text string, start, end int) bool {
	if before, _ := utf8.DecodeLastRuneInString(text[:start]); strings.ContainsRune(".-/'’@", before) {
		return false
	}
	after := text[end:]
	next, size := utf8.DecodeRuneInString(after)
	switch {
	case strings.ContainsRune("-/'’@", next):
		return false
	case next == '.':
		following, _ := utf8.DecodeRuneInString(after[size:])
		return !unicode.IsLetter(following) && !unicode.IsDigit(following)
	case next == ' ':
		following, _ := utf8.DecodeRuneInString(after[size:])
		return !unicode.IsDigit(following)
	}
	return true
}

// matchCase upper-cases the first letter of replacement when the matched word
// started with a capital. It never lower-cases.
func matchCase(matched, replacement string) string {
	first, _ := utf8.DecodeRuneInString(matched)
	if !unicode.IsUpper(first) {
		return replacement
	}
	r, size := utf8.DecodeRuneInString(replacement)
	return string(unicode.ToUpper(r)) + replacement[size:]
}

func addFormalOpening(text string) string {
	first := leadingWordRegex.FindString(text)
	if first == "" {
		return text
	}
	key := strings.ToLower(first)
	rest := lowerLeadingWord(first) + text[len(first):]

	switch {
	case requestVerbs[key]:
		return "I " + rest
	case imperativeVerbs[key]:
		return "I kindly request you to " + rest
	case reportedNouns[key]:
		return "I would like to report that " + rest
	default:
		return text
	}
}

// lowerLeadingWord lower-cases a word written as "Wifi" but keeps "WiFi" and "AC".
func lowerLeadingWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	for _, other := range w[size:] {
		if unicode.IsUpper(other) {
			return w
		}
	}
	return string(unicode.ToLower(r)) + w[size:]
}
