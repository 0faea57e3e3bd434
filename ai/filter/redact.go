// Package filter masks contact details and similar personal data in
// complaint text before it is written to logs.
package filter

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// FilterType is a kind of sensitive data.
type FilterType int

const (
	Email FilterType = iota
	BankCard
	Phone
	IP
)

var labels = map[FilterType]string{
	Email:    "[email]",
	BankCard: "[card]",
	Phone:    "[phone]",
	IP:       "[ip]",
}

var (
	emailPattern = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	})

	// 13 to 19 digits, optionally grouped by single spaces or dashes.
	bankCardPattern = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`)
	})

	// Loose on purpose; candidates with fewer than minPhoneDigits digits are kept.
	phonePattern = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`\+?\(?\d[\d\s().-]{6,}\d`)
	})

	ipv4Pattern = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|1?\d\d?)\.){3}(?:25[0-5]|2[0-4]\d|1?\d\d?)\b`)
	})
)

const minPhoneDigits = 9

// Order matters: IPs before phones, cards before phones.
var order = []FilterType{Email, IP, BankCard, Phone}

// Redact replaces every email, IPv4 address, card number and phone number
// in text with a bracketed label such as "[email]".
func Redact(text string) string {
	if text == "" {
		return ""
	}
	for _, ft := range order {
		text = redactType(text, ft)
	}
	return text
}

func redactType(text string, ft FilterType) string {
	switch ft {
	case Email:
		return emailPattern().ReplaceAllString(text, labels[Email])
	case IP:
		return ipv4Pattern().ReplaceAllString(text, labels[IP])
	case BankCard:
		return bankCardPattern().ReplaceAllString(text, labels[BankCard])
	case Phone:
		return phonePattern().ReplaceAllStringFunc(text, func(m string) string {
			if countDigits(m) < minPhoneDigits {
				return m
			}
			return labels[Phone]
		})
	default:
		return text
	}
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Preview redacts text, collapses whitespace and cuts it to at most maxRunes
// runes, appending "..." when cut. It returns "" when maxRunes <= 0.
func Preview(text string, maxRunes int) string {
	if text == "" || maxRunes <= 0 {
		return ""
	}
	s := strings.Join(strings.Fields(Redact(text)), " ")
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
