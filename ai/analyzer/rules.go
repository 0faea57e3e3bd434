// Package analyzer provides the rule-based complaint analyzer used when no
// remote model produces an acceptable answer. It has no external dependencies
// and never fails.
package analyzer

import (
	"regexp"
	"strings"

	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

type categoryRule struct {
	category taxonomy.Category
	pattern  *regexp.Regexp
}

type priorityRule struct {
	priority taxonomy.Priority
	pattern  *regexp.Regexp
}

// wordSet compiles keyword fragments into one case-insensitive, word-bounded pattern.
// Fragments are regular expressions, so inflections can be written as `harass\w*`.
func wordSet(fragments ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(fragments, "|") + `)\b`)
}

// categoryRules are evaluated in order and the first match wins. A text that
// mentions both a mentor and the wifi is a mentor complaint.
// TODO: the order mentor, admin, academic-counsellor, working-hub, peer is kept
// as shipped; revisit with product whether hub issues should outrank mentor ones.
var categoryRules = []categoryRule{
	{taxonomy.CategoryMentor, wordSet(
		`mentors?`, `teach\w*`, `teachers?`, `class(es)?`, `lectures?`, `sessions?`,
		`doubts?`, `explain\w*`, `instructors?`, `trainers?`, `syllabus`, `assignments?`,
	)},
	{taxonomy.CategoryAdmin, wordSet(
		`admin\w*`, `fees?`, `payments?`, `refunds?`, `certificates?`, `documents?`,
		`id card`, `office`, `registration`, `admissions?`, `invoices?`, `receipts?`,
	)},
	{taxonomy.CategoryAcademicCounsellor, wordSet(
		`counsel\w*`, `career`, `guidance`, `academic\w*`, `course selection`,
		`stress\w*`, `placements?`, `motivation`, `study plan`,
	)},
	{taxonomy.CategoryWorkingHub, wordSet(
		`wi-?fi`, `internet`, `hubs?`, `workspace`, `desks?`, `chairs?`,
		`air ?condition\w*`, `ac`, `electricity`, `power`, `facilit(y|ies)`, `labs?`,
		`network`, `projectors?`, `washrooms?`, `water`,
	)},
	{taxonomy.CategoryPeer, wordSet(
		`peers?`, `classmates?`, `batchmates?`, `roommates?`, `students?`,
		`bull(y|ying|ied)`, `friends?`, `teammates?`, `group members?`,
	)},
}

// priorityRules are evaluated in order, independently of the category.
var priorityRules = []priorityRule{
	{taxonomy.PriorityUrgent, wordSet(
		`emergenc(y|ies)`, `harass\w*`, `urgent\w*`, `immediately`, `asap`,
		`danger\w*`, `unsafe`, `threat\w*`, `assault\w*`, `injur\w*`, `abuse\w*`,
		`violen\w*`, `medical`,
	)},
	{taxonomy.PriorityHigh, wordSet(
		`important`, `serious\w*`, `not working`, `broken`, `fail\w*`, `cannot`,
		`can'?t`, `deadlines?`, `exams?`, `severe\w*`, `critical`, `blocked`,
	)},
	{taxonomy.PriorityLow, wordSet(
		`minor`, `suggest\w*`, `when possible`, `small`, `no rush`, `feedback`,
		`cosmetic`, `whenever`, `someday`,
	)},
}
