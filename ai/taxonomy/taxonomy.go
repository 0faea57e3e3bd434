// Package taxonomy defines the closed vocabularies shared by the complaint AI pipeline.
package taxonomy

import "strings"

// Category routes a complaint to the team that owns it.
type Category string

const (
	CategoryMentor             Category = "mentor"
	CategoryAdmin              Category = "admin"
	CategoryAcademicCounsellor Category = "academic-counsellor"
	CategoryWorkingHub         Category = "working-hub"
	CategoryPeer               Category = "peer"
	CategoryOther              Category = "other"
)

var categories = []Category{
	CategoryMentor,
	CategoryAdmin,
	CategoryAcademicCounsellor,
	CategoryWorkingHub,
	CategoryPeer,
	CategoryOther,
}

// Categories returns every valid category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory reports whether s names a category. Case and surrounding
// whitespace are ignored; nothing else is coerced.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Priority is the urgency label of a complaint.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Priorities returns every valid priority from least to most urgent.
func Priorities() []Priority {
	out := make([]Priority, len(priorities))
	copy(out, priorities)
	return out
}

// ParsePriority reports whether s names a priority, with the same rules as ParseCategory.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range priorities {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Classification is the metadata inferred for one complaint.
type Classification struct {
	Category Category `json:"category"`
	Priority Priority `json:"priority"`
}

// Valid reports whether both fields are exact members of their closed sets.
func (c Classification) Valid() bool {
	category, okCategory := ParseCategory(string(c.Category))
	priority, okPriority := ParsePriority(string(c.Priority))
	return okCategory && okPriority && category == c.Category && priority == c.Priority
}
