package analyzer

import (
	"strings"

	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

// ClassifyMetadata derives a category and a priority from keywords in the
// title and description. Category and priority are decided independently.
func ClassifyMetadata(title, description string) taxonomy.Classification {
	text := strings.ToLower(title + " " + description)
	return taxonomy.Classification{
		Category: classifyCategory(text),
		Priority: classifyPriority(text),
	}
}

func classifyCategory(text string) taxonomy.Category {
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	return taxonomy.CategoryOther
}

func classifyPriority(text string) taxonomy.Priority {
	for _, rule := range priorityRules {
		if rule.pattern.MatchString(text) {
			return rule.priority
		}
	}
	return taxonomy.PriorityMedium
}
