package taxonomy

import "strings"

// Role is the kind of user a quick question is generated for.
type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleAdmin, RoleSuperAdmin:
		return r, true
	default:
		return "", false
	}
}

// Vocabulary lists what generated quick questions may talk about for one role.
type Vocabulary struct {
	Role            Role
	AllowedKeywords []string
	FeatureList     string
}

// Matches reports whether line mentions at least one allowed keyword,
// compared case-insensitively as a substring.
func (v Vocabulary) Matches(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range v.AllowedKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Read-only after init.
var vocabularies = map[Role]Vocabulary{
	RoleStudent: {
		Role: RoleStudent,
		AllowedKeywords: []string{
			"complaint", "submit", "status", "track", "category", "priority",
			"attachment", "upload", "profile", "notification", "mentor", "counsellor",
			"hub", "peer", "edit", "delete", "view", "history", "ai", "enhance",
			"description", "response", "resolved", "admin",
		},
		FeatureList: `- Submit a complaint with title, description, category and priority
- Use AI to enhance a complaint description before submitting
- Upload attachments (images, documents) to a complaint
- Track complaint status: pending, in-progress, resolved, closed
- View admin responses on a complaint
- Edit or delete a complaint while it is still pending
- Update profile details
- Receive notifications when a complaint status changes`,
	},
	RoleAdmin: {
		Role: RoleAdmin,
		AllowedKeywords: []string{
			"generate", "enhance", "ai", "undo", "status", "profile", "view",
			"respond", "reply", "modal", "student", "notification", "filter",
			"attachment", "download", "review", "progress", "resolved", "closed",
		},
		FeatureList: `- View complaints assigned to your category in a modal
- Generate an AI draft reply to a complaint
- Enhance an existing reply with AI, and undo the enhancement
- Respond to a student and update complaint status (in-progress, resolved, closed)
- Filter complaints by status, priority or category
- Review and download student attachments
- Update your profile
- Receive notifications for new complaints`,
	},
	RoleSuperAdmin: {
		Role: RoleSuperAdmin,
		AllowedKeywords: []string{
			"admin", "assign", "manage", "staff", "role", "user", "dashboard",
			"analytics", "report", "category", "statistics", "overview", "complaint",
			"student", "status", "filter", "resolved", "closed", "location",
		},
		FeatureList: `- Dashboard overview with complaint statistics and analytics
- Manage admin accounts and assign roles
- Assign complaint categories to admins
- Manage locations and working hubs
- Filter all complaints by status, category or location
- Review resolved and closed complaints across all categories`,
	},
}

// VocabularyFor returns the vocabulary of role. Unknown roles get the student vocabulary.
func VocabularyFor(role Role) Vocabulary {
	if v, ok := vocabularies[role]; ok {
		return v
	}
	return vocabularies[RoleStudent]
}

var defaultQuestions = map[Role][]string{
	RoleStudent: {
		"How do I track the status of my complaint?",
		"Can I add an attachment to my complaint?",
		"How does AI enhance my complaint description?",
		"Where can I view the admin response?",
	},
	RoleAdmin: {
		"How do I generate an AI reply for a complaint?",
		"Can I undo an AI enhancement of my reply?",
		"How do I filter complaints by status?",
		"How do I download a student attachment?",
	},
	RoleSuperAdmin: {
		"How do I assign complaint categories to an admin?",
		"Where can I see complaint analytics on the dashboard?",
		"How do I manage admin user roles?",
		"How can I filter resolved and closed complaints?",
	},
}

// DefaultQuickQuestions returns the hand-authored questions for role.
// The result is a fresh slice the caller may modify.
func DefaultQuickQuestions(role Role) []string {
	qs, ok := defaultQuestions[role]
	if !ok {
		qs = defaultQuestions[RoleStudent]
	}
	out := make([]string, len(qs))
	copy(out, qs)
	return out
}
