package pipeline

import (
	"strings"

	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

// ComplaintContext is the complaint a reply is written for.
type ComplaintContext struct {
	Title       string
	Description string
	Category    taxonomy.Category
	Priority    taxonomy.Priority
	Status      string
}

// Student is the complaint's author.
type Student struct {
	Name string
}

// Staff is the person replying.
type Staff struct {
	Name string
	Role taxonomy.Role
}

const (
	genericGreeting  = "Dear Student,"
	genericSignature = "Best regards,\nComplaint Resolution Team"
)

// Greeting returns "Dear <first name>," or the generic greeting.
func Greeting(student *Student) string {
	if student == nil {
		return genericGreeting
	}
	fields := strings.Fields(student.Name)
	if len(fields) == 0 {
		return genericGreeting
	}
	return "Dear " + fields[0] + ","
}

// Signature returns the sign-off block for staff, or the team signature.
func Signature(staff *Staff) string {
	if staff == nil {
		return genericSignature
	}
	name := strings.Join(strings.Fields(staff.Name), " ")
	if name == "" {
		return genericSignature
	}
	if label := roleLabel(staff.Role); label != "" {
		return "Best regards,\n" + name + "\n" + label
	}
	return "Best regards,\n" + name
}

func roleLabel(role taxonomy.Role) string {
	switch role {
	case taxonomy.RoleAdmin:
		return "Administrator"
	case taxonomy.RoleSuperAdmin:
		return "Super Administrator"
	default:
		return ""
	}
}

// cannedDraft is the reply used when no model produced an acceptable draft.
func cannedDraft(cc ComplaintContext, greeting, signature string) string {
	title := strings.TrimSpace(cc.Title)
	subject := "your complaint"
	if title != "" {
		subject = `your complaint "` + title + `"`
	}
	return greeting + "\n\n" +
		"Thank you for bringing " + subject + " to our attention. " +
		"We have reviewed the details you shared and are looking into the matter. " +
		"We will keep you informed of our progress and get back to you as soon as possible.\n\n" +
		signature
}
