package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/hrygo/complaintdesk/ai/core/llm"
	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

const metadataSystemPrompt = `You classify student complaints for a university complaint desk.

Categories:
- mentor: issues with a mentor, teacher, faculty member, lectures or classes
- admin: administration, fees, documents, ID cards, certificates, hostel office
- academic-counsellor: counselling, stress, career guidance, course or subject choice
- working-hub: facilities such as wifi, computers, labs, furniture, electricity, water, cleanliness
- peer: problems with classmates, roommates, bullying, group work
- other: anything else

Priorities:
- urgent: safety, harassment, emergencies, threats, medical problems
- high: blocks studies or exams, repeated or long-standing problems
- medium: normal inconvenience
- low: suggestions, minor cosmetic issues

Respond with only a JSON object and nothing else:
{"category": "<one category>", "priority": "<one priority>"}`

const metadataUserTemplate = `Title: {{.Title}}
Description: {{.Description}}`

const descriptionSystemPrompt = `You rewrite student complaint descriptions so the right staff member can act on them.
Keep every fact the student gave and do not invent new ones.
Use a polite, formal, first-person tone with complete sentences.
Make the text two to three times longer by adding clear context about the impact of the problem.
Return only the rewritten description, without a title, labels or quotation marks.`

const descriptionUserTemplate = `Complaint title: {{.Title}}
Original description: {{.Description}}`

const draftSystemPrompt = `You help complaint desk staff write replies to students.
Write a professional, empathetic reply of two or three short paragraphs.
Acknowledge the complaint, say what will be done next, and avoid promising specific dates.
The reply MUST start with exactly this line:
{{.Greeting}}
and MUST end with exactly these lines:
{{.Signature}}
Return only the reply text.`

const enhanceSystemPrompt = `You help complaint desk staff improve replies to students.
Elaborate the staff member's draft into a reply two to three times longer.
Keep the draft's intent, decisions and facts; do not contradict or drop anything it says.
Use a professional, empathetic tone.
The reply MUST start with exactly this line:
{{.Greeting}}
and MUST end with exactly these lines:
{{.Signature}}
Return only the reply text.`

const complaintUserTemplate = `Complaint title: {{.Complaint.Title}}
Complaint description: {{.Complaint.Description}}
{{- with .Complaint.Category}}
Category: {{.}}{{end}}
{{- with .Complaint.Priority}}
Priority: {{.}}{{end}}
{{- with .Complaint.Status}}
Current status: {{.}}{{end}}
{{- with .Draft}}

Current draft:
{{.}}{{end}}`

const quickQuestionsSystemPrompt = `You suggest questions a {{.Role}} user might ask the help assistant of a complaint management portal.
Only ask about these features:
{{.FeatureList}}

Every question must use at least one of these words: {{.Keywords}}.
Write exactly 4 questions, one per line, without numbering.
Each question must be between 10 and 100 characters and end with a question mark.`

const quickQuestionsUserPrompt = "Suggest 4 quick questions."

var (
	metadataUserTmpl      = template.Must(template.New("metadata").Parse(metadataUserTemplate))
	descriptionUserTmpl   = template.Must(template.New("description").Parse(descriptionUserTemplate))
	draftSystemTmpl       = template.Must(template.New("draft").Parse(draftSystemPrompt))
	enhanceSystemTmpl     = template.Must(template.New("enhance").Parse(enhanceSystemPrompt))
	complaintUserTmpl     = template.Must(template.New("complaint").Parse(complaintUserTemplate))
	quickQuestionsSysTmpl = template.Must(template.New("questions").Parse(quickQuestionsSystemPrompt))
)

type complaintTextData struct {
	Title       string
	Description string
}

type framingData struct {
	Greeting  string
	Signature string
}

type complaintData struct {
	Complaint ComplaintContext
	Draft     string
}

type quickQuestionsData struct {
	Role        taxonomy.Role
	FeatureList string
	Keywords    string
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func metadataMessages(title, description string) ([]llm.Message, error) {
	user, err := render(metadataUserTmpl, complaintTextData{Title: title, Description: description})
	if err != nil {
		return nil, err
	}
	return []llm.Message{llm.SystemPrompt(metadataSystemPrompt), llm.UserMessage(user)}, nil
}

func descriptionMessages(title, description string) ([]llm.Message, error) {
	user, err := render(descriptionUserTmpl, complaintTextData{Title: title, Description: description})
	if err != nil {
		return nil, err
	}
	return []llm.Message{llm.SystemPrompt(descriptionSystemPrompt), llm.UserMessage(user)}, nil
}

// responseMessages builds the draft prompt, or the enhance prompt when draft
// is non-empty.
func responseMessages(cc ComplaintContext, frame framingData, draft string) ([]llm.Message, error) {
	sysTmpl := draftSystemTmpl
	if draft != "" {
		sysTmpl = enhanceSystemTmpl
	}
	system, err := render(sysTmpl, frame)
	if err != nil {
		return nil, err
	}
	user, err := render(complaintUserTmpl, complaintData{Complaint: cc, Draft: draft})
	if err != nil {
		return nil, err
	}
	return []llm.Message{llm.SystemPrompt(system), llm.UserMessage(user)}, nil
}

func quickQuestionsMessages(vocab taxonomy.Vocabulary) ([]llm.Message, error) {
	system, err := render(quickQuestionsSysTmpl, quickQuestionsData{
		Role:        vocab.Role,
		FeatureList: vocab.FeatureList,
		Keywords:    strings.Join(vocab.AllowedKeywords, ", "),
	})
	if err != nil {
		return nil, err
	}
	return []llm.Message{llm.SystemPrompt(system), llm.UserMessage(quickQuestionsUserPrompt)}, nil
}
