package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

func TestStripWrapping(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "  hello world ", "hello world"},
		{"double quotes", `"hello world"`, "hello world"},
		{"nested quotes", `"'hello world'"`, "hello world"},
		{"curly quotes", "“hello world”", "hello world"},
		{"code fence", "```\nhello world\n```", "hello world"},
		{"json code fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"unbalanced quote kept", `"hello world`, `"hello world`},
		{"inner quotes kept", `say "hi" now`, `say "hi" now`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripWrapping(tc.input))
		})
	}
}

func TestStripBoilerplate(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"Enhanced: The lab is closed.", "The lab is closed."},
		{"enhanced description: The lab is closed.", "The lab is closed."},
		{"Here is the enhanced description: The lab is closed.", "The lab is closed."},
		{"Rewritten - The lab is closed.", "The lab is closed."},
		{"Improved: The lab is closed.", "The lab is closed."},
		{"Response time at the desk is slow.", "Response time at the desk is slow."},
		{"The lab is closed.", "The lab is closed."},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, StripBoilerplate(tc.input))
		})
	}
}

func TestMetadata(t *testing.T) {
	t.Run("accepts plain json", func(t *testing.T) {
		out := Metadata(`{"category":"peer","priority":"low"}`)
		require.True(t, out.Accepted, out.Reason)
		assert.Equal(t, taxonomy.Classification{Category: taxonomy.CategoryPeer, Priority: taxonomy.PriorityLow}, out.Value)
	})

	t.Run("accepts json embedded in chatter", func(t *testing.T) {
		raw := "Sure! Here it is:\n```json\n{\"category\": \"Mentor\", \"priority\": \"HIGH\"}\n```\nLet me know."
		out := Metadata(raw)
		require.True(t, out.Accepted, out.Reason)
		assert.Equal(t, taxonomy.CategoryMentor, out.Value.Category)
		assert.Equal(t, taxonomy.PriorityHigh, out.Value.Priority)
		assert.True(t, out.Value.Valid())
	})

	t.Run("ignores braces in trailing prose", func(t *testing.T) {
		raw := `{"category":"working-hub","priority":"medium"} Note: I ignored the {attachment} field.`
		out := Metadata(raw)
		require.True(t, out.Accepted, out.Reason)
		assert.Equal(t, taxonomy.Classification{Category: taxonomy.CategoryWorkingHub, Priority: taxonomy.PriorityMedium}, out.Value)
	})

	t.Run("skips braces in leading prose", func(t *testing.T) {
		raw := "Using the {category, priority} format:\n{\"category\":\"admin\",\"priority\":\"low\"}"
		out := Metadata(raw)
		require.True(t, out.Accepted, out.Reason)
		assert.Equal(t, taxonomy.CategoryAdmin, out.Value.Category)
	})

	t.Run("first of two objects wins", func(t *testing.T) {
		out := Metadata(`{"category":"peer","priority":"low"} {"category":"admin","priority":"high"}`)
		require.True(t, out.Accepted, out.Reason)
		assert.Equal(t, taxonomy.CategoryPeer, out.Value.Category)
	})

	rejected := []struct {
		name string
		raw  string
	}{
		{"out of vocabulary category", `{"category":"urgent-issue","priority":"high"}`},
		{"out of vocabulary priority", `{"category":"admin","priority":"critical"}`},
		{"missing priority", `{"category":"admin"}`},
		{"no object", "category: admin, priority: high"},
		{"broken json", `{"category": "admin", "priority": }`},
		{"synonym not coerced", `{"category":"counsellor","priority":"low"}`},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			out := Metadata(tc.raw)
			assert.False(t, out.Accepted)
			assert.NotEmpty(t, out.Reason)
			assert.Equal(t, taxonomy.Classification{}, out.Value)
		})
	}
}

func TestDescription(t *testing.T) {
	t.Run("strips quotes", func(t *testing.T) {
		out := Description(`"The classroom projector has not worked for two weeks."`)
		require.True(t, out.Accepted)
		assert.Equal(t, "The classroom projector has not worked for two weeks.", out.Value)
	})

	t.Run("strips boilerplate before length check", func(t *testing.T) {
		out := Description("Enhanced description: The hostel water supply is irregular every morning.")
		require.True(t, out.Accepted)
		assert.Equal(t, "The hostel water supply is irregular every morning.", out.Value)

		out = Description("Enhanced: too short")
		assert.False(t, out.Accepted)
	})

	t.Run("length is exclusive", func(t *testing.T) {
		assert.False(t, Description(strings.Repeat("a", 20)).Accepted)
		assert.True(t, Description(strings.Repeat("a", 21)).Accepted)
	})

	t.Run("counts runes", func(t *testing.T) {
		assert.False(t, Description(strings.Repeat("é", 20)).Accepted)
	})
}

func TestResponse(t *testing.T) {
	out := Response("“Dear Asha, we are looking into it.”")
	require.True(t, out.Accepted)
	assert.Equal(t, "Dear Asha, we are looking into it.", out.Value)

	assert.False(t, Response("'Thanks.'").Accepted)
	assert.False(t, Response("0123456789").Accepted)
	assert.True(t, Response("0123456789a").Accepted)
	assert.False(t, Response("   ").Accepted)
}

func TestQuickQuestions_Admin(t *testing.T) {
	validate := QuickQuestions(taxonomy.RoleAdmin)

	t.Run("exactly four with numbering stripped", func(t *testing.T) {
		raw := "1. How do I generate an AI reply for a complaint?\n" +
			"2) How can I filter complaints by status?\n" +
			"- What does the notification bell show?\n" +
			"* How do I download a student attachment?"
		out := validate(raw)
		require.True(t, out.Accepted, out.Reason)
		assert.Equal(t, []string{
			"How do I generate an AI reply for a complaint?",
			"How can I filter complaints by status?",
			"What does the notification bell show?",
			"How do I download a student attachment?",
		}, out.Value)
	})

	t.Run("noise lines are filtered before counting", func(t *testing.T) {
		raw := "Here are four questions:\n" +
			"1. How do I generate an AI reply for a complaint?\n" +
			"2. What is the weather like today?\n" +
			"3. Generate a reply to the student.\n" +
			"4. AI?\n" +
			"5. How can I filter complaints by status?\n" +
			"6. What does the notification bell show?\n" +
			"7. How do I download a student attachment?\n"
		out := validate(raw)
		require.True(t, out.Accepted, out.Reason)
		assert.Len(t, out.Value, 4)
	})

	t.Run("three is a failure", func(t *testing.T) {
		raw := "1. How do I generate an AI reply for a complaint?\n" +
			"2. How can I filter complaints by status?\n" +
			"3. What does the notification bell show?"
		out := validate(raw)
		assert.False(t, out.Accepted)
		assert.Nil(t, out.Value)
	})

	t.Run("five is a failure", func(t *testing.T) {
		raw := "1. How do I generate an AI reply for a complaint?\n" +
			"2. How can I filter complaints by status?\n" +
			"3. What does the notification bell show?\n" +
			"4. How do I download a student attachment?\n" +
			"5. Can I undo an AI enhancement?"
		assert.False(t, validate(raw).Accepted)
	})

	t.Run("overlong line is dropped", func(t *testing.T) {
		long := "How do I " + strings.Repeat("really ", 15) + "filter complaints?"
		raw := strings.Join([]string{
			long,
			"How can I filter complaints by status?",
			"What does the notification bell show?",
			"How do I download a student attachment?",
		}, "\n")
		assert.False(t, validate(raw).Accepted)
	})
}

func TestQuickQuestions_UnknownRoleUsesStudentVocabulary(t *testing.T) {
	assert.Equal(t, taxonomy.VocabularyFor(taxonomy.RoleStudent), taxonomy.VocabularyFor(taxonomy.Role("guest")))

	raw := strings.Join(taxonomy.DefaultQuickQuestions(taxonomy.RoleStudent), "\n")
	out := QuickQuestions(taxonomy.Role("guest"))(raw)
	require.True(t, out.Accepted, out.Reason)
	assert.Equal(t, taxonomy.DefaultQuickQuestions(taxonomy.RoleStudent), out.Value)
}
