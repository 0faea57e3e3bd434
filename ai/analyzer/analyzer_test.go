package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

func TestClassifyMetadata_Categories(t *testing.T) {
	testCases := []struct {
		name        string
		title       string
		description string
		expected    taxonomy.Category
	}{
		{"mentor", "Mentor never explains", "the mentor skips topics", taxonomy.CategoryMentor},
		{"admin", "Refund pending", "my fee refund is still not processed", taxonomy.CategoryAdmin},
		{"counsellor", "Need guidance", "I want career guidance for next year", taxonomy.CategoryAcademicCounsellor},
		{"working hub", "WiFi down", "the internet at the hub is down all day", taxonomy.CategoryWorkingHub},
		{"peer", "Classmate issue", "a classmate keeps taking my charger", taxonomy.CategoryPeer},
		{"other", "Parking", "no parking space near the gate", taxonomy.CategoryOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyMetadata(tc.title, tc.description)
			assert.Equal(t, tc.expected, got.Category)
		})
	}
}

func TestClassifyMetadata_MentorBeatsWorkingHub(t *testing.T) {
	got := ClassifyMetadata("Mentor and wifi", "my mentor session dropped because the wifi failed")
	assert.Equal(t, taxonomy.CategoryMentor, got.Category)
}

func TestClassifyMetadata_DeclaredOrderDecidesWifiDuringClass(t *testing.T) {
	// "class" is a mentor keyword and mentor is checked before working-hub.
	got := ClassifyMetadata("WiFi keeps disconnecting", "wifi drops every 15 min during class")
	assert.Equal(t, taxonomy.Classification{
		Category: taxonomy.CategoryMentor,
		Priority: taxonomy.PriorityMedium,
	}, got)
}

func TestClassifyMetadata_WordBoundaries(t *testing.T) {
	// "classmate" must not trigger the mentor keyword "class".
	got := ClassifyMetadata("Classmate", "my classmate is noisy")
	assert.Equal(t, taxonomy.CategoryPeer, got.Category)
}

func TestClassifyMetadata_Priorities(t *testing.T) {
	testCases := []struct {
		text     string
		expected taxonomy.Priority
	}{
		{"there is an emergency in the lab", taxonomy.PriorityUrgent},
		{"I am facing harassment from a batchmate", taxonomy.PriorityUrgent},
		{"being harassed every day", taxonomy.PriorityUrgent},
		{"projector is broken before the exam", taxonomy.PriorityHigh},
		{"minor suggestion about chair colour", taxonomy.PriorityLow},
		{"the fan makes noise", taxonomy.PriorityMedium},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyMetadata("", tc.text).Priority)
		})
	}
}

func TestClassifyMetadata_UrgentRegardlessOfCategory(t *testing.T) {
	inputs := [][2]string{
		{"Mentor", "emergency during the mentor session"},
		{"Fees", "harassment at the fee counter, minor delay too"},
		{"Something", "emergency"},
		{"Hub", "wifi issue, harassment by staff, broken chair"},
	}
	for _, in := range inputs {
		got := ClassifyMetadata(in[0], in[1])
		assert.Equal(t, taxonomy.PriorityUrgent, got.Priority, in)
		assert.True(t, got.Valid(), in)
	}
}

func TestClassifyMetadata_AlwaysClosedSet(t *testing.T) {
	inputs := []string{"", "   ", "???", "ünïcödé text", "URGENT-ISSUE", "category: urgent-issue"}
	for _, in := range inputs {
		got := ClassifyMetadata(in, in)
		assert.True(t, got.Valid(), in)
	}
}

func TestEnhanceDescription_Steps(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "capitalization and terminal punctuation",
			input:    "the projector flickers. it hurts my eyes",
			expected: "The projector flickers. It hurts my eyes.",
		},
		{
			name:     "spacing after punctuation",
			input:    "Tables are old,chairs too.Please check",
			expected: "Tables are old, chairs too. Please check.",
		},
		{
			name:     "collapse whitespace",
			input:    "The   room   is\n\ncold",
			expected: "The room is cold.",
		},
		{
			name:     "contractions and informal tokens",
			input:    "I don't know why u r late, i can't wait",
			expected: "I do not know why you are late, I cannot wait.",
		},
		{
			name:     "tone",
			input:    "The food is bad and the tap is broken",
			expected: "The food is unsatisfactory and the tap is damaged.",
		},
		{
			name:     "noun opening",
			input:    "wifi is broken again",
			expected: "I would like to report that wifi is damaged again.",
		},
		{
			name:     "request verb opening",
			input:    "need a new id card",
			expected: "I need a new id card.",
		},
		{
			name:     "imperative opening",
			input:    "fix the fan in room 4",
			expected: "I kindly request you to fix the fan in room 4.",
		},
		{
			name:     "keeps mixed case first word",
			input:    "WiFi drops often",
			expected: "I would like to report that WiFi drops often.",
		},
		{
			name:     "capitalized substitution",
			input:    "Don't ignore this!",
			expected: "Do not ignore this!",
		},
		{
			name:     "contractions typed without apostrophes",
			input:    "im locked out and i cant log in, it doesnt work",
			expected: "I am locked out and I cannot log in, it does not work.",
		},
		{
			name:     "real words that look like contractions",
			input:    "its screen is ill fitted and were told to wait",
			expected: "Its screen is ill fitted and were told to wait.",
		},
		{
			name:     "single letters inside abbreviations",
			input:    "u.s. students cant log in",
			expected: "U.s. Students cannot log in.",
		},
		{
			name:     "single letter labels before numbers",
			input:    "my rank is r 5 and u 2 is the route",
			expected: "My rank is r 5 and u 2 is the route.",
		},
		{
			name:     "hyphenated letters",
			input:    "the bus took a u-turn",
			expected: "The bus took a u-turn.",
		},
		{
			name:     "leaves urls alone",
			input:    "see example.com for details",
			expected: "See example.com for details.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EnhanceDescription(tc.input))
		})
	}
}

func TestEnhanceDescription_ShortInputUnchanged(t *testing.T) {
	for _, in := range []string{"", "  ", "ok", "hey!", " abc "} {
		assert.Equal(t, in, EnhanceDescription(in))
	}
}

func TestEnhanceDescription_FixedPoint(t *testing.T) {
	inputs := []string{
		"wifi drops every 15 min during class",
		"the mentor is rude.he doesn't explain anything,we r lost",
		"hello!!World   how are u",
		"e.g. the lab is dirty; chairs are broken:fix pls",
		"need refund asap   ",
		"fix the AC. it's terrible",
		"i.e. the hostel food sucks",
		"ok.u there? idk what to do",
		"\"quoted start\" and more text here",
		"ünïcödé täxt. ändere sätze",
		"u.s. students cant log in",
		"my rank is r 5",
		"dont know why ur app wont load",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := EnhanceDescription(in)
			twice := EnhanceDescription(once)
			assert.Equal(t, once, twice)
		})
	}
}
