package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"email", "Reach me at asha.rao@campus.edu today", "Reach me at [email] today"},
		{"phone", "Call +91 98765 43210 after class", "Call [phone] after class"},
		{"card", "Charged twice on 4111 1111 1111 1111", "Charged twice on [card]"},
		{"ip", "Lab router 10.0.12.1 is down", "Lab router [ip] is down"},
		{"short number kept", "Room 204 since 2024-10-17", "Room 204 since 2024-10-17"},
		{"plain text", "The wifi in the hub is slow", "The wifi in the hub is slow"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Redact(tt.input))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", Preview("anything", 0))
	assert.Equal(t, "a b c", Preview("a\n\n b\t c", 10))
	assert.Equal(t, "mail [email]", Preview("mail x@y.io", 20))
	assert.Equal(t, "课程太...", Preview("课程太难了", 3))
}
