// Package llm is the remote inference gateway. It runs one chat completion
// against a named model and reduces whatever the provider returns to a
// uniform Result.
package llm

import (
	"fmt"
	"strings"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// SystemPrompt creates a system message.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// ModelRef names one remote model: the provider that serves it and the
// provider-specific model identifier.
type ModelRef struct {
	Provider string
	Name     string
}

// ParseModelRef parses "provider:model". Only the first colon separates the
// two parts, so identifiers such as "meta-llama/llama-3.3-70b-instruct:free"
// are kept intact.
func ParseModelRef(s string) (ModelRef, error) {
	provider, name, ok := strings.Cut(strings.TrimSpace(s), ":")
	provider = strings.ToLower(strings.TrimSpace(provider))
	name = strings.TrimSpace(name)
	if !ok || provider == "" || name == "" {
		return ModelRef{}, fmt.Errorf("invalid model reference %q: want provider:model", s)
	}
	return ModelRef{Provider: provider, Name: name}, nil
}

// ParseModelRefs parses a list of references, failing on the first bad one.
func ParseModelRefs(refs []string) ([]ModelRef, error) {
	out := make([]ModelRef, 0, len(refs))
	for _, r := range refs {
		if strings.TrimSpace(r) == "" {
			continue
		}
		m, err := ParseModelRef(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (m ModelRef) String() string {
	return m.Provider + ":" + m.Name
}
