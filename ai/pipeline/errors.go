package pipeline

import "errors"

// Errors that cross the Service boundary. Everything else is recovered
// internally by falling back to the local analyzer or defaults.
var (
	// ErrInputTooShort is returned before any remote call when a description
	// is shorter than MinDescriptionInput runes.
	ErrInputTooShort = errors.New("description too short to enhance")
	// ErrMissingTitle is returned before any remote call when a title is blank.
	ErrMissingTitle = errors.New("title is required")
	// ErrEmptyDraft is returned before any remote call when the draft to
	// enhance is blank.
	ErrEmptyDraft = errors.New("draft is empty")
	// ErrEnhancementUnavailable means no model produced an acceptable
	// enhancement. The caller must keep the existing draft unchanged.
	ErrEnhancementUnavailable = errors.New("response enhancement unavailable")
)
