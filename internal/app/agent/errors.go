package agent

import "errors"

var (
	ErrNotFound      = errors.New("agent_not_found")
	ErrTogglePending = errors.New("toggle_pending")
)

// ValidationError blocks a settings save before any network call; each
// field failure names the field and a reason code.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "invalid_settings"
}
