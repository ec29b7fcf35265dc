package engine

import "errors"

var (
	ErrNotFound           = errors.New("agent_not_found")
	ErrTransitionRejected = errors.New("transition_rejected")
	ErrUnavailable        = errors.New("engine_unavailable")
)

// RemoteError carries the engine's own message alongside the sentinel it
// maps to, so callers can both branch with errors.Is and surface the
// backend-provided reason.
type RemoteError struct {
	Status  int
	Message string
	kind    error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.kind.Error() + ": " + e.Message
	}
	return e.kind.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.kind
}

// Message extracts the engine-supplied message from err, if any.
func Message(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}
