package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProcess reports that no listening process was found for a service.
	ErrNoProcess = errors.New("could not find process")
	// ErrStillRunning reports that a process survived a forceful kill.
	ErrStillRunning = errors.New("process still running after kill")
)

// SpawnError is returned for a service that could not be started. Other
// services of the same batch are unaffected.
type SpawnError struct {
	Service string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Service, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
