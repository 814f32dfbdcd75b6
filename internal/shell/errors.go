package shell

import "errors"

// Shell errors.
var (
	// ErrNilAction indicates a registered command has no action bound.
	ErrNilAction = errors.New("shell: command has no action")
)
