package memory

import "errors"

// ErrNotFound is returned when a conversation id does not exist.
var ErrNotFound = errors.New("memory: conversation not found")
