package events

import "errors"

// ErrClosed is returned by Publish/Subscribe once the bus has been
// closed.
var ErrClosed = errors.New("events: bus closed")
