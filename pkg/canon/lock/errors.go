package lock

import "errors"

// ErrWrongLock is returned when a token popped off a Queue does not
// belong to the lock name that popped it. A Queue must never be shared
// between two differently-named locks; seeing this means it was.
var ErrWrongLock = errors.New("lock: token belongs to a different named lock")
