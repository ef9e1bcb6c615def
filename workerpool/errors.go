package workerpool

import "errors"

// ErrDisposed is returned by Execute once Dispose has been called, and used
// to reject any work still queued at Dispose time.
var ErrDisposed = errors.New("workerpool: disposed")
