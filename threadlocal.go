package hollowmere

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// goroutineID extracts the calling goroutine's numeric id from the
// standard "goroutine NNN [running]:" header line that runtime.Stack
// always writes first. This is the narrow, mechanical, stdlib-only
// technique named in SPEC_FULL.md §4.4 for emulating thread-local
// storage: Go deliberately has none, and no dependency in the example
// pack provides one, so the core falls back to parsing this one
// documented-stable line rather than inventing a bespoke identity
// scheme. Used only to key the current-session binding below.
func goroutineID() int64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	i := bytes.IndexByte(buf, ' ')
	if i < 0 {
		return 0
	}
	id, _ := strconv.ParseInt(string(buf[:i]), 10, 64)
	return id
}

var currentSessions sync.Map // goroutineID (int64) -> *Session

// SetSession binds s as the current session for the calling goroutine.
// It returns ErrSessionReentry if a session is already bound — per
// spec.md §5, "no session, or exactly one session" per goroutine.
// Callers should always pair this with a deferred ClearSession.
func SetSession(s *Session) error {
	id := goroutineID()
	if _, loaded := currentSessions.LoadOrStore(id, s); loaded {
		return ErrSessionReentry
	}
	return nil
}

// ClearSession unbinds whatever session is currently bound to the
// calling goroutine. It is safe to call even if nothing is bound.
func ClearSession() {
	currentSessions.Delete(goroutineID())
}

// CurrentSession returns the session bound to the calling goroutine, or
// ErrNoSession if none is bound. Domain.OpenSession does not bind the
// session it returns, and no kernel code calls SetSession, so a session
// is found here only after a caller has bound it with SetSession.
func CurrentSession() (*Session, error) {
	v, ok := currentSessions.Load(goroutineID())
	if !ok {
		return nil, ErrNoSession
	}
	return v.(*Session), nil
}
