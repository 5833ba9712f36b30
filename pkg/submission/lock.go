package submission

import "sync"

// Interactive is implemented by views whose controls can be disabled.
type Interactive interface {
	SetInteractive(enabled bool)
}

// Lock guards the "controls disabled" period of a submission. At most one
// holder exists at a time.
type Lock struct {
	mu   sync.Mutex
	held bool
}

// TryAcquire disables the view's controls and returns the release function.
// It returns ok=false, leaving the view untouched, when the lock is held.
// The release function re-enables the controls; calling it more than once is
// a no-op.
func (l *Lock) TryAcquire(view Interactive) (release func(), ok bool) {
	l.mu.Lock()
	if l.held {
		l.mu.Unlock()
		return func() {}, false
	}
	l.held = true
	l.mu.Unlock()

	view.SetInteractive(false)

	var once sync.Once
	return func() {
		once.Do(func() {
			view.SetInteractive(true)
			l.mu.Lock()
			l.held = false
			l.mu.Unlock()
		})
	}, true
}

// Held reports whether a submission currently holds the lock.
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}
