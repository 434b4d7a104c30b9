package shutdown

import "sync"

// SignalCounter implements "first signal is graceful, a later one forces".
//
// Usage:
//
//	counter := NewSignalCounter(2, func() { os.Exit(1) })
//	for range sigChan {
//	    if counter.Increment() == 1 {
//	        cancel() // graceful shutdown
//	    }
//	}
type SignalCounter struct {
	mu         sync.Mutex
	count      int
	forceAfter int
	onForce    func()
}

// NewSignalCounter creates a SignalCounter that calls onForce (may be nil)
// once the count reaches forceAfter, and on every signal after that.
func NewSignalCounter(forceAfter int, onForce func()) *SignalCounter {
	return &SignalCounter{
		forceAfter: forceAfter,
		onForce:    onForce,
	}
}

// Increment records one signal and returns the new count. The force callback
// runs while the lock is held, so it should exit the process or return fast.
func (s *SignalCounter) Increment() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if s.count >= s.forceAfter && s.onForce != nil {
		s.onForce()
	}
	return s.count
}

// Count returns the current signal count.
func (s *SignalCounter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
