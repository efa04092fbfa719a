package memory

import (
	"strconv"
	"sync"
)

// failures lets tests make a repository behave like an unreachable backend.
type failures struct {
	mu  sync.RWMutex
	err error
}

// SetFailure makes every following call return err. nil clears it.
func (f *failures) SetFailure(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *failures) failure() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// sequence hands out serial ids the way the backend's identity columns do.
type sequence struct {
	next int64
}

func (s *sequence) bump(seen string) {
	if n, err := strconv.ParseInt(seen, 10, 64); err == nil && n >= s.next {
		s.next = n
	}
}

func (s *sequence) nextID() string {
	s.next++
	return strconv.FormatInt(s.next, 10)
}
