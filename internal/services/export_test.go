package services

import "context"

// SetSnapshot replaces how s exports its engine and returns a func that puts
// the engine export back.
func SetSnapshot(s *SaleSession, fn func(context.Context) ([]byte, error)) (restore func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.snapshot = s.engine.Export
	}
}
