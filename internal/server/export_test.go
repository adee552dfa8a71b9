package server

import "time"

func (s *Server) SetNow(fn func() time.Time) {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()
	s.now = fn
}

func (s *Server) LimiterCount() int {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()
	return len(s.limiters)
}
