package service

import "time"

func (l *AttemptLimiter) SetNowFunc(now func() time.Time) {
	l.now = now
}

func (s *OtpSessionStore) SetNowFunc(now func() time.Time) {
	s.now = now
}
