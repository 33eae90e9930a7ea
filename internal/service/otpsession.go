package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
)

const DefaultOtpSessionTTL = 15 * time.Minute

// OtpSessionStore maps a phone number to the provider-issued verification
// handle returned when a code was sent. Entries are process-local and expire
// after the TTL; expired entries are swept opportunistically on Store.
type OtpSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entity.OtpSession
	ttl      time.Duration
	now      func() time.Time
}

func NewOtpSessionStore(ttl time.Duration) *OtpSessionStore {
	return &OtpSessionStore{
		sessions: make(map[string]*entity.OtpSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Store saves a new session for phoneNumber and returns its opaque key.
// Repeated sends for the same phone create independent entries; Retrieve
// picks the most recent one.
func (s *OtpSessionStore) Store(phoneNumber, phoneID, providerUserID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := fmt.Sprintf("otp_%d_%s", now.UnixMilli(), randomSuffix())

	s.sessions[key] = &entity.OtpSession{
		PhoneID:        phoneID,
		ProviderUserID: providerUserID,
		PhoneNumber:    phoneNumber,
		CreatedAt:      now,
	}

	s.cleanupLocked(now)

	return key
}

// Retrieve returns the most recent unexpired session for phoneNumber, or nil.
// A session older than the TTL is treated as absent even if still present.
func (s *OtpSessionStore) Retrieve(phoneNumber string) *entity.OtpSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *entity.OtpSession

	for _, session := range s.sessions {
		if session.PhoneNumber != phoneNumber {
			continue
		}

		if latest == nil || session.CreatedAt.After(latest.CreatedAt) {
			latest = session
		}
	}

	if latest == nil || s.now().Sub(latest.CreatedAt) > s.ttl {
		return nil
	}

	return latest
}

// Remove deletes every session for phoneNumber.
func (s *OtpSessionStore) Remove(phoneNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, session := range s.sessions {
		if session.PhoneNumber == phoneNumber {
			delete(s.sessions, key)
		}
	}
}

func (s *OtpSessionStore) cleanupLocked(now time.Time) {
	for key, session := range s.sessions {
		if now.Sub(session.CreatedAt) > s.ttl {
			delete(s.sessions, key)
		}
	}
}

func randomSuffix() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "000000000000"
	}

	return hex.EncodeToString(b)
}
