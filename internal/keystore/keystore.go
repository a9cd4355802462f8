// Package keystore holds the set of API keys the service will accept:
// long-lived master keys loaded once at startup and short-lived demo keys
// issued on demand through the public key-generation endpoint.
package keystore

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// DemoKeyPrefix marks self-issued keys so they are recognizable in logs and
// support requests.
const DemoKeyPrefix = "demo_"

// Kind is the result of validating a presented API key.
type Kind int

const (
	// KindInvalid means the key is absent from the store or expired.
	KindInvalid Kind = iota
	// KindMaster means the key is one of the configured master keys.
	KindMaster
	// KindDemo means the key is a self-issued demo key that has not expired.
	KindDemo
)

// String returns a label for logging.
func (k Kind) String() string {
	switch k {
	case KindMaster:
		return "master"
	case KindDemo:
		return "demo"
	default:
		return "invalid"
	}
}

// DemoKey is a short-lived API key issued via the public endpoint.
type DemoKey struct {
	Key       string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Store holds the master-key set and the in-memory demo-key registry.
// Master keys are immutable for the process lifetime; demo keys are added
// concurrently by request handlers and expire passively. Expired entries are
// never purged, which is acceptable for the lifetime of this process-local
// registry.
type Store struct {
	masterKeys map[string]struct{}
	ttl        time.Duration

	mu       sync.RWMutex
	demoKeys map[string]DemoKey

	// now is swapped out in tests.
	now func() time.Time
}

// New creates a Store accepting the given master keys. Demo keys issued by
// the store are valid for ttl.
func New(masterKeys []string, ttl time.Duration) *Store {
	masters := make(map[string]struct{}, len(masterKeys))
	for _, key := range masterKeys {
		masters[key] = struct{}{}
	}
	return &Store{
		masterKeys: masters,
		ttl:        ttl,
		demoKeys:   make(map[string]DemoKey),
		now:        time.Now,
	}
}

// IssueDemoKey generates a new random demo key, registers it, and returns
// the record. Safe for concurrent use.
func (s *Store) IssueDemoKey(name string) (DemoKey, error) {
	if name == "" {
		name = "Demo Key"
	}

	token, err := generateToken()
	if err != nil {
		return DemoKey{}, fmt.Errorf("failed to generate demo key: %w", err)
	}

	issuedAt := s.now()
	record := DemoKey{
		Key:       token,
		Name:      name,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A 256-bit token colliding with an existing one is not a realistic
	// event, but regenerating under the lock keeps the registry free of
	// silently overwritten records either way.
	for {
		if _, exists := s.demoKeys[record.Key]; !exists {
			break
		}
		token, err = generateToken()
		if err != nil {
			return DemoKey{}, fmt.Errorf("failed to generate demo key: %w", err)
		}
		record.Key = token
	}
	s.demoKeys[record.Key] = record

	return record, nil
}

// Validate classifies a presented key as master, demo, or invalid. Expired
// demo keys are invalid. Master comparison is constant-time per candidate so
// the lookup does not give away how much of a guessed key matched.
func (s *Store) Validate(presented string) Kind {
	if presented == "" {
		return KindInvalid
	}

	presentedBytes := []byte(presented)
	for key := range s.masterKeys {
		if subtle.ConstantTimeCompare([]byte(key), presentedBytes) == 1 {
			return KindMaster
		}
	}

	s.mu.RLock()
	record, ok := s.demoKeys[presented]
	s.mu.RUnlock()
	if !ok {
		return KindInvalid
	}
	if !s.now().Before(record.ExpiresAt) {
		return KindInvalid
	}
	return KindDemo
}

// DemoKeyCount returns the number of registered demo keys, expired ones
// included.
func (s *Store) DemoKeyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.demoKeys)
}

// generateToken returns a new demo-key token with 256 bits of entropy.
func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return DemoKeyPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}
