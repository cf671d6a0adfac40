package enrollment

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-node development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryStore creates a store with an inactive record for each of the given clients.
func NewMemoryStore(clientIDs ...string) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]Record, len(clientIDs)),
		now:     time.Now,
	}
	for _, id := range clientIDs {
		s.records[id] = Record{ClientID: id, UpdatedAt: s.now().UTC()}
	}
	return s
}

// AddClient registers an inactive client. Existing clients are left untouched.
func (s *MemoryStore) AddClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[clientID]; ok {
		return
	}
	s.records[clientID] = Record{ClientID: clientID, UpdatedAt: s.now().UTC()}
}

// Get returns a copy of the stored record.
func (s *MemoryStore) Get(ctx context.Context, clientID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[clientID]
	if !ok {
		return Record{}, ErrClientNotFound
	}
	return copyRecord(r), nil
}

// Update replaces the credential tuple under a single lock.
func (s *MemoryStore) Update(ctx context.Context, clientID string, creds *Credentials) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[clientID]
	if !ok {
		return 0, nil
	}

	if creds == nil {
		r.Secret, r.RecoveryHash, r.RecoverySalt = nil, nil, nil
	} else {
		secret, hash, salt := creds.Secret, creds.RecoveryHash, creds.RecoverySalt
		r.Secret, r.RecoveryHash, r.RecoverySalt = &secret, &hash, &salt
	}
	r.UpdatedAt = s.now().UTC()
	s.records[clientID] = r
	return 1, nil
}

// Clear resets the tuple if the stored hash still matches recoveryHash.
func (s *MemoryStore) Clear(ctx context.Context, clientID, recoveryHash string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[clientID]
	if !ok || r.RecoveryHash == nil || *r.RecoveryHash != recoveryHash {
		return 0, nil
	}

	r.Secret, r.RecoveryHash, r.RecoverySalt = nil, nil, nil
	r.UpdatedAt = s.now().UTC()
	s.records[clientID] = r
	return 1, nil
}

func copyRecord(r Record) Record {
	out := Record{ClientID: r.ClientID, UpdatedAt: r.UpdatedAt}
	if r.Secret != nil {
		v := *r.Secret
		out.Secret = &v
	}
	if r.RecoveryHash != nil {
		v := *r.RecoveryHash
		out.RecoveryHash = &v
	}
	if r.RecoverySalt != nil {
		v := *r.RecoverySalt
		out.RecoverySalt = &v
	}
	return out
}
