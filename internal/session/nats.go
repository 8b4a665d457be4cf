package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/hankyong/campus-chatbot/internal/model"
)

// NATSStore keeps sessions in a JetStream key-value bucket. Expiry is the
// bucket's TTL, which restarts on every Put.
type NATSStore struct {
	kv jetstream.KeyValue
}

// NewNATSStore creates a store over an existing bucket.
func NewNATSStore(kv jetstream.KeyValue) *NATSStore {
	return &NATSStore{kv: kv}
}

// Save overwrites the user's session.
func (s *NATSStore) Save(ctx context.Context, userID string, rec model.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if _, err := s.kv.Put(ctx, Key(userID), data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get returns the user's session, or nil when none is stored.
func (s *NATSStore) Get(ctx context.Context, userID string) (*model.SessionRecord, error) {
	entry, err := s.kv.Get(ctx, Key(userID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var rec model.SessionRecord
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &rec, nil
}
