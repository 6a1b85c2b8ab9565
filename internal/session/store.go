// Package session keeps the per-visitor descriptor: an opaque id minted once
// and the last detected/selected language, stored in redis behind a signed
// cookie. Expiry is left to the store's TTL; descriptors are never deleted.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlbatrossC/medllama2/internal/common"
)

var ErrNotFound = errors.New("session: not found")

const defaultTTL = 7 * 24 * time.Hour

type Descriptor struct {
	ID        string    `json:"id"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, ttl: defaultTTL}
}

func key(id string) string { return "session:" + id }

// New mints a descriptor with a fresh id and the default language.
func New() (*Descriptor, error) {
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	return &Descriptor{ID: id, Language: "en", CreatedAt: time.Now().UTC()}, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Descriptor, error) {
	raw, err := s.rdb.Get(ctx, key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Save writes the descriptor and refreshes its TTL. Last write wins;
// concurrent requests on one session are not serialized.
func (s *Store) Save(ctx context.Context, d *Descriptor) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(d.ID), raw, s.ttl).Err()
}
