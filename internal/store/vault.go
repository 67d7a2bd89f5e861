// Package store holds the client-local persistent state: the token pair
// written at login and cleared at logout. Every outgoing request reads the
// access token from here; only the session manager writes it.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSession = []byte("session")

// Fixed keys for the persisted token pair
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// Vault is the persistent client-local key/value store, backed by BoltDB
// with an in-memory cache for hot-path reads. With an empty path it runs
// memory-only (no persistence), which is what tests use.
type Vault struct {
	db *bolt.DB
	mu sync.RWMutex

	cache map[string]string
}

// Open opens (or creates) the vault database at path. An empty path yields
// a memory-only vault.
func Open(path string) (*Vault, error) {
	if path == "" {
		return &Vault{cache: make(map[string]string)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open vault db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Vault{db: db, cache: make(map[string]string)}, nil
}

func (v *Vault) Close() error {
	if v.db != nil {
		return v.db.Close()
	}
	return nil
}

// Get returns the stored value for key, or "" when unset.
func (v *Vault) Get(key string) string {
	v.mu.RLock()
	if val, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return val
	}
	v.mu.RUnlock()

	if v.db == nil {
		return ""
	}

	var data []byte
	v.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		if raw := b.Get([]byte(key)); raw != nil {
			data = make([]byte, len(raw))
			copy(data, raw)
		}
		return nil
	})

	if data == nil {
		return ""
	}

	// Promote to memory cache
	v.mu.Lock()
	v.cache[key] = string(data)
	v.mu.Unlock()

	return string(data)
}

// Set stores value under key.
func (v *Vault) Set(key, value string) error {
	v.mu.Lock()
	v.cache[key] = value
	v.mu.Unlock()

	if v.db == nil {
		return nil // Memory-only mode
	}

	return v.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		return b.Put([]byte(key), []byte(value))
	})
}

// Delete removes the value stored under key.
func (v *Vault) Delete(key string) {
	v.mu.Lock()
	delete(v.cache, key)
	v.mu.Unlock()

	if v.db == nil {
		return
	}

	v.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// AccessToken returns the persisted access token, or "" when logged out.
// This satisfies the api.TokenSource interface.
func (v *Vault) AccessToken() string {
	return v.Get(KeyAccessToken)
}

// SetTokens persists the access/refresh pair together.
func (v *Vault) SetTokens(access, refresh string) error {
	if err := v.Set(KeyAccessToken, access); err != nil {
		return err
	}
	return v.Set(KeyRefreshToken, refresh)
}

// ClearTokens removes both tokens. Called on logout.
func (v *Vault) ClearTokens() {
	v.Delete(KeyAccessToken)
	v.Delete(KeyRefreshToken)
}
