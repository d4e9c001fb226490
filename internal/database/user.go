package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// UserKey is the single key the user record lives under.
const UserKey = "user"

// Backend names the storage implementation serving requests.
type Backend string

const (
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "in-memory"
)

// User is the stored record: an open JSON object that carries at least a
// string "name" field.
type User map[string]any

// Name returns the name field, or "" when it is missing or not a string.
func (u User) Name() string {
	name, _ := u["name"].(string)
	return name
}

// clone returns a deep copy of u by round-tripping it through JSON.
func (u User) clone() (User, error) {
	if u == nil {
		return nil, nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	return decodeUser(data)
}

func decodeUser(data []byte) (User, error) {
	var u User
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// UserStore persists the single user record.
type UserStore interface {
	// GetUser returns the stored record, or nil when none has been stored.
	GetUser(ctx context.Context) (User, error)
	StoreUser(ctx context.Context, u User) error
	Backend() Backend
}
