// Package kv defines the durable key-value capability the persistence store
// writes through, plus in-memory and local-file implementations. SQL and S3
// backed media live in subpackages.
package kv

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrQuotaExceeded is returned by Set when the medium has no room left.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrInvalidKey indicates an empty key or one that escapes the medium.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Medium is a flat key-value space. Get returns (nil, nil) for absent keys and
// Remove of an absent key succeeds.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Prefixed scopes every key of the wrapped medium under prefix.
type Prefixed struct {
	Medium Medium
	Prefix string
}

// WithPrefix wraps m so that all keys are stored as prefix+key. An empty
// prefix returns m unchanged.
func WithPrefix(m Medium, prefix string) Medium {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return m
	}
	return &Prefixed{Medium: m, Prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.Medium.Get(ctx, p.Prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.Medium.Set(ctx, p.Prefix+key, value)
}

func (p *Prefixed) Remove(ctx context.Context, key string) error {
	return p.Medium.Remove(ctx, p.Prefix+key)
}

// ValidateKey rejects keys that cannot be mapped safely onto a file name or
// object key.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
