// Package identity resolves opaque request credentials to local user IDs.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidCredential is returned for any credential that does not resolve to a live user
var ErrInvalidCredential = errors.New("invalid credential")

// Resolver resolves a credential to the acting user's ID
type Resolver interface {
	ResolveActor(ctx context.Context, credential string) (uint, error)
}

// Chain tries each resolver in order and returns the first success
type Chain []Resolver

// ResolveActor implements Resolver
func (c Chain) ResolveActor(ctx context.Context, credential string) (uint, error) {
	for _, r := range c {
		if r == nil {
			continue
		}
		id, err := r.ResolveActor(ctx, credential)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrInvalidCredential) {
			return 0, err
		}
	}
	return 0, ErrInvalidCredential
}
