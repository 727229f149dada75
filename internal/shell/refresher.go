package shell

import (
	"context"
	"sync"
)

// FetchFunc reloads data for the given refresh token.
type FetchFunc func(ctx context.Context, token uint64) error

// Refresher bumps a refresh token and re-runs a fetch. A refresh started
// while another is in flight simply runs again; nothing is queued.
type Refresher struct {
	mu    sync.Mutex
	token uint64
	fetch FetchFunc
}

func NewRefresher(fetch FetchFunc) *Refresher {
	return &Refresher{fetch: fetch}
}

// Token is the current refresh token. Views that cache data compare it to
// the token they loaded with.
func (r *Refresher) Token() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

// Bump advances the token without fetching and returns the new value.
func (r *Refresher) Bump() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token++
	return r.token
}

// Refresh bumps the token and runs the fetch with it.
func (r *Refresher) Refresh(ctx context.Context) (uint64, error) {
	token := r.Bump()
	if r.fetch == nil {
		return token, nil
	}
	return token, r.fetch(ctx, token)
}
