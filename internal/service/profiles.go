package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/ports"
)

const (
	// DefaultProfileCacheTTL bounds how long a fetched profile is reused.
	DefaultProfileCacheTTL = time.Minute
	// DefaultProfileFetchTimeout bounds a shared upstream fetch.
	DefaultProfileFetchTimeout = 30 * time.Second
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Upstream ports.ProfileFetcher
	// Cache is optional. When nil every call goes upstream (still coalesced).
	Cache    ports.ProfileCache
	CacheTTL time.Duration
	// FetchTimeout bounds the shared upstream call, which outlives any single caller.
	FetchTimeout time.Duration
	Logger       *slog.Logger
}

// ProfileService fronts the profile endpoint. Concurrent fetches for the same
// token share one upstream call and successful results are cached by token hash.
type ProfileService struct {
	upstream ports.ProfileFetcher
	cache    ports.ProfileCache
	ttl      time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	group    singleflight.Group
}

var _ ports.ProfileFetcher = (*ProfileService)(nil)

// NewProfileService constructs a ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultProfileCacheTTL
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultProfileFetchTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		upstream: opts.Upstream,
		cache:    opts.Cache,
		ttl:      ttl,
		timeout:  timeout,
		logger:   logger.With("component", "profile_service"),
	}
}

// FetchProfile returns the profile for token.
func (s *ProfileService) FetchProfile(ctx context.Context, token string) (domainauth.UserProfile, error) {
	if token == "" {
		return domainauth.UserProfile{}, domainauth.ErrEmptyToken
	}
	key := ProfileCacheKey(token)

	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "profile cache read failed", "error", err)
		case ok && p.Role.Valid():
			return p, nil
		}
	}

	// The shared call is detached from the caller that started it so a
	// cancelled request does not fail the others waiting on it.
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		p, fetchErr := s.upstream.FetchProfile(fetchCtx, token)
		if fetchErr != nil {
			return domainauth.UserProfile{}, fetchErr
		}
		if s.cache != nil && p.Role.Valid() {
			if setErr := s.cache.Set(fetchCtx, key, p, s.ttl); setErr != nil {
				s.logger.WarnContext(fetchCtx, "profile cache write failed", "error", setErr)
			}
		}
		return p, nil
	})

	var v any
	select {
	case <-ctx.Done():
		return domainauth.UserProfile{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domainauth.UserProfile{}, res.Err
		}
		v = res.Val
	}
	p, ok := v.(domainauth.UserProfile)
	if !ok {
		return domainauth.UserProfile{}, errors.New("unexpected profile result type")
	}
	return p, nil
}

// Invalidate drops any cached profile for token.
func (s *ProfileService) Invalidate(ctx context.Context, token string) error {
	if s.cache == nil || token == "" {
		return nil
	}
	return s.cache.Delete(ctx, ProfileCacheKey(token))
}

// ProfileCacheKey derives the cache key for a bearer token. Raw tokens are never stored.
func ProfileCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
