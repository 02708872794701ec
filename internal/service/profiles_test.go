package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	apperrors "github.com/target/libris-ui/internal/errors"
	mocks "github.com/target/libris-ui/internal/mocks/auth"
)

func TestProfileCacheKey(t *testing.T) {
	k1 := ProfileCacheKey("token-one-123")
	k2 := ProfileCacheKey("token-two-456")

	assert.Len(t, k1, 64)
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, ProfileCacheKey("token-one-123"))
	assert.NotContains(t, k1, "token")
}

func TestProfileService_CachesValidProfiles(t *testing.T) {
	upstream := &mocks.MockProfileFetcher{Profiles: map[string]domainauth.UserProfile{
		adminToken: {ID: 1, Role: domainauth.RoleAdmin},
	}}
	cache := mocks.NewMemoryProfileCache()
	svc := NewProfileService(ProfileServiceOptions{Upstream: upstream, Cache: cache, CacheTTL: 30 * time.Second})
	ctx := context.Background()

	p, err := svc.FetchProfile(ctx, adminToken)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, p.Role)

	p, err = svc.FetchProfile(ctx, adminToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	assert.Equal(t, 1, upstream.Calls())
	assert.Equal(t, []string{ProfileCacheKey(adminToken)}, cache.Keys())
	assert.Equal(t, 30*time.Second, cache.TTL(ProfileCacheKey(adminToken)))
}

func TestProfileService_DoesNotCacheUnknownRole(t *testing.T) {
	upstream := &mocks.MockProfileFetcher{Profiles: map[string]domainauth.UserProfile{
		adminToken: {ID: 1, Role: domainauth.Role("superuser")},
	}}
	cache := mocks.NewMemoryProfileCache()
	svc := NewProfileService(ProfileServiceOptions{Upstream: upstream, Cache: cache})

	p, err := svc.FetchProfile(context.Background(), adminToken)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Role("superuser"), p.Role)
	assert.Empty(t, cache.Keys())
}

func TestProfileService_PropagatesErrors(t *testing.T) {
	upstream := &mocks.MockProfileFetcher{
		FetchFunc: func(context.Context, string) (domainauth.UserProfile, error) {
			return domainauth.UserProfile{}, apperrors.Unauthenticated("Unauthenticated.")
		},
	}
	cache := mocks.NewMemoryProfileCache()
	svc := NewProfileService(ProfileServiceOptions{Upstream: upstream, Cache: cache})

	_, err := svc.FetchProfile(context.Background(), adminToken)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.Empty(t, cache.Keys())
}

func TestProfileService_CacheReadErrorFallsThrough(t *testing.T) {
	upstream := &mocks.MockProfileFetcher{Profiles: map[string]domainauth.UserProfile{
		userToken: {ID: 2, Role: domainauth.RoleUser},
	}}
	cache := mocks.NewMemoryProfileCache()
	cache.GetErr = errors.New("redis down")
	svc := NewProfileService(ProfileServiceOptions{Upstream: upstream, Cache: cache})

	p, err := svc.FetchProfile(context.Background(), userToken)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, 1, upstream.Calls())
}

func TestProfileService_EmptyToken(t *testing.T) {
	svc := NewProfileService(ProfileServiceOptions{Upstream: &mocks.MockProfileFetcher{}})

	_, err := svc.FetchProfile(context.Background(), "")
	require.ErrorIs(t, err, domainauth.ErrEmptyToken)
}

func TestProfileService_CoalescesConcurrentFetches(t *testing.T) {
	upstream := &mocks.MockProfileFetcher{
		Profiles: map[string]domainauth.UserProfile{userToken: {ID: 2, Role: domainauth.RoleUser}},
		Gate:     make(chan struct{}),
		Started:  make(chan string, 8),
	}
	svc := NewProfileService(ProfileServiceOptions{Upstream: upstream})
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]domainauth.UserProfile, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.FetchProfile(ctx, userToken)
	}()
	<-upstream.Started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = svc.FetchProfile(ctx, userToken)
	}()
	// Give the second caller a moment to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(upstream.Gate)
	wg.Wait()

	assert.Equal(t, int64(2), results[0].ID)
	assert.Equal(t, int64(2), results[1].ID)
	assert.LessOrEqual(t, upstream.Calls(), 2)
}

func TestProfileService_CancelledLeaderDoesNotFailWaiters(t *testing.T) {
	upstream := &mocks.MockProfileFetcher{
		Profiles: map[string]domainauth.UserProfile{userToken: {ID: 2, Role: domainauth.RoleUser}},
		Gate:     make(chan struct{}),
		Started:  make(chan string, 8),
	}
	svc := NewProfileService(ProfileServiceOptions{Upstream: upstream})

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.FetchProfile(leaderCtx, userToken)
		leaderErr <- err
	}()
	<-upstream.Started

	type result struct {
		p   domainauth.UserProfile
		err error
	}
	waiter := make(chan result, 1)
	go func() {
		p, err := svc.FetchProfile(context.Background(), userToken)
		waiter <- result{p, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	require.ErrorIs(t, <-leaderErr, context.Canceled)
	close(upstream.Gate)

	got := <-waiter
	require.NoError(t, got.err)
	assert.Equal(t, int64(2), got.p.ID)
}

func TestProfileService_Invalidate(t *testing.T) {
	upstream := &mocks.MockProfileFetcher{Profiles: map[string]domainauth.UserProfile{
		adminToken: {ID: 1, Role: domainauth.RoleAdmin},
	}}
	cache := mocks.NewMemoryProfileCache()
	svc := NewProfileService(ProfileServiceOptions{Upstream: upstream, Cache: cache})
	ctx := context.Background()

	_, err := svc.FetchProfile(ctx, adminToken)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx, adminToken))
	assert.Empty(t, cache.Keys())

	_, err = svc.FetchProfile(ctx, adminToken)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.Calls())

	assert.NoError(t, NewProfileService(ProfileServiceOptions{Upstream: upstream}).Invalidate(ctx, adminToken))
}
