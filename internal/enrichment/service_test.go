package enrichment

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
)

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, rawURL string) (*Product, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &Product{URL: rawURL, Title: "Loafers"}, nil
}

func TestService_CachesResults(t *testing.T) {
	_, client := setupTestRedis(t)
	f := &countingFetcher{}
	svc := NewService(NewRedisCache(client, time.Hour), NewDeduper(f, time.Second))
	ctx := context.Background()

	p, cached, err := svc.Enrich(ctx, "https://shop.example/loafers")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Loafers", p.Title)

	p, cached, err = svc.Enrich(ctx, "https://shop.example/loafers#details")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "Loafers", p.Title)

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestService_RejectsPrivateURLWithoutFetching(t *testing.T) {
	f := &countingFetcher{}
	svc := NewService(nil, NewDeduper(f, time.Second))

	_, _, err := svc.Enrich(context.Background(), "http://127.0.0.1:6379/")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	assert.Zero(t, f.calls.Load())
}

func TestService_FetchFailureIsUpstream(t *testing.T) {
	f := &countingFetcher{err: errors.New("dial tcp: i/o timeout")}
	svc := NewService(NopCache{}, NewDeduper(f, time.Second))

	_, _, err := svc.Enrich(context.Background(), "https://shop.example/x")
	assert.Equal(t, apperr.CodeUpstream, apperr.CodeOf(err))
}

func TestService_BlockedAddressIsValidation(t *testing.T) {
	f := &countingFetcher{err: fmt.Errorf("fetch shop.example: %w", ErrPrivateAddress)}
	svc := NewService(NopCache{}, NewDeduper(f, time.Second))

	_, _, err := svc.Enrich(context.Background(), "https://shop.example/redirects-inward")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestService_CacheOutageFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	f := &countingFetcher{}
	svc := NewService(NewRedisCache(client, time.Hour), NewDeduper(f, time.Second))
	mr.Close()

	p, cached, err := svc.Enrich(context.Background(), "https://shop.example/x")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Loafers", p.Title)
}
