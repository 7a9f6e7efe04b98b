package enrichment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedFetcher blocks every fetch until release is closed.
type gatedFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (f *gatedFetcher) Fetch(ctx context.Context, rawURL string) (*Product, error) {
	f.calls.Add(1)
	f.started <- struct{}{}
	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	price := 10.0
	return &Product{URL: rawURL, Title: "Shirt", Price: &price}, nil
}

func TestDeduper_ConcurrentCallsShareOneFetch(t *testing.T) {
	f := newGatedFetcher()
	d := NewDeduper(f, time.Second)
	const url = "https://shop.example/p/1"

	var wg sync.WaitGroup
	results := make([]*Product, 5)
	errs := make([]error, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = d.Fetch(context.Background(), url)
	}()
	<-f.started

	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = d.Fetch(context.Background(), url)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(f.release)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "Shirt", results[i].Title)
	}

	// callers get independent copies
	*results[0].Price = 99
	results[0].Title = "changed"
	assert.Equal(t, 10.0, *results[1].Price)
	assert.Equal(t, "Shirt", results[1].Title)
}

func TestDeduper_FetchesAgainAfterSettle(t *testing.T) {
	f := newGatedFetcher()
	close(f.release)
	d := NewDeduper(f, time.Second)

	_, err := d.Fetch(context.Background(), "https://shop.example/p/1")
	require.NoError(t, err)
	_, err = d.Fetch(context.Background(), "https://shop.example/p/1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), f.calls.Load())
}

func TestDeduper_FailureSettlesToo(t *testing.T) {
	f := newGatedFetcher()
	f.err = errors.New("upstream 503")
	close(f.release)
	d := NewDeduper(f, time.Second)

	_, err := d.Fetch(context.Background(), "https://shop.example/p/1")
	assert.EqualError(t, err, "upstream 503")
	_, err = d.Fetch(context.Background(), "https://shop.example/p/1")
	assert.Error(t, err)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestDeduper_CancelledCallerDoesNotFailOthers(t *testing.T) {
	f := newGatedFetcher()
	d := NewDeduper(f, time.Second)
	const url = "https://shop.example/p/1"

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := d.Fetch(ctx, url)
		firstErr <- err
	}()
	<-f.started

	second := make(chan *Product, 1)
	go func() {
		p, _ := d.Fetch(context.Background(), url)
		second <- p
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(f.release)
	p := <-second
	require.NotNil(t, p)
	assert.Equal(t, "Shirt", p.Title)
	assert.Equal(t, int32(1), f.calls.Load())
}
