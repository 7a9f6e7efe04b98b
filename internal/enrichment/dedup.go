package enrichment

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Deduper collapses concurrent fetches of the same URL into one. The shared
// fetch is detached from any single caller's cancellation and bounded by its
// own timeout; the entry is dropped as soon as it settles.
type Deduper struct {
	group   singleflight.Group
	fetcher Fetcher
	timeout time.Duration
}

func NewDeduper(fetcher Fetcher, timeout time.Duration) *Deduper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Deduper{fetcher: fetcher, timeout: timeout}
}

// Fetch returns the product at url, joining an in-flight fetch when one
// exists. Every caller gets its own copy of the result.
func (d *Deduper) Fetch(ctx context.Context, url string) (*Product, error) {
	ch := d.group.DoChan(url, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		return d.fetcher.Fetch(fctx, url)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Product).clone(), nil
	}
}
