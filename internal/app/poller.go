package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/localizei/internal/catalog"
	"github.com/five82/localizei/internal/state"
	"github.com/five82/localizei/internal/supabase"
)

const (
	defaultPollInterval = 60 * time.Second
	maxBackoff          = 30 * time.Second
	fetchTimeout        = 10 * time.Second
)

// ListingCache receives every listing that was fetched successfully.
type ListingCache interface {
	SaveStores(ctx context.Context, stores []catalog.Store) error
	SaveCategories(ctx context.Context, cats []catalog.Category) error
}

// Poller refreshes the store listing in the background.
type Poller struct {
	store    *state.Store
	fetcher  supabase.ListingFetcher
	cache    ListingCache
	interval time.Duration
	kick     chan struct{}
}

// NewPoller builds a poller. cache may be nil.
func NewPoller(store *state.Store, fetcher supabase.ListingFetcher, cache ListingCache, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		store:    store,
		fetcher:  fetcher,
		cache:    cache,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the refresh loop and returns immediately. The first
// refresh runs right away.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

// Trigger asks for a refresh as soon as possible. Extra triggers while one
// is pending are dropped.
func (p *Poller) Trigger() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-p.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		_ = p.Refresh(ctx)

		wait := p.interval
		if failures := p.store.Snapshot().ConsecutiveFailures; failures > 0 {
			wait = calculateBackoff(failures, p.interval)
		}
		timer.Reset(wait)
	}
}

// Refresh fetches categories and stores concurrently and records the
// outcome in the state store. Category failures are logged and keep the
// current categories; a store failure fails the refresh.
func (p *Poller) Refresh(ctx context.Context) error {
	p.store.BeginRefresh()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var (
		stores []catalog.Store
		cats   []catalog.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stores, err = p.fetcher.FetchStores(gctx)
		if err != nil {
			return fmt.Errorf("fetch stores: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		fetched, err := p.fetcher.FetchCategories(gctx)
		if err != nil {
			slog.Warn("category refresh failed", "error", err)
			return nil
		}
		if len(fetched) > 0 {
			cats = fetched
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		p.store.Update(nil, nil, err)
		slog.Warn("listing refresh failed", "error", err)
		return err
	}

	p.store.Update(stores, cats, nil)
	slog.Debug("listing refreshed", "stores", len(stores), "categories", len(cats))
	p.persist(ctx, stores, cats)
	return nil
}

func (p *Poller) persist(ctx context.Context, stores []catalog.Store, cats []catalog.Category) {
	if p.cache == nil {
		return
	}
	if err := p.cache.SaveStores(ctx, stores); err != nil {
		slog.Warn("cache stores failed", "error", err)
	}
	if len(cats) == 0 {
		return
	}
	if err := p.cache.SaveCategories(ctx, cats); err != nil {
		slog.Warn("cache categories failed", "error", err)
	}
}

// calculateBackoff doubles base for every consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
