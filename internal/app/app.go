package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/five82/localizei/internal/cache"
	"github.com/five82/localizei/internal/catalog"
	"github.com/five82/localizei/internal/config"
	"github.com/five82/localizei/internal/identity"
	"github.com/five82/localizei/internal/logging"
	"github.com/five82/localizei/internal/logtail"
	"github.com/five82/localizei/internal/prefs"
	"github.com/five82/localizei/internal/state"
	"github.com/five82/localizei/internal/supabase"
	"github.com/five82/localizei/internal/ui"
)

// Options configure the Localizei application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/localizei/prefs.toml
	LogLevel   string
	LogFormat  string
}

// Run boots the Localizei TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	closer, err := logging.Setup(logging.Options{
		Level:  opts.LogLevel,
		Format: opts.LogFormat,
		Path:   cfg.LogPath,
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	if err := cfg.Validate(); err != nil {
		slog.Warn("listing backend credentials missing", "error", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	store := &state.Store{}

	var listingCache ListingCache
	if db := openCache(cfg.CachePath); db != nil {
		defer func() { _ = db.Close() }()
		seedFromCache(ctx, store, db)
		listingCache = db
	}

	auth := newAuthManager(cfg)
	go auth.Restore(ctx)

	fetcher, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, supabase.WithAccessToken(auth.AccessToken))
	if err != nil {
		return fmt.Errorf("init listing client: %w", err)
	}

	poller := NewPoller(store, fetcher, listingCache, cfg.PollInterval)
	poller.Start(ctx)

	slog.Info("localizei starting", "supabase_url", cfg.SupabaseURL, "poll_interval", cfg.PollInterval)

	uiOpts := ui.Options{
		Context:          ctx,
		Store:            store,
		Auth:             auth,
		Refresh:          poller.Trigger,
		Neighborhood:     cfg.Neighborhood,
		SplashDelay:      cfg.SplashDelay,
		CarouselInterval: cfg.CarouselInterval,
		Prefs:            userPrefs,
		PrefsPath:        prefsPath,
	}
	return ui.Run(uiOpts)
}

// StoresQuery filters the listing printed by ListStores.
type StoresQuery struct {
	Category string // id or display name
	Search   string
}

// ListStores fetches the listing once and writes it to w as a table. When
// the backend is unreachable the cached listing is printed instead.
func ListStores(ctx context.Context, configPath string, q StoresQuery, w io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		slog.Warn("listing backend credentials missing", "error", err)
	}

	fetcher, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	if err != nil {
		return fmt.Errorf("init listing client: %w", err)
	}

	store := &state.Store{}
	var listingCache ListingCache
	if db := openCache(cfg.CachePath); db != nil {
		defer func() { _ = db.Close() }()
		seedFromCache(ctx, store, db)
		listingCache = db
	}

	if err := NewPoller(store, fetcher, listingCache, cfg.PollInterval).Refresh(ctx); err != nil {
		if !store.Snapshot().HasListing() {
			return err
		}
		slog.Warn("showing cached listing", "error", err)
	}

	snap := store.Snapshot()
	return writeStores(w, filterStores(snap, q))
}

// Logout forgets the persisted session.
func Logout(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	identity.NewManager(nil, cfg.SessionPath).SignOut()
	slog.Info("session cleared", "path", cfg.SessionPath)
	return nil
}

// ShowLogs writes the last lines of the TUI log file at or above level.
func ShowLogs(configPath string, lines int, level string, w io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	minLevel, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	records, err := logtail.Tail(cfg.LogPath, lines, minLevel)
	if err != nil {
		return err
	}
	for _, line := range records {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newAuthManager(cfg config.Config) *identity.Manager {
	client, err := identity.NewClient(cfg.IdentityAPIKey, cfg.IdentityBaseURL, cfg.TokenURL)
	if err != nil {
		if errors.Is(err, identity.ErrMissingAPIKey) {
			slog.Warn("login disabled", "error", err)
		} else {
			slog.Error("init identity client failed", "error", err)
		}
		return identity.NewManager(nil, cfg.SessionPath)
	}
	return identity.NewManager(client, cfg.SessionPath)
}

// openCache opens the offline listing cache. Failures are logged and the
// app runs without one.
func openCache(path string) *cache.Cache {
	db, err := cache.Open(path)
	if err != nil {
		slog.Warn("offline cache unavailable", "path", path, "error", err)
		return nil
	}
	return db
}

func seedFromCache(ctx context.Context, store *state.Store, db *cache.Cache) {
	stores, err := db.LoadStores(ctx)
	if err != nil {
		slog.Warn("load cached stores failed", "error", err)
		return
	}
	cats, err := db.LoadCategories(ctx)
	if err != nil {
		slog.Warn("load cached categories failed", "error", err)
	}
	at, err := db.UpdatedAt(ctx)
	if err != nil {
		slog.Warn("load cache timestamp failed", "error", err)
	}
	if len(stores) == 0 && len(cats) == 0 {
		return
	}
	store.Seed(stores, cats, at)
	slog.Debug("seeded listing from cache", "stores", len(stores), "categories", len(cats), "updated_at", at)
}

func filterStores(snap state.Snapshot, q StoresQuery) []catalog.Store {
	stores := snap.Stores
	if name := strings.TrimSpace(q.Category); name != "" {
		cats := snap.Categories
		if len(cats) == 0 {
			cats = catalog.DefaultCategories
		}
		stores = catalog.FilterByCategory(stores, lookupCategory(cats, name))
	}
	return catalog.Search(stores, q.Search)
}

// lookupCategory matches name against ids and display names. Unknown names
// still filter by the raw value.
func lookupCategory(cats []catalog.Category, name string) catalog.Category {
	for _, c := range cats {
		if strings.EqualFold(c.ID, name) || strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return catalog.Category{ID: name, Name: name}
}

func writeStores(w io.Writer, stores []catalog.Store) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNOME\tCATEGORIA\tNOTA\tCASHBACK")
	for _, s := range stores {
		cashback := "-"
		if s.HasCashback() {
			cashback = strings.Replace(fmt.Sprintf("%.1f%%", s.Cashback), ".", ",", 1)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\n", s.ID, s.Name, s.Category, s.Rating, cashback)
	}
	return tw.Flush()
}
