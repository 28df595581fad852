// Package app composes the portal services with fx. Core is shared by the
// TUI and the CLI; Module adds the TUI on top.
package app

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/analytics"
	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/config"
	"github.com/matheus3301/portal/internal/locale"
	"github.com/matheus3301/portal/internal/lock"
	"github.com/matheus3301/portal/internal/logging"
	"github.com/matheus3301/portal/internal/mapping"
	"github.com/matheus3301/portal/internal/netx"
	"github.com/matheus3301/portal/internal/opener"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/search"
	"github.com/matheus3301/portal/internal/session"
	"github.com/matheus3301/portal/internal/store"
	"github.com/matheus3301/portal/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	httpTimeout    = 30 * time.Second
	uploadInterval = 30 * time.Second
)

// Params holds the resolved profile passed to the fx modules.
type Params struct {
	Profile string
	// Owner is recorded in the profile lock, e.g. "portal" or "portalctl".
	Owner string
	// Console also logs warnings to stderr.
	Console bool
	// ConfigPath overrides the default config location; empty = default.
	ConfigPath string
	// BaseDir overrides the profile root for testing; empty = default.
	BaseDir string
}

// Language is the resolved search query language.
type Language string

// Services is everything a front end needs, resolved from Core.
type Services struct {
	fx.In

	Config     *config.Config
	Logger     *zap.Logger
	Bus        *bus.Bus
	DB         *store.DB
	Prefs      *prefs.Service
	Auth       *auth.Client
	Search     *search.Client
	Thumbnails *search.ThumbnailCache
	Amenities  *amenity.Service
	Maps       *mapping.Service
	Uploader   *analytics.Uploader `optional:"true"`
	Recorder   analytics.Recorder
	Reach      netx.Reachability
	Opener     opener.Opener
	Language   Language
}

// Core returns the fx module with storage, backends and analytics workers.
func Core(p Params) fx.Option {
	return fx.Module("portal",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			providePrefs,
			provideHTTPClient,
			provideAuth,
			provideSearch,
			provideThumbnails,
			provideAmenities,
			provideMaps,
			provideUploader,
			provideSink,
			provideRecorder,
			provideReachability,
			provideOpener,
			provideLanguage,
		),
		fx.Invoke(registerLifecycle),
	)
}

// Module returns Core plus the TUI, which runs once the app has started and
// shuts the app down when it exits.
func Module(p Params) fx.Option {
	return fx.Options(
		Core(p),
		fx.Provide(provideTUI),
		fx.Invoke(runTUI),
	)
}

func profileDir(p Params) string {
	if p.BaseDir != "" {
		return filepath.Join(p.BaseDir, p.Profile)
	}
	return session.Dir(p.Profile)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = session.ConfigPath()
	}
	return config.LoadOrDefault(path)
}

func provideLogger(p Params) (*zap.Logger, error) {
	path := session.LogPath(p.Profile)
	if p.BaseDir != "" {
		path = filepath.Join(profileDir(p), "logs", "portal.log")
	}
	return logging.New(path, p.Profile, p.Console)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(profileDir(p), p.Owner)
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

// provideStore depends on the lock so the database is only opened by the
// lock holder.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.AppDBPath(p.Profile)
	if p.BaseDir != "" {
		dbPath = filepath.Join(profileDir(p), "portal.db")
	}
	db, err := store.OpenMigrated(dbPath)
	if err != nil {
		return nil, err
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func providePrefs(db *store.DB, b *bus.Bus, logger *zap.Logger) *prefs.Service {
	return prefs.New(db, b, logger)
}

func provideHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

func provideAuth(cfg *config.Config, hc *http.Client, p *prefs.Service, logger *zap.Logger) *auth.Client {
	return auth.NewClient(cfg.AuthURL, hc, p, auth.NoBiometrics{}, logger)
}

func provideSearch(cfg *config.Config, hc *http.Client) *search.Client {
	return search.NewClient(cfg.SearchURL, hc)
}

func provideThumbnails(p Params, cfg *config.Config, hc *http.Client) *search.ThumbnailCache {
	dir := session.ThumbnailDir(p.Profile)
	if p.BaseDir != "" {
		dir = filepath.Join(profileDir(p), "thumbnails")
	}
	return search.NewThumbnailCache(dir, cfg.AssetURL, hc)
}

func provideAmenities(cfg *config.Config, hc *http.Client, db *store.DB, logger *zap.Logger) *amenity.Service {
	return amenity.NewService(cfg.AmenityURL, hc, db, logger)
}

func provideMaps(cfg *config.Config, hc *http.Client, db *store.DB, b *bus.Bus, logger *zap.Logger) *mapping.Service {
	return mapping.NewService(cfg.MapURL, hc, db, b, logger)
}

// provideUploader returns nil when no analytics endpoint is configured;
// events are then kept in the store only.
func provideUploader(cfg *config.Config, hc *http.Client, db *store.DB, logger *zap.Logger) *analytics.Uploader {
	if cfg.AnalyticsURL == "" {
		return nil
	}
	return analytics.NewUploader(db, analytics.NewHTTPTransport(cfg.AnalyticsURL, hc), uploadInterval, logger)
}

func provideSink(db *store.DB, b *bus.Bus, up *analytics.Uploader, logger *zap.Logger) *analytics.Sink {
	var k analytics.Kicker
	if up != nil {
		k = up
	}
	return analytics.NewSink(db, b, k, logger)
}

func provideRecorder(b *bus.Bus) analytics.Recorder {
	return analytics.NewBusRecorder(b)
}

func provideReachability(cfg *config.Config, logger *zap.Logger) netx.Reachability {
	d, err := netx.ForURL(cfg.AuthURL)
	if err != nil {
		logger.Warn("reachability check disabled", zap.Error(err))
		return netx.Always(true)
	}
	return d
}

func provideOpener(logger *zap.Logger) opener.Opener {
	return opener.NewSystem(logger)
}

func provideLanguage(cfg *config.Config) Language {
	return Language(locale.QueryLanguage(locale.Detect(cfg.Locale)))
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, db *store.DB, sink *analytics.Sink, up *analytics.Uploader, logger *zap.Logger) {
	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			sink.Start(ctx)
			if up != nil {
				up.Start(ctx)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sink.Stop()
			if up != nil {
				up.Stop()
				if _, err := up.Flush(ctx); err != nil {
					logger.Warn("final analytics upload failed", zap.Error(err))
				}
			}
			if cancel != nil {
				cancel()
			}
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("portal stopped")
			_ = logger.Sync()
			return nil
		},
	})
}

// Open starts Core without a UI and returns its services, for the CLI. The
// returned stop function runs the shutdown hooks.
func Open(ctx context.Context, p Params) (Services, func(context.Context) error, error) {
	var s Services
	app := fx.New(
		Core(p),
		fx.NopLogger,
		fx.Invoke(func(got Services) { s = got }),
	)
	if err := app.Err(); err != nil {
		return Services{}, nil, err
	}
	if err := app.Start(ctx); err != nil {
		return Services{}, nil, err
	}
	return s, app.Stop, nil
}

func provideTUI(p Params, s Services) *tui.App {
	return tui.NewApp(tui.Deps{
		Profile:    p.Profile,
		Config:     s.Config,
		Prefs:      s.Prefs,
		Provider:   s.Auth,
		Recorder:   s.Recorder,
		Reach:      s.Reach,
		Searcher:   s.Search,
		Thumbnails: s.Thumbnails,
		Amenities:  s.Amenities,
		Maps:       s.Maps,
		Opener:     s.Opener,
		Bus:        s.Bus,
		Logger:     s.Logger,
		Language:   string(s.Language),
	})
}

// runTUI starts the terminal UI after every worker is up and stops the fx
// app when the UI exits.
func runTUI(lc fx.Lifecycle, sd fx.Shutdowner, ui *tui.App, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := ui.Run(); err != nil {
					logger.Error("tui exited", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			ui.Stop()
			return nil
		},
	})
}
