package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cakeledger/internal/cache"
	"github.com/roach88/cakeledger/internal/codec"
	"github.com/roach88/cakeledger/internal/config"
	"github.com/roach88/cakeledger/internal/feed"
	"github.com/roach88/cakeledger/internal/images"
	"github.com/roach88/cakeledger/internal/remote"
	"github.com/roach88/cakeledger/internal/store"
	"github.com/roach88/cakeledger/internal/validate"
)

// closeTimeout bounds how long a command waits for queued pushes on exit.
const closeTimeout = 30 * time.Second

// App is everything a command needs, wired from configuration.
type App struct {
	Config    *config.Config
	Store     *store.Store
	Codec     *codec.Codec
	Validator *validate.Validator
	Images    *images.Resolver
	Logger    *slog.Logger
	Out       *OutputFormatter

	feed   *feed.Publisher
	detach func()
}

// openApp loads configuration, opens the cache, connects the remote
// store and runs the store's startup sequence.
func openApp(cmd *cobra.Command, opts *RootOptions) (*App, error) {
	ctx := commandContext(cmd)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	logger := newLogger(cfg.Log, opts.Verbose, cmd.ErrOrStderr())

	c, err := cache.Open(ctx, cache.Config{
		Driver: cfg.Cache.Driver,
		Path:   cfg.Cache.Path,
		DSN:    cfg.Cache.DSN,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open local cache", err)
	}

	rowCodec := newCodec(cfg.Remote)
	storeOpts := []store.Option{
		store.WithCache(c),
		store.WithCodec(rowCodec),
		store.WithLogger(logger),
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock))
	}

	transport, err := newTransport(cfg.Remote, opts, logger)
	if err != nil {
		c.Close()
		return nil, WrapExitError(ExitCommandError, "failed to configure remote store", err)
	}
	if transport != nil {
		storeOpts = append(storeOpts, store.WithRemote(transport))
	}

	validator, err := validate.New()
	if err != nil {
		c.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load validation schema", err)
	}

	resolver := &images.Resolver{MaxInline: cfg.Images.MaxInlineBytes}
	if cfg.Images.S3.Bucket != "" {
		uploader, err := images.NewS3Uploader(ctx, images.S3Config{
			Bucket:        cfg.Images.S3.Bucket,
			Region:        cfg.Images.S3.Region,
			Prefix:        cfg.Images.S3.Prefix,
			PublicBaseURL: cfg.Images.S3.PublicBaseURL,
		})
		if err != nil {
			c.Close()
			return nil, WrapExitError(ExitCommandError, "failed to configure image uploads", err)
		}
		resolver.Uploader = uploader
	}

	st := store.New(storeOpts...)
	st.Load(ctx)

	app := &App{
		Config:    cfg,
		Store:     st,
		Codec:     rowCodec,
		Validator: validator,
		Images:    resolver,
		Logger:    logger,
		Out:       &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}

	if cfg.Kafka.Enabled {
		pub, err := feed.NewKafkaPublisher(strings.Join(cfg.Kafka.Brokers, ","), cfg.Kafka.Topic, logger)
		if err != nil {
			// The feed is a mirror; commands still work without it.
			logger.Warn("change feed disabled", "error", err)
		} else {
			app.feed = pub
			app.detach = pub.Attach(st)
		}
	}

	return app, nil
}

// Close drains queued pushes and releases the cache and the feed.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := a.Store.Close(ctx)
	if a.detach != nil {
		a.detach()
	}
	if a.feed != nil {
		if ferr := a.feed.Close(); ferr != nil {
			a.Logger.Warn("closing change feed", "error", ferr)
		}
	}
	return err
}

func newCodec(cfg config.Remote) *codec.Codec {
	mode := codec.ImageFlag
	if cfg.ImageMode == "inline" {
		mode = codec.ImageInline
	}
	return codec.New(codec.WithImagePolicy(codec.ImagePolicy{Mode: mode, CellLimit: cfg.ImageCellLimit}))
}

// newTransport returns nil when the remote store is disabled or not
// configured; the store then runs on local data and logs why.
func newTransport(cfg config.Remote, opts *RootOptions, logger *slog.Logger) (remote.Transport, error) {
	if opts.Transport != nil {
		return opts.Transport, nil
	}
	if opts.Offline {
		return nil, nil
	}
	t, err := remote.NewHTTPTransport(remote.Config{
		Endpoint:      cfg.Endpoint,
		SpreadsheetID: cfg.SpreadsheetID,
		Timeout:       cfg.Timeout,
	}, remote.WithLogger(logger))
	if errors.Is(err, remote.ErrNotConfigured) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func newLogger(cfg config.Log, verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withApp opens the app, runs fn, and closes the app. Errors from fn are
// reported through the output formatter before being returned.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, app *App) error) error {
	app, err := openApp(cmd, opts)
	if err != nil {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		_ = out.Error(err)
		return markReported(err)
	}

	runErr := fn(commandContext(cmd), app)
	if runErr != nil {
		_ = app.Out.Error(runErr)
		runErr = markReported(runErr)
	}
	if err := app.Close(); err != nil && runErr == nil {
		return WrapExitError(ExitFailure, "failed to shut down cleanly", err)
	}
	return runErr
}
