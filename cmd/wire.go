package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/bnema/fin/internal/adapters/api"
	chainstore "github.com/bnema/fin/internal/adapters/storage/chain"
	filestore "github.com/bnema/fin/internal/adapters/storage/file"
	memorystore "github.com/bnema/fin/internal/adapters/storage/memory"
	passstore "github.com/bnema/fin/internal/adapters/storage/pass"
	"github.com/bnema/fin/internal/adapters/transport"
	"github.com/bnema/fin/internal/application"
	"github.com/bnema/fin/internal/config"
	"github.com/bnema/fin/internal/logging"
	"github.com/bnema/fin/internal/loop"
	"github.com/bnema/fin/internal/metrics"
	"github.com/bnema/fin/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	logClose io.Closer
	store    ports.KeyValueStore
	registry *prometheus.Registry
	dispatch *dispatcher
	client   *api.Client
	session  *application.SessionService
}

func (a *app) wire(ctx context.Context, opts *rootOptions, logToFile bool) error {
	cfg, err := config.Load(viper.New(), opts.configPath)
	if err != nil {
		return err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if logToFile && logOpts.File == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		logOpts.File = filepath.Join(dir, "fin.log")
	}
	logger, logClose, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("wire logger: %w", err)
	}

	store, err := newSessionStore(cfg.Session)
	if err != nil {
		_ = logClose.Close()
		return fmt.Errorf("wire session store: %w", err)
	}

	jar, err := transport.NewPersistentJar(ctx, store, transport.DefaultCookieKey, cfg.API.BaseURL, logger)
	if err != nil {
		_ = logClose.Close()
		return fmt.Errorf("wire cookie jar: %w", err)
	}

	registry := prometheus.NewRegistry()
	dispatch := &dispatcher{}
	httpTransport, err := transport.New(transport.Options{
		Jar:       jar,
		Scheduler: dispatch,
		Timeout:   cfg.API.Timeout,
		Metrics:   metrics.NewTransport(registry),
		Logger:    logger,
	})
	if err != nil {
		_ = logClose.Close()
		return fmt.Errorf("wire transport: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, httpTransport, logger)
	cache := application.NewSessionCache(store, cfg.Session.Key, logger)

	*a = app{
		cfg:      cfg,
		log:      logger,
		logClose: logClose,
		store:    store,
		registry: registry,
		dispatch: dispatch,
		client:   client,
		session:  application.NewSessionService(cache, client.Users(), logger),
	}
	return nil
}

func newSessionStore(cfg config.SessionConfig) (ports.KeyValueStore, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return filestore.NewStore(cfg.Dir), nil
	case config.BackendPass:
		return passstore.NewStore(cfg.PassPrefix), nil
	case config.BackendChain:
		store, err := chainstore.NewPassFirstWithFileFallback(cfg.PassPrefix, cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		return memorystore.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Backend)
	}
}

func (a *app) Close() error {
	if a.logClose == nil {
		return nil
	}
	err := a.logClose.Close()
	a.logClose = nil
	return err
}

// run executes one callback-style operation on a fresh loop and returns once
// it calls done.
func (a *app) run(ctx context.Context, start func(done func())) error {
	l := loop.New()
	a.dispatch.use(l)
	return loop.Await(ctx, l, start)
}

// dispatcher forwards transport callbacks to the loop of the running
// command: a loop.Loop for one-shot commands, the UI scheduler for `fin ui`.
type dispatcher struct {
	mu     sync.Mutex
	target ports.Scheduler
}

func (d *dispatcher) use(target ports.Scheduler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.target = target
}

func (d *dispatcher) Post(fn func()) {
	d.mu.Lock()
	target := d.target
	d.mu.Unlock()

	if target == nil {
		fn()
		return
	}
	target.Post(fn)
}

// call runs op and hands back what its callback reported.
func call[T any](ctx context.Context, a *app, op func(cb func(T, error))) (T, error) {
	var (
		value T
		opErr error
	)
	err := a.run(ctx, func(done func()) {
		op(func(v T, err error) {
			value, opErr = v, err
			done()
		})
	})
	if err != nil {
		return value, err
	}
	return value, opErr
}

func callErr(ctx context.Context, a *app, op func(cb func(error))) error {
	_, err := call(ctx, a, func(cb func(struct{}, error)) {
		op(func(err error) { cb(struct{}{}, err) })
	})
	return err
}
