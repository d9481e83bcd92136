// Package app wires the client together and runs the interactive shell.
// It configures logging, session storage, the API clients, the view router
// and the page controllers, and restores a persisted session on start.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/patric-chuzhbe/linkdash/internal/apiclient"
	"github.com/patric-chuzhbe/linkdash/internal/authservice"
	"github.com/patric-chuzhbe/linkdash/internal/config"
	"github.com/patric-chuzhbe/linkdash/internal/controller"
	"github.com/patric-chuzhbe/linkdash/internal/dashboard"
	"github.com/patric-chuzhbe/linkdash/internal/db/jsondb"
	"github.com/patric-chuzhbe/linkdash/internal/db/memorystorage"
	"github.com/patric-chuzhbe/linkdash/internal/db/sqlitedb"
	"github.com/patric-chuzhbe/linkdash/internal/db/storage"
	"github.com/patric-chuzhbe/linkdash/internal/logger"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/notify"
	"github.com/patric-chuzhbe/linkdash/internal/router"
	"github.com/patric-chuzhbe/linkdash/internal/session"
	"github.com/patric-chuzhbe/linkdash/internal/urlservice"
)

// App holds everything one client process needs.
type App struct {
	cfg        *config.Config
	db         storage.Storage
	store      *session.Store
	router     *router.Router
	controller *controller.Controller
	dashboard  *dashboard.Flow
	console    *console

	lastRendered string
}

type Option func(*options)

type options struct {
	in  io.Reader
	out io.Writer
}

func WithInput(in io.Reader) Option {
	return func(o *options) {
		o.in = in
	}
}

func WithOutput(out io.Writer) Option {
	return func(o *options) {
		o.out = out
	}
}

// New initializes a new instance of App by:
// - initializing logger
// - selecting and opening the session storage
// - building the API clients around the session token
// - setting up the router, controllers and the shell console
func New(cfg *config.Config, optionsProto ...Option) (*App, error) {
	opts := &options{
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, protoOption := range optionsProto {
		protoOption(opts)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return nil, err
	}

	db, err := getStorageByType(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		db:      db,
		store:   session.New(db),
		console: newConsole(opts.in, opts.out),
	}

	app.store.Subscribe(func(s session.State) {
		logger.Log.Debugln(
			"session transition",
			"authenticated", s.IsAuthenticated,
			"loading", s.IsLoading,
			"error", s.Error,
		)
	})

	client := apiclient.New(cfg.APIBaseURL, cfg.RequestTimeout, app.store)
	notifier := notify.Fanout{notify.NewConsole(opts.out), notify.Log{}}

	app.router = router.New(app.store, router.DefaultRoutes())
	app.controller = controller.New(app.store, authservice.New(client), notifier, app.router)
	app.dashboard = dashboard.New(urlservice.New(client), app.console, notifier, cfg.APIBaseURL)

	return app, nil
}

// Run restores the persisted session and serves shell commands until the
// input ends or `quit` is entered. An interrupt cancels the command in
// progress.
func (a *App) Run() error {
	a.start(context.Background())

	for {
		a.console.prompt(a.promptText())

		line, ok := a.console.readLine()
		if !ok {
			a.console.println()
			return a.console.err()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		quit := a.Execute(ctx, line)
		stop()

		if quit {
			return nil
		}
	}
}

func (a *App) start(ctx context.Context) {
	state := session.Hydrate(ctx, a.store)
	a.console.printf("linkdash, a client for %s. Type `help` for commands.\n", a.cfg.APIBaseURL)

	if state.IsAuthenticated {
		a.console.printf("Welcome back, %s.\n", state.User.Name)
		a.navigate(ctx, router.PathDashboard)
		return
	}

	a.navigate(ctx, router.PathHome)
}

// Close finalizes resources used by App such as storage and logging.
func (a *App) Close() {
	if err := a.db.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "Session storage close error:", err)
	}

	if err := logger.Sync(); err != nil {
		fmt.Fprintln(os.Stderr, "Logger sync error:", err)
	}
}

// Session returns the current session snapshot.
func (a *App) Session() session.State {
	return a.store.Snapshot()
}

// Location returns the current view.
func (a *App) Location() router.Location {
	return a.router.Current()
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.SessionDB != "" {
		return models.StorageTypeSQLite
	}

	if cfg.SessionFile != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypeSQLite:
		return sqlitedb.New(context.Background(), cfg.SessionDB)

	case models.StorageTypeFile:
		return jsondb.New(cfg.SessionFile)
	}

	return memorystorage.New()
}
