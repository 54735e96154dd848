package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dshills/tablescore/internal/config"
	"github.com/dshills/tablescore/internal/kv"
	"github.com/dshills/tablescore/internal/session"
	"github.com/dshills/tablescore/internal/storage"
)

// Exit codes.
const (
	exitGeneric     = 1
	exitNotFound    = 2
	exitBadInput    = 3
	exitPersistence = 4
	exitInvalid     = 5
)

type rootFlags struct {
	configPath string
	store      string
	data       string
	verbose    bool
}

// app bundles the resolved configuration and the stores every command uses.
type app struct {
	cfg     *config.Config
	store   kv.Store
	repo    *storage.Repository
	drafts  *storage.Drafts
	logger  *log.Logger
	verbose func(msg string, args ...any)
}

func openApp(f *rootFlags) (*app, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, exitError(exitBadInput, "failed to load config: %v", err)
	}
	if f.store != "" {
		cfg.Store.Backend = f.store
	}
	if f.data != "" {
		cfg.Store.Location = f.data
	}
	if f.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, exitError(exitBadInput, "invalid config: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "", 0)
	}

	location := cfg.StoreLocation()
	logger.Printf("Opening %s store at %s", cfg.Store.Backend, location)
	store, err := kv.Open(cfg.Store.Backend, location)
	if err != nil {
		return nil, exitError(exitPersistence, "failed to open store: %v", err)
	}

	return &app{
		cfg:     cfg,
		store:   store,
		repo:    storage.NewRepository(store, logger),
		drafts:  storage.NewDrafts(store, logger),
		logger:  logger,
		verbose: logger.Printf,
	}, nil
}

func (a *app) newSession() *session.Session {
	return session.New(a.repo, a.drafts, session.WithLogger(a.logger))
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Printf("Warning: failed to close store: %v", err)
	}
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// persistenceExit maps store failures to their exit code.
func persistenceExit(action string, err error) error {
	var we *storage.WriteError
	var re *storage.ReadError
	if errors.As(err, &we) || errors.As(err, &re) {
		return exitError(exitPersistence, "%s: %v", action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
