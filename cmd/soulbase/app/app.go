// Package app provides the application context and dependency management
// for the soulbase CLI. It centralizes configuration, logging, and the
// registry instance behind a single App type that commands depend on.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/xoundbyte/soulbase"
	"github.com/xoundbyte/soulbase/internal/resolver"
	"github.com/xoundbyte/soulbase/internal/ticket"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

// App represents the soulbase application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Registry instance (lazy-initialized, singleton)
	mu       sync.Mutex
	registry *soulbase.Registry
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, &errors.ConfigError{Component: "app", Message: "loading configuration", Err: err}
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Registry returns the registry instance, creating it lazily from the
// application configuration.
func (a *App) Registry() (*soulbase.Registry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registry != nil {
		return a.registry, nil
	}

	opts := []soulbase.Option{
		soulbase.WithRecordsDir(a.config.RecordsDir),
		soulbase.WithArtifactPath(a.config.ArtifactPath),
	}

	if a.config.GitHubRepository != "" {
		ticketOpts := []ticket.Option{}
		if a.config.GitHubToken != "" {
			ticketOpts = append(ticketOpts, ticket.WithToken(a.config.GitHubToken))
		}
		opts = append(opts, soulbase.WithTickets(ticket.New(a.config.GitHubRepository, ticketOpts...)))
	}

	if a.config.ResolverBaseURL != "" {
		opts = append(opts, soulbase.WithResolver(resolver.New(resolver.WithBaseURL(a.config.ResolverBaseURL))))
	}

	reg, err := soulbase.New(opts...)
	if err != nil {
		return nil, err
	}
	a.registry = reg
	return reg, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRegistry sets a custom registry instance (useful for testing).
func WithRegistry(reg *soulbase.Registry) Option {
	return func(a *App) error {
		a.registry = reg
		return nil
	}
}
