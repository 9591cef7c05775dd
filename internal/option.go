package internal

import "github.com/starford/stave/internal/namespace"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	registry *namespace.Registry
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithRegistry overrides the namespace registry (defaults to the built-in set
// plus any configured schema catalogs).
func WithRegistry(reg *namespace.Registry) Option {
	return func(a *application) {
		a.registry = reg
	}
}
