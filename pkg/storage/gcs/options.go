package gcs

import "go.uber.org/zap"

// Option is a functional option for the gcs store
type Option func(*gcs)

// Logger injects a logging facility into gcs operations
func Logger(logger *zap.Logger) Option {
	return func(g *gcs) {
		if logger != nil {
			g.l = logger
		}
	}
}
