// Package appctx carries process-wide values on a command's context.
package appctx

import (
	"context"

	"github.com/vulntor/typedjob/pkg/config"
)

type key string

const configKey key = "typedjob.config.manager"

// WithConfig stores the shared config manager on context.
func WithConfig(ctx context.Context, manager *config.Manager) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey, manager)
}

// Config retrieves the shared config manager from context.
func Config(ctx context.Context) (*config.Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	mgr, ok := ctx.Value(configKey).(*config.Manager)
	return mgr, ok && mgr != nil
}

// ConfigOrDefault returns the loaded configuration, or config.DefaultConfig
// when no manager is on the context (commands run outside the root command).
func ConfigOrDefault(ctx context.Context) config.Config {
	if mgr, ok := Config(ctx); ok {
		return mgr.Get()
	}
	return config.DefaultConfig()
}
