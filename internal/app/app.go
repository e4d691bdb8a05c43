// Package app wires the scoring service together and owns its lifecycle.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/polycopy/polyscore/internal/scoring"
	"github.com/polycopy/polyscore/internal/storage"
	"github.com/polycopy/polyscore/pkg/cache"
	"github.com/polycopy/polyscore/pkg/config"
	"github.com/polycopy/polyscore/pkg/healthprobe"
	"github.com/polycopy/polyscore/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	engine        *scoring.Engine
	storage       storage.Storage
	marketCache   cache.Cache
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Engine exposes the scoring engine for embedding callers (the one-shot
// CLI mode scores without starting the HTTP server).
func (a *App) Engine() *scoring.Engine {
	return a.engine
}
