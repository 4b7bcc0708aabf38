package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agenticum/agenticum/internal/logging"
	"github.com/agenticum/agenticum/internal/memorybank"
	"github.com/agenticum/agenticum/internal/nodes"
	"github.com/agenticum/agenticum/internal/observability"
	"github.com/agenticum/agenticum/internal/orchestrator"
	genaiadapter "github.com/agenticum/agenticum/pkg/adapters/genai"
	"github.com/agenticum/agenticum/pkg/adapters/memory"
	redisadapter "github.com/agenticum/agenticum/pkg/adapters/redis"
	"github.com/agenticum/agenticum/pkg/ports"
)

// App is the fully wired engine plus the adapters the commands expose.
type App struct {
	Engine     *orchestrator.Engine
	Dispatcher *orchestrator.Dispatcher
	Evaluator  *orchestrator.Evaluator
	Store      ports.SessionStore
	Blobs      ports.BlobStore
	Registry   *prometheus.Registry
	Logger     *slog.Logger

	closers []func() error
}

// Close releases the app's resources, last-added first.
func (a *App) Close() {
	a.Dispatcher.Close()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", "error", err)
		}
	}
}

// NewApp builds the engine from configuration: Redis-backed storage
// when an address is configured, Gemini-backed generation when an API
// key is present, in-process fallbacks otherwise.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	logger := logging.New(parseLevel(cfg.LogLevel))
	if cfg.LogFormat == "json" {
		logger = logging.NewJSON(parseLevel(cfg.LogLevel))
	}

	app := &App{Logger: logger}

	var store ports.SessionStore
	var bank ports.MemoryBank
	if cfg.RedisAddr != "" {
		redisStore := redisadapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		app.closers = append(app.closers, redisStore.Close)
		store = redisStore
		bank = redisadapter.NewMemoryBank(redisStore.Client())
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		store = memory.NewStore()
		bank = memory.NewMemoryBank()
		logger.Info("using in-memory session store")
	}
	app.Store = store
	app.Blobs = memory.NewBlobStore()

	var text ports.TextGenerator
	var media ports.MediaGenerator
	if cfg.GeminiAPIKey != "" {
		var opts []genaiadapter.Option
		if cfg.TextModel != "" {
			opts = append(opts, genaiadapter.WithTextModel(cfg.TextModel))
		}
		client, err := genaiadapter.New(ctx, cfg.GeminiAPIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini: %w", err)
		}
		text, media = client, client
		logger.Info("using gemini generation")
	} else {
		offline := NewOfflineGenerator()
		text, media = offline, offline
		logger.Warn("GEMINI_API_KEY not set, using offline canned generation")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(registry)
	app.Registry = registry

	executor := nodes.NewExecutor(store, logger, metrics)
	nodeRegistry := nodes.NewRegistry(
		nodes.NewStrategist(text, store),
		nodes.NewAuditor(text, store),
		nodes.NewVideoDirector(text, media, app.Blobs, store),
		nodes.NewDesignArchitect(text, media, app.Blobs, store),
	)

	app.Engine = orchestrator.New(store, orchestrator.NewPlanner(text, logger), nodeRegistry, executor,
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(metrics),
		orchestrator.WithEnricher(memorybank.NewEnricher(bank, logger)),
	)
	app.Dispatcher = orchestrator.NewDispatcher(app.Engine, cfg.ResumeWorkers, cfg.ResumeQueueSize, logger)
	app.Evaluator = orchestrator.NewEvaluator(text)
	return app, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
