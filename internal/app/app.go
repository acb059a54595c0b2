package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	engine "blockpath/engine"
	"blockpath/engine/grid"
	servernet "blockpath/engine/internal/net"
	"blockpath/engine/internal/net/ws"
	"blockpath/engine/internal/observability"
	"blockpath/engine/logging"
	loggingSinks "blockpath/engine/logging/sinks"
	"blockpath/engine/nav"
	"blockpath/engine/telemetry"
	"blockpath/engine/worlddef"
)

type Config struct {
	Addr          string
	WorldPath     string
	Watch         bool
	LogJSONPath   string
	Logger        telemetry.Logger
	Engine        engine.Config
	Observability observability.Config
}

// Run wires the engine, world document, logging router and debug endpoints
// together and serves until the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	if raw := os.Getenv("BLOCKPATH_ENABLE_PPROF"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Observability.EnablePprof = value
		} else {
			telemetryLogger.Printf("invalid BLOCKPATH_ENABLE_PPROF=%q: %v", raw, err)
		}
	}

	logConfig := logging.DefaultConfig()
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)},
	}
	if cfg.LogJSONPath != "" {
		file, err := os.OpenFile(cfg.LogJSONPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open json log: %w", err)
		}
		defer file.Close()
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
		namedSinks = append(namedSinks, logging.NamedSink{
			Name: "json",
			Sink: loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval),
		})
	}

	router := logging.NewRouter(nil, logConfig, namedSinks)
	defer func() {
		if cerr := router.Close(context.Background()); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	world, err := worlddef.Load(cfg.WorldPath)
	if err != nil {
		return err
	}

	metrics := logging.NewMetrics()
	broadcaster := ws.NewBroadcaster(telemetryLogger)
	defer broadcaster.Close()

	svc := &service{broadcaster: broadcaster}
	svc.world.Store(world)
	svc.engine = engine.New(cfg.Engine,
		engine.WithPublisher(router),
		engine.WithMetrics(telemetry.WrapMetrics(metrics)),
		engine.WithTrace(broadcaster.Trace),
	)

	if cfg.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("watch world: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(cfg.WorldPath); err != nil {
			return fmt.Errorf("watch world: %w", err)
		}
		go svc.watchWorld(ctx, watcher, cfg.WorldPath, telemetryLogger)
	}

	handler := servernet.NewHTTPHandler(svc, broadcaster.Handle, servernet.HTTPHandlerConfig{
		Logger:        telemetryLogger,
		Observability: cfg.Observability,
		EngineConfig:  svc.engine.Config(),
		Metrics:       metrics,
		RouterStats:   router.Stats,
		TraceClients:  broadcaster.ClientCount,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	telemetryLogger.Printf("pathserver listening on %s (world %s, %d cells)", cfg.Addr, world.Name(), world.Size())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("pathserver failed: %w", err)
	}
	return nil
}

type service struct {
	engine      *engine.Engine
	world       atomic.Pointer[worlddef.World]
	broadcaster *ws.Broadcaster
}

func (s *service) FindPath(start, goal grid.Vec3) ([]grid.Vec3, bool) {
	world := s.world.Load()
	evaluator := s.engine.NewGroundEvaluator(world.Query(), true, false)
	path, ok := s.engine.FindPath(start, goal, evaluator)
	if !ok {
		s.broadcaster.Announce(map[string]any{"type": "result", "found": false})
		return nil, false
	}
	waypoints := path.Waypoints()
	s.broadcaster.Announce(map[string]any{
		"type":      "result",
		"found":     true,
		"waypoints": waypoints,
	})
	return waypoints, true
}

func (s *service) CacheStats() nav.CacheStats {
	return s.engine.CacheStats()
}

func (s *service) ClearCache() {
	s.engine.ClearCache()
}

func (s *service) WorldName() string {
	return s.world.Load().Name()
}

// watchWorld reloads the world document when the file changes. A reload
// invalidates every cached classification, so the node cache is cleared.
func (s *service) watchWorld(ctx context.Context, watcher *fsnotify.Watcher, path string, logger telemetry.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			world, err := worlddef.Load(path)
			if err != nil {
				logger.Printf("world reload failed: %v", err)
				continue
			}
			s.world.Store(world)
			s.engine.ClearCache()
			logger.Printf("world reloaded: %s (%d cells)", world.Name(), world.Size())
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Printf("world watcher error: %v", err)
		}
	}
}
