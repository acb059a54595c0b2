package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"blockpath/engine/grid"
	"blockpath/engine/logging"
	"blockpath/engine/nav"
	"blockpath/engine/telemetry"
)

// Vec3 is re-exported so most callers only import this package.
type Vec3 = grid.Vec3

// Engine owns a node cache and runs bounded searches against it. Construct
// one per logical owner; there is no package-level instance. Searches are
// expected to be issued one at a time, the way a simulation loop would.
type Engine struct {
	cfg       Config
	cache     *nav.NodeCache
	publisher logging.Publisher
	metrics   telemetry.Metrics
	trace     nav.TraceFunc
	searchSeq atomic.Uint64
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithPublisher routes engine events into the given publisher.
func WithPublisher(p logging.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithMetrics wires the counter registry the engine reports into.
func WithMetrics(m telemetry.Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithTrace installs a hook receiving every frontier expansion. Used by the
// debug visualizers; the hook runs inline with the search loop.
func WithTrace(fn nav.TraceFunc) Option {
	return func(e *Engine) {
		e.trace = fn
	}
}

// New constructs an engine with the given configuration.
func New(cfg Config, opts ...Option) *Engine {
	cfg = cfg.normalized()
	e := &Engine{
		cfg:       cfg,
		cache:     nav.NewNodeCache(cfg.CacheCapacity),
		publisher: logging.NopPublisher(),
		metrics:   telemetry.NopMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// NewGroundEvaluator builds a walking-agent evaluator bound to this engine's
// node cache.
func (e *Engine) NewGroundEvaluator(query nav.WorldQuery, openDoors, breakBlocks bool) *nav.GroundEvaluator {
	return nav.NewGroundEvaluator(e.cache, query, nav.Capabilities{
		OpenDoors:   openDoors,
		BreakBlocks: breakBlocks,
		MaxFall:     e.cfg.MaxFall,
		MaxStepUp:   e.cfg.MaxStepUp,
		MaxStepDown: e.cfg.MaxStepDown,
	})
}

// resolveRadius is how far FindPath scans for a substitute when an exact
// endpoint is not directly reachable.
const resolveRadius = 1

// FindPath searches for a route between two world positions using the given
// evaluator. The second return is false when no path was found for any
// reason: unreachable endpoints, an exhausted frontier, or an exceeded
// budget. The reasons are distinguished in the event stream, not in the
// return value.
func (e *Engine) FindPath(start, goal Vec3, ev nav.Evaluator) (*nav.Path, bool) {
	ctx := context.Background()
	id := fmt.Sprintf("s%d", e.searchSeq.Add(1))

	if !grid.Finite(start) || !grid.Finite(goal) {
		e.reject(ctx, id, "non-finite coordinates")
		return nil, false
	}
	startCell := grid.FromWorld(start)
	goalCell := grid.FromWorld(goal)
	if !startCell.InRange() || !goalCell.InRange() {
		e.reject(ctx, id, "coordinates out of range")
		return nil, false
	}

	if setter, ok := ev.(interface{ SetOrigin(grid.Coord) }); ok {
		setter.SetOrigin(startCell)
	}

	startNode := e.resolve(ev, startCell)
	goalNode := e.resolve(ev, goalCell)

	e.publisher.Publish(ctx, logging.Event{
		Type:     logging.EventSearchStarted,
		Severity: logging.SeverityDebug,
		Category: logging.CategorySearch,
		SearchID: id,
		Payload: map[string]any{
			"start": startCell.Key(),
			"goal":  goalCell.Key(),
		},
	})

	evictionsBefore := e.cache.Stats().Evictions

	result := nav.Search(startNode, goalNode, ev, nav.SearchConfig{
		MaxIterations:    e.cfg.MaxIterations,
		Timeout:          e.cfg.Timeout,
		ExplorationBonus: e.cfg.ExplorationBonus,
	}, e.trace)

	e.metrics.Add("search.total", 1)
	e.metrics.Add("search.expanded", uint64(result.Expanded))
	stats := e.cache.Stats()
	e.metrics.Store("cache.size", uint64(stats.Size))
	if evicted := stats.Evictions - evictionsBefore; evicted > 0 {
		e.metrics.Add("cache.evicted", evicted)
		e.publisher.Publish(ctx, logging.Event{
			Type:     logging.EventCacheEvicted,
			Severity: logging.SeverityInfo,
			Category: logging.CategoryCache,
			SearchID: id,
			Payload: map[string]any{
				"evicted": evicted,
				"size":    stats.Size,
			},
		})
	}

	if result.Status != nav.StatusFound {
		e.metrics.Add("search.failed", 1)
		e.publisher.Publish(ctx, logging.Event{
			Type:     logging.EventSearchFailed,
			Severity: logging.SeverityInfo,
			Category: logging.CategorySearch,
			SearchID: id,
			Payload: map[string]any{
				"reason":   result.Status.String(),
				"expanded": result.Expanded,
				"elapsed":  result.Elapsed.String(),
			},
		})
		return nil, false
	}

	path := nav.BuildPath(result.Route, e.cfg.SmoothLookahead)
	e.publisher.Publish(ctx, logging.Event{
		Type:     logging.EventSearchCompleted,
		Severity: logging.SeverityDebug,
		Category: logging.CategorySearch,
		SearchID: id,
		Payload: map[string]any{
			"waypoints": path.Remaining(),
			"cost":      result.Cost,
			"expanded":  result.Expanded,
			"elapsed":   result.Elapsed.String(),
		},
	})
	return path, true
}

// resolve returns the node for a cell, falling back to the nearest passable
// cell in a small radius when the exact one is not reachable.
func (e *Engine) resolve(ev nav.Evaluator, c grid.Coord) *nav.Node {
	node := ev.NearestReachable(c.X, c.Y, c.Z, 0)
	if node != nil {
		return node
	}
	return ev.NearestReachable(c.X, c.Y, c.Z, resolveRadius)
}

func (e *Engine) reject(ctx context.Context, id, reason string) {
	e.metrics.Add("search.rejected", 1)
	e.publisher.Publish(ctx, logging.Event{
		Type:     logging.EventInputRejected,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySearch,
		SearchID: id,
		Payload:  map[string]any{"reason": reason},
	})
}

// CacheStats snapshots the node cache counters.
func (e *Engine) CacheStats() nav.CacheStats {
	return e.cache.Stats()
}

// ClearCache drops every cached node and resets the counters.
func (e *Engine) ClearCache() {
	e.cache.Clear()
	e.publisher.Publish(context.Background(), logging.Event{
		Type:     logging.EventCacheCleared,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCache,
	})
}
