package net

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"blockpath/engine/grid"
	"blockpath/engine/internal/observability"
	"blockpath/engine/logging"
	"blockpath/engine/nav"
	"blockpath/engine/telemetry"
)

// PathService is the slice of engine behaviour the debug endpoints need.
type PathService interface {
	FindPath(start, goal grid.Vec3) ([]grid.Vec3, bool)
	CacheStats() nav.CacheStats
	ClearCache()
	WorldName() string
}

type HTTPHandlerConfig struct {
	Logger        telemetry.Logger
	Observability observability.Config
	EngineConfig  any
	Metrics       *logging.Metrics
	RouterStats   func() logging.RouterStats
	TraceClients  func() int
}

type pathResponse struct {
	Found     bool        `json:"found"`
	Waypoints []grid.Vec3 `json:"waypoints,omitempty"`
}

// NewHTTPHandler mounts the diagnostics and search endpoints. wsHandler, if
// non-nil, serves the trace stream on /ws.
func NewHTTPHandler(svc PathService, wsHandler nethttp.HandlerFunc, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := map[string]any{
			"status":     "ok",
			"serverTime": time.Now().UnixMilli(),
			"world":      svc.WorldName(),
			"cache":      svc.CacheStats(),
		}
		if cfg.EngineConfig != nil {
			payload["engine"] = cfg.EngineConfig
		}
		if cfg.Metrics != nil {
			counters, gauges := cfg.Metrics.Snapshot()
			payload["counters"] = counters
			payload["gauges"] = gauges
		}
		if cfg.RouterStats != nil {
			payload["logging"] = cfg.RouterStats()
		}
		if cfg.TraceClients != nil {
			payload["traceClients"] = cfg.TraceClients()
		}
		writeJSON(w, payload, logger)
	})

	mux.HandleFunc("/path", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start, ok := parseVec(r, "sx", "sy", "sz")
		if !ok {
			httpError(w, "invalid start coordinates", nethttp.StatusBadRequest)
			return
		}
		goal, ok := parseVec(r, "gx", "gy", "gz")
		if !ok {
			httpError(w, "invalid goal coordinates", nethttp.StatusBadRequest)
			return
		}
		waypoints, found := svc.FindPath(start, goal)
		writeJSON(w, pathResponse{Found: found, Waypoints: waypoints}, logger)
	})

	mux.HandleFunc("/cache/clear", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		svc.ClearCache()
		writeJSON(w, map[string]any{"cleared": true}, logger)
	})

	if wsHandler != nil {
		mux.HandleFunc("/ws", wsHandler)
	}

	if cfg.Observability.EnablePprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	return mux
}

func parseVec(r *nethttp.Request, xKey, yKey, zKey string) (grid.Vec3, bool) {
	var v grid.Vec3
	for _, part := range []struct {
		key string
		dst *float64
	}{
		{xKey, &v.X},
		{yKey, &v.Y},
		{zKey, &v.Z},
	} {
		raw := r.URL.Query().Get(part.key)
		if raw == "" {
			return grid.Vec3{}, false
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return grid.Vec3{}, false
		}
		*part.dst = value
	}
	return v, true
}

func writeJSON(w nethttp.ResponseWriter, payload any, logger telemetry.Logger) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode response: %v", err)
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, message string, code int) {
	nethttp.Error(w, message, code)
}
