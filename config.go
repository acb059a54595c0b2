package engine

import "time"

// Config carries the engine's tuning knobs. The zero value is not useful;
// start from DefaultConfig and override what you need.
type Config struct {
	// MaxIterations caps frontier expansions per search.
	MaxIterations int `json:"maxIterations"`

	// Timeout is the wall-clock budget per search.
	Timeout time.Duration `json:"timeout"`

	// CacheCapacity bounds the shared node cache.
	CacheCapacity int `json:"cacheCapacity"`

	// ExplorationBonus inflates the heuristic above raw Manhattan distance.
	// Higher values find detours faster at the price of path quality.
	ExplorationBonus float64 `json:"explorationBonus"`

	// MaxStepUp and MaxStepDown limit step heights for ground evaluators
	// built through the engine.
	MaxStepUp   int `json:"maxStepUp"`
	MaxStepDown int `json:"maxStepDown"`

	// MaxFall limits how far a ground agent may drop in one move.
	MaxFall int `json:"maxFall"`

	// SmoothLookahead is how many waypoints the smoothing pass may skip at
	// once.
	SmoothLookahead int `json:"smoothLookahead"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		MaxIterations:    2000,
		Timeout:          8 * time.Second,
		CacheCapacity:    10000,
		ExplorationBonus: 0.3,
		MaxStepUp:        1,
		MaxStepDown:      8,
		MaxFall:          8,
		SmoothLookahead:  4,
	}
}

// normalized fills non-positive knobs from the defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.MaxIterations <= 0 {
		c.MaxIterations = def.MaxIterations
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = def.CacheCapacity
	}
	if c.ExplorationBonus < 0 {
		c.ExplorationBonus = def.ExplorationBonus
	}
	if c.MaxStepUp <= 0 {
		c.MaxStepUp = def.MaxStepUp
	}
	if c.MaxStepDown <= 0 {
		c.MaxStepDown = def.MaxStepDown
	}
	if c.MaxFall <= 0 {
		c.MaxFall = def.MaxFall
	}
	if c.SmoothLookahead <= 0 {
		c.SmoothLookahead = def.SmoothLookahead
	}
	return c
}
