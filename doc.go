// Package engine provides bounded A*-style pathfinding over a 3D block
// grid. The world is consumed through a single query capability ("what
// material occupies this cell") and traversal rules are pluggable per
// agent type through the evaluator abstraction.
//
// The search is bounded by an iteration cap and a wall-clock budget and its
// heuristic is deliberately inflated above Manhattan distance: in cluttered
// terrain it favors finding a workable detour quickly over returning the
// strictly cheapest path.
package engine
