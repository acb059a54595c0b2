package nav

import (
	"container/heap"
	"time"

	"blockpath/engine/grid"
)

// Status reports how a search terminated. Everything except StatusFound is
// surfaced to callers as a uniform "no path"; the distinction exists for
// diagnostics only.
type Status int

const (
	StatusFound Status = iota
	StatusUnreachable
	StatusExhausted
	StatusIterationLimit
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusUnreachable:
		return "unreachable"
	case StatusExhausted:
		return "exhausted"
	case StatusIterationLimit:
		return "iteration-limit"
	case StatusTimedOut:
		return "timed-out"
	}
	return "unknown"
}

// SearchConfig bounds a single search invocation.
type SearchConfig struct {
	MaxIterations    int
	Timeout          time.Duration
	ExplorationBonus float64
}

// Result is the outcome of one search. Route holds the raw cell chain from
// start to goal when Status is StatusFound.
type Result struct {
	Status     Status
	Route      []grid.Coord
	Cost       float64
	Expanded   int
	Iterations int
	Elapsed    time.Duration
}

// TraceEvent describes one frontier expansion for debug streaming.
type TraceEvent struct {
	Seq   int     `json:"seq"`
	Coord string  `json:"coord"`
	G     float64 `json:"g"`
	F     float64 `json:"f"`
	Goal  bool    `json:"goal"`
}

// TraceFunc receives expansion events during a search. It must be cheap; it
// runs inline with the search loop.
type TraceFunc func(TraceEvent)

type frontierItem struct {
	node  *Node
	g     float64
	f     float64
	index int
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool { return f[i].f < f[j].f }

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(*f)
	*f = append(*f, item)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*f = old[:n-1]
	return item
}

// heuristic estimates remaining cost as Manhattan distance inflated by the
// exploration bonus. The inflation makes the estimate non-admissible on
// purpose: in cluttered terrain it trades strict optimality for finding a
// workable detour inside the budget.
func heuristic(a, b grid.Coord, bonus float64) float64 {
	return grid.Manhattan(a, b) * (1 + bonus)
}

// Search runs the bounded A* loop from start to goal over the evaluator's
// graph. All working state (frontier, closed set, score and predecessor
// maps) is private to the invocation and discarded on return.
func Search(start, goal *Node, ev Evaluator, cfg SearchConfig, trace TraceFunc) Result {
	began := time.Now()

	if start == nil || goal == nil || !ev.CanReach(start) || !ev.CanReach(goal) {
		return Result{Status: StatusUnreachable, Elapsed: time.Since(began)}
	}

	open := &frontier{}
	heap.Init(open)
	heap.Push(open, &frontierItem{
		node: start,
		g:    0,
		f:    heuristic(start.Coord, goal.Coord, cfg.ExplorationBonus),
	})

	gScore := map[grid.Coord]float64{start.Coord: 0}
	cameFrom := make(map[grid.Coord]grid.Coord)
	closed := make(map[grid.Coord]struct{})

	iterations := 0
	expanded := 0

	for open.Len() > 0 {
		if iterations >= cfg.MaxIterations {
			return Result{Status: StatusIterationLimit, Expanded: expanded, Iterations: iterations, Elapsed: time.Since(began)}
		}
		if cfg.Timeout > 0 && time.Since(began) > cfg.Timeout {
			return Result{Status: StatusTimedOut, Expanded: expanded, Iterations: iterations, Elapsed: time.Since(began)}
		}
		iterations++

		current := heap.Pop(open).(*frontierItem)
		at := current.node.Coord
		if _, seen := closed[at]; seen {
			continue
		}
		closed[at] = struct{}{}
		expanded++

		if trace != nil {
			trace(TraceEvent{
				Seq:   expanded,
				Coord: current.node.Key(),
				G:     current.g,
				F:     current.f,
				Goal:  at == goal.Coord,
			})
		}

		if at == goal.Coord {
			return Result{
				Status:     StatusFound,
				Route:      assembleRoute(cameFrom, goal.Coord, start.Coord),
				Cost:       current.g,
				Expanded:   expanded,
				Iterations: iterations,
				Elapsed:    time.Since(began),
			}
		}

		for _, edge := range ev.Neighbors(current.node) {
			next := edge.To.Coord
			if _, seen := closed[next]; seen {
				continue
			}
			tentative := current.g + edge.Cost + ev.ExtraCost(edge.To)
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = at
			heap.Push(open, &frontierItem{
				node: edge.To,
				g:    tentative,
				f:    tentative + heuristic(next, goal.Coord, cfg.ExplorationBonus),
			})
		}
	}

	return Result{Status: StatusExhausted, Expanded: expanded, Iterations: iterations, Elapsed: time.Since(began)}
}

// assembleRoute walks the predecessor map from goal back to start and
// reverses the chain into start-to-goal order.
func assembleRoute(cameFrom map[grid.Coord]grid.Coord, goal, start grid.Coord) []grid.Coord {
	route := []grid.Coord{goal}
	current := goal
	for current != start {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		route = append(route, prev)
		current = prev
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}
