package logging

import (
	"context"
	"time"
)

type EventType string

// Event types emitted by the engine.
const (
	EventSearchStarted   EventType = "search.started"
	EventSearchCompleted EventType = "search.completed"
	EventSearchFailed    EventType = "search.failed"
	EventInputRejected   EventType = "search.input_rejected"
	EventCacheEvicted    EventType = "cache.evicted"
	EventCacheCleared    EventType = "cache.cleared"
)

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

const (
	CategorySearch = "search"
	CategoryCache  = "cache"
	CategorySystem = "system"
)

// Event is one structured log record.
type Event struct {
	Type     EventType      `json:"type"`
	Time     time.Time      `json:"time"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	SearchID string         `json:"searchId,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// PublisherFunc adapts a function into a Publisher.
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// NopPublisher returns a Publisher that discards everything.
func NopPublisher() Publisher {
	return nopPublisher{}
}

// WithFields wraps a publisher so every event carries the given extra
// fields unless the event already set them.
func WithFields(next Publisher, fields map[string]any) Publisher {
	if next == nil || len(fields) == 0 {
		return next
	}
	return &fieldPublisher{next: next, fields: fields}
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	event = cloneEvent(event)
	if event.Extra == nil {
		event.Extra = make(map[string]any, len(p.fields))
	}
	for k, v := range p.fields {
		if _, exists := event.Extra[k]; !exists {
			event.Extra[k] = v
		}
	}
	p.next.Publish(ctx, event)
}

func cloneEvent(event Event) Event {
	cloned := event
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}
