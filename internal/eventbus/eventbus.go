package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"combobox/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventInputChanged      = domain.EventInputChanged
	EventSelectionChanged  = domain.EventSelectionChanged
	EventHighlightProgress = domain.EventHighlightProgress
	EventSearchRequested   = domain.EventSearchRequested
	EventFetchStarted      = domain.EventFetchStarted
	EventOptionsLoaded     = domain.EventOptionsLoaded
	EventError             = domain.EventError
	EventConfigLoaded      = domain.EventConfigLoaded
	EventConfigSaved       = domain.EventConfigSaved
)

// Re-export domain event types
type InputChangedEvent = domain.InputChangedEvent
type SelectionChangedEvent = domain.SelectionChangedEvent
type HighlightProgressEvent = domain.HighlightProgressEvent
type SearchRequestedEvent = domain.SearchRequestedEvent
type FetchStartedEvent = domain.FetchStartedEvent
type OptionsLoadedEvent = domain.OptionsLoadedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

// subscription delivers events to one handler in publish order. Each has
// its own worker so a slow handler never holds up the others.
type subscription struct {
	id        uint64
	eventType EventType
	handler   EventHandler

	mu       sync.Mutex
	pending  []DomainEvent
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newSubscription(id uint64, eventType EventType, handler EventHandler) *subscription {
	return &subscription{
		id:        id,
		eventType: eventType,
		handler:   handler,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

func (s *subscription) push(event DomainEvent) {
	s.mu.Lock()
	s.pending = append(s.pending, event)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// run calls the handler for queued events until the subscription stops
func (s *subscription) run() {
	for {
		select {
		case <-s.wake:
		case <-s.done:
			return
		}

		for {
			select {
			case <-s.done:
				return
			default:
			}

			s.mu.Lock()
			if len(s.pending) == 0 {
				s.mu.Unlock()
				break
			}
			event := s.pending[0]
			s.pending[0] = nil
			s.pending = s.pending[1:]
			s.mu.Unlock()

			s.deliver(event)
		}
	}
}

func (s *subscription) deliver(event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("eventbus: handler panic", "type", s.eventType, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	s.handler(event)
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]*subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus. Every subscriber sees events of its type in
// the order they were published.
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]*subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Highlight progress fires on every keystroke
	if event.Type() != EventHighlightProgress {
		slog.Debug("eventbus: publishing event", "type", event.Type())
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		slog.Warn("eventbus: channel full, dropping event", "type", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := newSubscription(b.nextID, eventType, handler)
	b.handlers[eventType] = append(b.handlers[eventType], sub)

	select {
	case <-b.quit:
		sub.stop()
	default:
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			sub.run()
		}()
	}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == sub.id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		sub.stop()
	}
}

// Close stops the dispatcher and the subscriber workers, discarding pending events
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		close(b.quit)
		for _, subs := range b.handlers {
			for _, s := range subs {
				s.stop()
			}
		}
		b.mu.Unlock()
	})
	b.wg.Wait()
}

// dispatch hands each event to the queues of its subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			for _, s := range b.handlers[event.Type()] {
				s.push(event)
			}
			b.mu.RUnlock()

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
