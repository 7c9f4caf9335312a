package source

import (
	"sync"

	"combobox/internal/domain"
	"combobox/internal/eventbus"
)

func leaf(label string) domain.Option[string] {
	return domain.NewOption(label, label)
}

func testOptions() []domain.Option[string] {
	return []domain.Option[string]{
		leaf("one"),
		leaf("two"),
		leaf("three"),
		domain.NewGroup("four", "4",
			leaf("four.1"),
			leaf("four.2"),
			leaf("four.3"),
			leaf("four.4"),
		),
		leaf("five"),
	}
}

func labels(options []domain.Option[string]) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.DisplayLabel())
	}
	return out
}

// syncBus delivers events to handlers on the publishing goroutine and
// records them in order
type syncBus struct {
	mu       sync.Mutex
	events   []eventbus.DomainEvent
	handlers map[eventbus.EventType][]eventbus.EventHandler
}

func newSyncBus() *syncBus {
	return &syncBus{handlers: make(map[eventbus.EventType][]eventbus.EventHandler)}
}

func (b *syncBus) Publish(event eventbus.DomainEvent) {
	b.mu.Lock()
	b.events = append(b.events, event)
	handlers := append([]eventbus.EventHandler(nil), b.handlers[event.Type()]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

func (b *syncBus) Subscribe(eventType eventbus.EventType, handler eventbus.EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	idx := len(b.handlers[eventType]) - 1
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers[eventType][idx] = func(eventbus.DomainEvent) {}
	}
}

func (b *syncBus) Close() {}

func (b *syncBus) loaded() []eventbus.OptionsLoadedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []eventbus.OptionsLoadedEvent
	for _, e := range b.events {
		if ev, ok := e.(eventbus.OptionsLoadedEvent); ok {
			out = append(out, ev)
		}
	}
	return out
}

func (b *syncBus) errors() []eventbus.ErrorEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []eventbus.ErrorEvent
	for _, e := range b.events {
		if ev, ok := e.(eventbus.ErrorEvent); ok {
			out = append(out, ev)
		}
	}
	return out
}
