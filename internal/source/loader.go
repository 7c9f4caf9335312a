package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"combobox/internal/domain"
	"combobox/internal/eventbus"
)

// LoaderConfig controls paging
type LoaderConfig struct {
	PageSize int
	// FetchNextPercentage loads the next page once the highlight is this far
	// down the visible options (0 disables)
	FetchNextPercentage float64
	// FetchNextWithRemaining loads the next page once at most this many
	// positions remain below the highlight (0 disables)
	FetchNextWithRemaining int
	FetchOnStart           bool
}

// Loader feeds a select from a Source. It reloads on every filter text
// change and fetches further pages as the highlight approaches the end.
type Loader struct {
	source Source
	bus    eventbus.EventBus
	cfg    LoaderConfig

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc // cancels the in-flight fetch
	generation uint64
	query      string
	queried    bool
	page       int
	hasMore    bool
	fetching   bool
	unsubs     []func()
	wg         sync.WaitGroup
}

// NewLoader creates a loader; call Start to subscribe it to the bus
func NewLoader(src Source, bus eventbus.EventBus, cfg LoaderConfig) *Loader {
	return &Loader{
		source: src,
		bus:    bus,
		cfg:    cfg,
		ctx:    context.Background(),
	}
}

// Start subscribes to input, highlight and search events. ctx bounds every fetch.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	l.ctx = ctx
	l.unsubs = append(l.unsubs,
		l.bus.Subscribe(eventbus.EventInputChanged, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.InputChangedEvent); ok {
				l.Reset(event.Query)
			}
		}),
		l.bus.Subscribe(eventbus.EventHighlightProgress, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.HighlightProgressEvent); ok && l.shouldFetchNext(event) {
				l.FetchNext()
			}
		}),
		l.bus.Subscribe(eventbus.EventSearchRequested, func(e eventbus.DomainEvent) {
			l.Refresh()
		}),
	)
	l.mu.Unlock()

	if l.cfg.FetchOnStart {
		l.Reset("")
	}
}

// Stop unsubscribes, cancels the in-flight fetch and waits for it
func (l *Loader) Stop() {
	l.mu.Lock()
	for _, unsub := range l.unsubs {
		unsub()
	}
	l.unsubs = nil
	l.generation++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.fetching = false
	l.mu.Unlock()

	l.wg.Wait()
}

// Wait blocks until in-flight fetches finish
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Reset discards the current pages and loads the first page for query.
// A repeated query is ignored.
func (l *Loader) Reset(query string) {
	l.reset(query, false)
}

// Refresh reloads the first page of the current query
func (l *Loader) Refresh() {
	l.mu.Lock()
	query := l.query
	l.mu.Unlock()
	l.reset(query, true)
}

func (l *Loader) reset(query string, force bool) {
	l.mu.Lock()
	if !force && l.queried && query == l.query {
		l.mu.Unlock()
		return
	}
	l.query = query
	l.queried = true
	l.page = 0
	l.hasMore = false
	gen, ctx := l.begin()
	l.mu.Unlock()

	l.fetch(ctx, gen, query, 0)
}

// FetchNext loads the page after the last one. It reports false when there
// is nothing more to load or a fetch is already running.
func (l *Loader) FetchNext() bool {
	l.mu.Lock()
	if !l.queried || !l.hasMore || l.fetching {
		l.mu.Unlock()
		return false
	}
	query, page := l.query, l.page+1
	gen, ctx := l.begin()
	l.mu.Unlock()

	l.fetch(ctx, gen, query, page)
	return true
}

// HasMore reports whether another page is available
func (l *Loader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// begin starts a new generation, cancelling the previous fetch. Caller holds mu.
func (l *Loader) begin() (uint64, context.Context) {
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	ctx, cancel := context.WithCancel(l.ctx)
	l.cancel = cancel
	l.fetching = true
	return l.generation, ctx
}

func (l *Loader) shouldFetchNext(e eventbus.HighlightProgressEvent) bool {
	if !e.MenuOpen || e.Length == 0 || e.Index < 0 {
		return false
	}
	if l.cfg.FetchNextPercentage > 0 && e.Percent >= l.cfg.FetchNextPercentage {
		return true
	}
	return l.cfg.FetchNextWithRemaining > 0 && e.Remaining <= l.cfg.FetchNextWithRemaining
}

func (l *Loader) fetch(ctx context.Context, gen uint64, query string, page int) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		l.bus.Publish(eventbus.FetchStartedEvent{Query: query, Page: page})
		slog.Debug("loader: fetching", "query", query, "page", page)

		result, err := l.source.Fetch(ctx, Request{Query: query, Page: page, PageSize: l.cfg.PageSize})

		l.mu.Lock()
		if gen != l.generation {
			l.mu.Unlock()
			slog.Debug("loader: discarding stale page", "query", query, "page", page)
			return
		}
		l.fetching = false
		if l.cancel != nil {
			l.cancel()
			l.cancel = nil
		}
		// publish under mu so a newer generation's page is always queued after this one
		defer l.mu.Unlock()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			slog.Error("loader: fetch failed", "query", query, "page", page, "error", err)
			l.bus.Publish(eventbus.ErrorEvent{
				Message: fmt.Sprintf("failed to load options for %q", query),
				Err:     err,
			})
			return
		}
		l.page = page
		l.hasMore = result.HasMore

		options := result.Options
		if options == nil {
			options = []domain.Option[string]{}
		}
		l.bus.Publish(eventbus.OptionsLoadedEvent{
			Query:   query,
			Page:    page,
			Options: options,
			Reset:   page == 0,
			HasMore: result.HasMore,
		})
	}()
}
