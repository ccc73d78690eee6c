package shell

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/nDmitry/wpgallery/internal/app"
	"github.com/nDmitry/wpgallery/internal/entity"
)

// Fetcher loads the posts of a collection's site. It reports failures as an
// empty list.
type Fetcher interface {
	Fetch(ctx context.Context, collection entity.PostCollection) []entity.Post
}

type envelope struct {
	msg Msg
	// Closed once msg and every fetch it triggered have been applied.
	done chan struct{}
}

// Shell processes messages one at a time and owns the single state cell.
// Fetches run concurrently and come back as ReceivePosts messages, in
// whatever order they complete.
type Shell struct {
	defaultSite string
	perPage     int
	fetcher     Fetcher
	logger      *slog.Logger
	inbox       chan envelope
	initCmd     Cmd
	state       atomic.Pointer[entity.State]

	mu        sync.Mutex
	listeners []chan entity.State
	closed    bool
}

func New(fetcher Fetcher, defaultSite string, perPage int) *Shell {
	state, cmd := Init(defaultSite, perPage)

	s := &Shell{
		defaultSite: defaultSite,
		perPage:     perPage,
		fetcher:     fetcher,
		logger:      app.Logger(),
		inbox:       make(chan envelope, 16),
		initCmd:     cmd,
	}
	s.state.Store(&state)

	return s
}

// Run starts the initial fetch and processes messages until ctx is done.
func (s *Shell) Run(ctx context.Context) {
	s.logger.Info("Shell started", "route", s.State().Route.String())
	s.run(ctx, s.initCmd, nil)

	for {
		select {
		case <-ctx.Done():
			s.closeListeners()
			s.logger.Info("Shell stopped")
			return
		case env := <-s.inbox:
			s.apply(ctx, env)
		}
	}
}

// State returns the current state. The returned value must not be modified.
func (s *Shell) State() entity.State {
	return *s.state.Load()
}

// Send enqueues a message and waits until it, and any fetch it triggers,
// has been applied.
func (s *Shell) Send(ctx context.Context, msg Msg) error {
	done := make(chan struct{})

	select {
	case s.inbox <- envelope{msg: msg, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Navigate is Send with a LocationChanged message.
func (s *Shell) Navigate(ctx context.Context, location string) error {
	return s.Send(ctx, LocationChanged{Location: location})
}

// Preview resolves location against a fresh state and fetches synchronously.
// The shared state is left alone, so previews never move the route open
// pages are showing.
func (s *Shell) Preview(ctx context.Context, location string) entity.State {
	state, _ := Init(s.defaultSite, s.perPage)
	state, cmd := Update(state, LocationChanged{Location: location}, s.defaultSite)

	if fetch, ok := cmd.(FetchCmd); ok {
		posts := s.fetcher.Fetch(ctx, fetch.Collection)
		state, _ = Update(state, ReceivePosts{Posts: posts}, s.defaultSite)
	}

	return state
}

func (s *Shell) apply(ctx context.Context, env envelope) {
	next, cmd := Update(s.State(), env.msg, s.defaultSite)
	s.state.Store(&next)

	s.logger.Debug("Message applied",
		"message", messageName(env.msg),
		"route", next.Route.String(),
		"posts", len(next.Posts.Posts))

	s.publish(next)
	s.run(ctx, cmd, env.done)
}

func (s *Shell) run(ctx context.Context, cmd Cmd, done chan struct{}) {
	fetch, ok := cmd.(FetchCmd)

	if !ok {
		if done != nil {
			close(done)
		}
		return
	}

	go func() {
		s.logger.Info("Fetching posts", "site", fetch.Collection.Site, "per_page", fetch.Collection.PerPage)

		posts := s.fetcher.Fetch(ctx, fetch.Collection)

		select {
		case s.inbox <- envelope{msg: ReceivePosts{Posts: posts}, done: done}:
		case <-ctx.Done():
		}
	}()
}

// Subscribe returns a channel receiving the current state and then every
// new state. Slow listeners skip intermediate states but always get the
// latest one.
func (s *Shell) Subscribe() chan entity.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan entity.State, 4)

	if s.closed {
		close(ch)
		return ch
	}

	s.listeners = append(s.listeners, ch)
	ch <- s.State()

	return ch
}

// Unsubscribe removes and closes a listener channel
func (s *Shell) Unsubscribe(ch chan entity.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, listener := range s.listeners {
		if listener == ch {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			close(ch)
			break
		}
	}
}

func (s *Shell) publish(state entity.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, listener := range s.listeners {
		select {
		case listener <- state:
		default:
			// Full: drop the oldest pending state so the newest gets through.
			select {
			case <-listener:
			default:
			}
			select {
			case listener <- state:
			default:
			}
		}
	}
}

func (s *Shell) closeListeners() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, listener := range s.listeners {
		close(listener)
	}

	s.listeners = nil
	s.closed = true
}

func messageName(msg Msg) string {
	switch msg.(type) {
	case ReceivePosts:
		return "receive_posts"
	case LocationChanged:
		return "location_changed"
	default:
		return "unknown"
	}
}
