package ed

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

var idseq atomic.Uint64

// Handler is called with the target passed to Fire. By convention the target
// is the source that fired the event.
type Handler func(target Source)

// Registry holds the live handler registrations of one event source, grouped
// by event type. The zero value is ready to use, and embedding a Registry in a
// struct makes a pointer to that struct a Source.
//
// A Registry must not be copied after first use.
type Registry struct {
	l sync.RWMutex

	listeners map[string]map[uint64]Handler

	log zerolog.Logger
}

// Option configures a Registry built with New.
type Option func(*Registry)

// WithLogger sets the logger used for registration and handler failure
// diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// New returns an empty Registry configured with opts.
func New(opts ...Option) *Registry {
	r := new(Registry)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetLogger replaces the registry's logger. Useful for registries that are
// embedded rather than built with New.
func (r *Registry) SetLogger(log zerolog.Logger) {
	r.l.Lock()
	defer r.l.Unlock()
	r.log = log
}

// Events returns r, so that any type embedding a Registry satisfies Source.
func (r *Registry) Events() *Registry {
	return r
}

func (r *Registry) init() {
	if r.listeners == nil {
		r.listeners = map[string]map[uint64]Handler{}
	}
}

// On registers handler for eventType and returns a function that removes
// exactly this registration. Registering the same handler twice yields two
// independent registrations.
//
// The returned function may be called any number of times, from any
// goroutine, including from within a handler while the registry is firing.
func (r *Registry) On(eventType string, handler Handler) (unregister func()) {
	id := idseq.Add(1)

	r.l.Lock()
	r.init()
	hs, ok := r.listeners[eventType]
	if !ok {
		hs = map[uint64]Handler{}
		r.listeners[eventType] = hs
	}
	hs[id] = handler
	log := r.log
	r.l.Unlock()

	log.Debug().
		Str("event_type", eventType).
		Uint64("handler_id", id).
		Msg("handler registered")

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(eventType, id) })
	}
}

func (r *Registry) remove(eventType string, id uint64) {
	r.l.Lock()
	hs := r.listeners[eventType]
	_, found := hs[id]
	if found {
		delete(hs, id)
		if len(hs) == 0 {
			delete(r.listeners, eventType)
		}
	}
	log := r.log
	r.l.Unlock()

	if found {
		log.Debug().
			Str("event_type", eventType).
			Uint64("handler_id", id).
			Msg("handler unregistered")
	}
}

// snapshot copies the handlers registered for eventType so they can be called
// without holding the lock.
func (r *Registry) snapshot(eventType string) ([]Handler, zerolog.Logger) {
	r.l.RLock()
	defer r.l.RUnlock()

	hs := r.listeners[eventType]
	if len(hs) == 0 {
		return nil, r.log
	}
	out := make([]Handler, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out, r.log
}

// Fire calls every handler registered for eventType with target, on the
// calling goroutine, in no particular order. Firing a type nobody listens to
// does nothing.
//
// The set of handlers is fixed when Fire starts: handlers registered during
// the pass are not called until the next Fire, and handlers unregistered
// during the pass are still called in it.
//
// A panicking handler does not stop the pass. Once every handler has been
// attempted, Fire panics with an error wrapping each failure as a *PanicError.
// Use TryFire to receive that error instead.
func (r *Registry) Fire(eventType string, target Source) {
	if err := r.TryFire(eventType, target); err != nil {
		panic(err)
	}
}

// TryFire behaves like Fire but returns handler panics as an error. The
// returned error, if any, contains one *PanicError per failed handler.
func (r *Registry) TryFire(eventType string, target Source) error {
	handlers, log := r.snapshot(eventType)
	if len(handlers) == 0 {
		return nil
	}

	var result *multierror.Error
	for _, h := range handlers {
		if err := call(eventType, h, target); err != nil {
			log.Warn().
				Err(err).
				Str("event_type", eventType).
				Msg("event handler panicked")
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Len returns the number of live registrations for eventType.
func (r *Registry) Len(eventType string) int {
	r.l.RLock()
	defer r.l.RUnlock()
	return len(r.listeners[eventType])
}

// Listening reports whether anything is registered for eventType. Callers can
// use it to skip preparing a target nobody will see.
func (r *Registry) Listening(eventType string) bool {
	return r.Len(eventType) > 0
}

// Types returns the event types that currently have at least one handler,
// sorted.
func (r *Registry) Types() []string {
	r.l.RLock()
	defer r.l.RUnlock()
	types := make([]string, 0, len(r.listeners))
	for t := range r.listeners {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
