package ed

import (
	"runtime"
	"sync"
	"weak"
)

// attached maps weak object pointers to their registries. The key does not keep
// an object alive; entries are dropped by a cleanup once the object is
// collected. Handlers stored in a registry are strong references, so a handler
// capturing its object pins that object and its entry.
var attached struct {
	sync.Mutex
	m map[any]*Registry
}

// Of returns the Registry associated with the object p points to, creating it
// on first use. Every call with the same pointer returns the same Registry for
// as long as the object is alive.
//
// Of is meant for types that cannot embed a Registry. Distinct zero-size values
// may share an address, and therefore a registry.
//
// The registry is released with the object only if no registered handler
// references the object. Handlers should reach it through their target, as in
// target.(Attached[T]).Value(), rather than capturing p.
func Of[T any](p *T) *Registry {
	if p == nil {
		panic("ed: Of called with a nil pointer")
	}
	key := weak.Make(p)

	attached.Lock()
	defer attached.Unlock()
	if r, ok := attached.m[key]; ok {
		return r
	}
	if attached.m == nil {
		attached.m = map[any]*Registry{}
	}
	r := new(Registry)
	attached.m[key] = r
	runtime.AddCleanup(p, detach, any(key))
	return r
}

func detach(key any) {
	attached.Lock()
	defer attached.Unlock()
	delete(attached.m, key)
}

// Attached is a Source backed by the registry Of associates with a pointer.
type Attached[T any] struct {
	p *T
}

// Attach makes p usable as a Source without modifying *T. Attaching the same
// pointer twice yields equal sources sharing one registry.
//
// A handler that captures p, or the returned Attached, keeps the object alive
// for as long as it stays registered. See Of.
func Attach[T any](p *T) Attached[T] {
	if p == nil {
		panic("ed: Attach called with a nil pointer")
	}
	return Attached[T]{p: p}
}

func (a Attached[T]) Events() *Registry {
	return Of(a.p)
}

// Value returns the attached pointer.
func (a Attached[T]) Value() *T {
	return a.p
}
