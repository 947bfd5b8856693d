package ed

// Source is anything that can register handlers and fire events. Embedding a
// Registry is the simplest way to implement it:
//
//	type Button struct {
//	    ed.Registry
//	}
//
// Types that cannot be modified can use Attach instead.
type Source interface {
	Events() *Registry
}

// On registers handler for eventType on s. See Registry.On.
func On(s Source, eventType string, handler Handler) (unregister func()) {
	r := s.Events()
	if r == nil {
		panic("ed: On called on a source without a registry")
	}
	return r.On(eventType, handler)
}

// Fire calls the handlers registered on s for eventType with target. See
// Registry.Fire.
func Fire(s Source, eventType string, target Source) {
	if r := s.Events(); r != nil {
		r.Fire(eventType, target)
	}
}

// TryFire is Fire returning handler panics as an error. See Registry.TryFire.
func TryFire(s Source, eventType string, target Source) error {
	if r := s.Events(); r != nil {
		return r.TryFire(eventType, target)
	}
	return nil
}

// Emit fires eventType on s with s itself as the target.
func Emit(s Source, eventType string) {
	Fire(s, eventType, s)
}
