// Package ed implements a small event dispatcher that lets any value act as an
// event source. Handlers are registered against named event types and are
// called, synchronously, whenever an event of that type is fired.
//
// # Event sources
//
// A type becomes a Source by embedding a Registry:
//
//	type Button struct {
//	    ed.Registry
//	    Label string
//	}
//
// Handlers receive the target of the event, which is usually the source that
// fired it:
//
//	b := &Button{Label: "ok"}
//	unregister := b.On("tap", func(target ed.Source) {
//	    fmt.Println("tapped", target.(*Button).Label)
//	})
//	ed.Emit(b, "tap") // tapped ok
//
// Calling the function returned by On removes that one registration. It is
// safe to call more than once.
//
//	unregister()
//	ed.Emit(b, "tap") // nothing happens
//
// # Types you do not own
//
// Values whose type cannot embed a Registry can still fire events through
// Attach, which keeps a registry per object without the registry table itself
// keeping the object alive:
//
//	src := ed.Attach(conn)
//	ed.On(src, "closed", onClosed)
//	ed.Emit(src, "closed")
//
// Registered handlers are ordinary strong references. A handler that captures
// conn keeps it, and its registry, alive until the handler is unregistered, so
// handlers should reach the object through their target instead:
//
//	ed.On(src, "closed", func(target ed.Source) {
//	    c := target.(ed.Attached[Conn]).Value()
//	    log.Println("closed", c.RemoteAddr())
//	})
//
// # Failures
//
// A handler that panics does not prevent the other handlers for the same event
// from running. Fire re-panics afterwards with an error describing every
// failure; TryFire returns that error instead.
package ed
