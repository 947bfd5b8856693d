package ed

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/require"
)

// widget stands in for a type that cannot embed a Registry.
type widget struct {
	name string
	_    [64]byte
}

func isAttached(key weak.Pointer[widget]) bool {
	attached.Lock()
	defer attached.Unlock()
	_, ok := attached.m[key]
	return ok
}

func TestOfSameObject(t *testing.T) {
	w := &widget{name: "a"}
	require.Same(t, Of(w), Of(w))
}

func TestOfDistinctObjects(t *testing.T) {
	w1, w2 := &widget{name: "a"}, &widget{name: "a"}
	require.NotSame(t, Of(w1), Of(w2))
}

func TestOfNil(t *testing.T) {
	require.Panics(t, func() { Of[widget](nil) })
	require.Panics(t, func() { Attach[widget](nil) })
}

func TestAttach(t *testing.T) {
	w := &widget{name: "a"}
	var x atomic.Int32
	var got *widget

	On(Attach(w), "closed", func(target Source) {
		got = target.(Attached[widget]).Value()
		x.Add(1)
	})

	// a second Attach shares the first one's registry
	src := Attach(w)
	require.Equal(t, Attach(w), src)
	Emit(src, "closed")

	require.Equal(t, int32(1), x.Load())
	require.Same(t, w, got)
}

func TestAttachIsolation(t *testing.T) {
	w1, w2 := &widget{name: "a"}, &widget{name: "b"}
	var x atomic.Int32

	On(Attach(w1), "closed", func(Source) { x.Add(1) })
	Emit(Attach(w2), "closed")
	require.Equal(t, int32(0), x.Load())
}

func TestAttachedRegistryReleased(t *testing.T) {
	var key weak.Pointer[widget]

	func() {
		w := &widget{name: "short lived"}
		On(Attach(w), "closed", func(Source) {})
		key = weak.Make(w)
		require.True(t, isAttached(key))
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return !isAttached(key)
	}, 5*time.Second, 10*time.Millisecond)
}

func TestAttachedReleasedWithTargetHandler(t *testing.T) {
	var key weak.Pointer[widget]
	var got atomic.Value

	func() {
		w := &widget{name: "via target"}
		On(Attach(w), "closed", func(target Source) {
			got.Store(target.(Attached[widget]).Value().name)
		})
		Emit(Attach(w), "closed")
		key = weak.Make(w)
	}()
	require.Equal(t, "via target", got.Load())

	require.Eventually(t, func() bool {
		runtime.GC()
		return !isAttached(key)
	}, 5*time.Second, 10*time.Millisecond)
	require.Nil(t, key.Value())
}

func TestUnregisterAfterAttachedReleased(t *testing.T) {
	var key weak.Pointer[widget]
	var unregister func()

	func() {
		w := &widget{name: "gone"}
		unregister = On(Attach(w), "closed", func(Source) {})
		key = weak.Make(w)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return !isAttached(key)
	}, 5*time.Second, 10*time.Millisecond)

	require.NotPanics(t, unregister)
	require.NotPanics(t, unregister)
}
