package observer

import (
	"runtime"
	"sync"
)

// trackingContext is the evaluation context of one goroutine.
type trackingContext struct {
	// target is the subscriber currently collecting dependencies.
	// nil means reads register with nobody.
	target Subscriber

	// stack holds the targets that were active before each PushTarget.
	stack []Subscriber
}

// trackingContexts stores per-goroutine evaluation contexts.
var trackingContexts sync.Map

// getGoroutineID returns the id of the calling goroutine, parsed from the
// "goroutine <id> " header of its stack trace.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// lookupTrackingContext returns the context for the calling goroutine
// without creating one.
func lookupTrackingContext() *trackingContext {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*trackingContext)
	}
	return nil
}

// CurrentTarget returns the subscriber currently collecting dependencies on
// this goroutine, or nil.
func CurrentTarget() Subscriber {
	ctx := lookupTrackingContext()
	if ctx == nil {
		return nil
	}
	return ctx.target
}

// TargetDepth returns how many PushTarget calls are currently unbalanced on
// this goroutine.
func TargetDepth() int {
	ctx := lookupTrackingContext()
	if ctx == nil {
		return 0
	}
	return len(ctx.stack)
}

// PushTarget makes s the current target, remembering the previous one.
// A nil s starts an untracked section.
//
// Every PushTarget must be paired with exactly one PopTarget. Prefer
// WithTarget, which restores the previous target even if fn panics.
func PushTarget(s Subscriber) {
	gid := getGoroutineID()
	var ctx *trackingContext
	if v, ok := trackingContexts.Load(gid); ok {
		ctx = v.(*trackingContext)
	} else {
		ctx = &trackingContext{}
		trackingContexts.Store(gid, ctx)
	}
	ctx.stack = append(ctx.stack, ctx.target)
	ctx.target = s
}

// PopTarget restores the target that was active before the matching
// PushTarget. It panics when there is nothing to pop.
func PopTarget() {
	gid := getGoroutineID()
	v, ok := trackingContexts.Load(gid)
	if !ok || len(v.(*trackingContext).stack) == 0 {
		panic("observer: PopTarget without matching PushTarget")
	}
	ctx := v.(*trackingContext)

	last := len(ctx.stack) - 1
	ctx.target = ctx.stack[last]
	ctx.stack[last] = nil
	ctx.stack = ctx.stack[:last]

	// Balanced again; drop the context so exited goroutines don't leak.
	if last == 0 && ctx.target == nil {
		trackingContexts.Delete(gid)
	}
}

// WithTarget runs fn with s as the current target.
func WithTarget(s Subscriber, fn func()) {
	PushTarget(s)
	defer PopTarget()
	fn()
}

// Untracked runs fn without collecting dependencies.
//
// Example:
//
//	observer.Untracked(func() {
//	    // Reading here won't subscribe the current watcher
//	    log.Println(state.Get("count"))
//	})
func Untracked(fn func()) {
	WithTarget(nil, fn)
}
