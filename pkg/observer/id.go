package observer

import "sync/atomic"

// uid is the source of ids for Deps and Observers.
var uid uint64

// nextID returns the next unique id. Ids increase monotonically and are
// never reused.
func nextID() uint64 {
	return atomic.AddUint64(&uid, 1)
}
