// Package watch runs the long-lived side of setupsync: a recursive
// filesystem subscription on the setups root, a suppression gate that
// keeps the mirror engine's own writes from being reprocessed, and the
// loop wiring events through classification into mirror passes.
//
// # Event flow
//
// One goroutine (owned by Watcher) consumes raw fsnotify events,
// translates them into Events and buffers them on a channel. The loop
// is the single consumer of that channel and handles events inline, so
// event handling is fully serialized.
//
// # Self-suppression
//
// Every mirror pass writes files, and each write produces new events.
// The loop wraps each pass in Gate.Protect: the gate pauses dispatch,
// runs the pass, sleeps one drain delay so the backend finishes queuing
// the interim events, then discards the watcher's buffer before
// resuming. Without this the process would feed on its own output.
//
//	loop.Run(ctx)        // blocks until ctx is cancelled
//
// # Shutdown
//
// Cancelling the context passed to Run stops the subscription and joins
// the watcher goroutine. An in-flight mirror pass is never interrupted.
package watch
