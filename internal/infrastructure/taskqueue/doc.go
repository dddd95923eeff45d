// Package taskqueue runs deferred work on a bounded pool of goroutines. It is the
// scheduler behind the subtle crypto engine.
package taskqueue
