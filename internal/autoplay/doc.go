// Package autoplay owns radio mode: the decision of when a related-track
// discovery runs and what happens with its outcome.
//
// # Controller
//
// [Controller] holds the process-lifetime radio state:
//
//   - the enabled flag, flipped only by [Controller.Toggle]
//   - the last-played cursor, the seed and exclusion filter for discovery
//   - a single-flight guard keeping at most one discovery run active
//
// [Controller.OnQueueEnd] is the entry point the playback engine fires when
// its queue drains. Preconditions are checked in order (mode on, cursor set,
// engine running, not busy, not throttled) and each failure is a silent
// no-op that still returns an explicit [Skip] reason for callers and tests.
//
// On success the controller writes the winner's title into the shared
// session table, appends the URL to the play queue, advances the cursor, and
// notifies the user. On failure it emits one warning notification and
// changes nothing.
//
// # Serialization
//
// Discovery outcomes arrive on the runner's I/O goroutine, which must not
// touch playback state directly. [Loop] is the single-threaded dispatch
// queue all shared-state mutation funnels through; the controller re-posts
// every outcome onto it before acting.
//
// # Throttling
//
// A [rate.Limiter] bounds how often queue-end triggers may spawn the
// external tool. This is the only concession to a hung or misbehaving
// discovery tool; there is no per-run timeout.
package autoplay
