// Package discovery implements the related-track discovery pipeline behind radio mode.
//
// # Pipeline
//
// One discovery run flows through three stages:
//
//  1. [Runner.Start] : Spawns the external metadata tool (yt-dlp) with a
//     search query seeded by the just-played URL, streams its stdout into an
//     in-memory accumulator, and waits for exit. Nothing is parsed while the
//     process is alive.
//  2. [ParseCandidate] : Decodes one line of tool output into a [Candidate].
//     Garbage lines are routine and rejected silently, never escalated.
//  3. [Select] : Filters out the seed URL and picks one winner uniformly at
//     random among the first three survivors.
//
// # Lifecycle
//
// A run moves Idle → Spawning → Streaming → Completed, or short-circuits to
// SpawnFailed when the tool cannot be launched. Every run terminates in
// exactly one call to its completion callback, on the runner's wait
// goroutine. Callers that own shared state must re-dispatch the outcome onto
// their own serialized context before mutating anything (see autoplay.Loop).
//
// # Error Handling
//
// Terminal failures map to sentinels from the shared package:
//   - [shared.ErrDiscoverySpawn] : tool missing or not executable
//   - [shared.ErrDiscoveryTool] : tool ran but exited nonzero
//   - [shared.ErrNoCandidates] : output held nothing usable after filtering
//
// None of these are fatal to the host process, and the runner never retries;
// retry policy belongs to the caller.
//
// There is no timeout: a hung tool holds its run open indefinitely. The
// autoplay controller bounds spawn frequency with a rate limiter, but a
// stuck process is a known limitation, not handled here.
package discovery
