// Package repositories provides the persistence layer for discovery results.
//
// [DiscoveryLogRepository] records every related track radio mode queues,
// keyed by the seed it was discovered from. The log backs the
// `history discovered` command and future ranking work.
package repositories
