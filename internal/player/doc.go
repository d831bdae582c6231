// Package player wraps mpv as the playback engine.
//
// [MPV] owns the mpv process and its JSON IPC socket. It exposes the three
// surfaces the rest of driftplay consumes:
//
//   - the queue command surface ([MPV.SendCommand], [MPV.IsRunning]),
//     satisfying autoplay.Engine
//   - the notification channel ([MPV.Notify]), delivering fire-and-forget
//     OSD messages plus a structured log line
//   - playback events: file-loaded fires the track-start hook (cursor and
//     history updates), and the idle event after playback fires the
//     queue-end hook that triggers radio mode
//
// [IPC] is the newline-delimited JSON protocol client: requests carry a
// request_id and are matched to replies; unsolicited lines are events.
// Event callbacks run on the IPC read goroutine and must not issue IPC
// requests themselves; [MPV] hops onto a fresh goroutine before fetching
// properties.
//
// [Session] is the shared mutable title table keyed by URL. Radio mode
// writes a discovered title before queueing its URL; when the file loads,
// the stored title is applied via the force-media-title property.
package player
