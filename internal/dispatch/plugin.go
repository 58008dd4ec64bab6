// Package dispatch fans out structured Records to synchronous
// plugins (run on a bounded worker pool), asynchronous plugins (run
// as independent goroutines), and an optional MQTT publisher.
package dispatch

import log "github.com/sirupsen/logrus"

// Record is the structured output produced by the Extractor for a
// LiveData frame (spec §3).
type Record struct {
	Device   string                 `json:"device"`
	Time     string                 `json:"time"`
	Buffered bool                   `json:"buffered"`
	Values   map[string]interface{} `json:"values"`
}

// SyncPlugin runs off the session's reader goroutine, on the shared
// bounded worker pool. A slow plugin never stalls packet forwarding.
type SyncPlugin interface {
	Data(frame []byte, record Record, log *log.Logger)
}

// AsyncPlugin runs as an independent goroutine per invocation.
// Failures are logged, never propagated to the session.
type AsyncPlugin interface {
	Data(frame []byte, record Record, log *log.Logger)
}
