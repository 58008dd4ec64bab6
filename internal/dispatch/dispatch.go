package dispatch

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// defaultPoolWeight bounds concurrent synchronous-plugin invocations
// so a slow plugin can stall at most this many packets' worth of
// observation work, never the proxied byte stream itself.
const defaultPoolWeight = 8

// Dispatcher fans a Record out to every registered sink. The plugin
// set is immutable after construction (spec §4.7, §9): no lock is
// required to read it.
type Dispatcher struct {
	sync  []SyncPlugin
	async []AsyncPlugin
	mqtt  *MQTTPublisher

	pool *semaphore.Weighted
	log  *log.Logger
}

// New builds a Dispatcher over an already-resolved plugin set.
// Dynamic plugin discovery on disk is an external, out-of-scope
// concern (spec §1); the core only ever sees the resolved slices.
func New(sync []SyncPlugin, async []AsyncPlugin, mqtt *MQTTPublisher, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Dispatcher{
		sync:  sync,
		async: async,
		mqtt:  mqtt,
		pool:  semaphore.NewWeighted(defaultPoolWeight),
		log:   logger,
	}
}

// Dispatch fans frame/record out to every sink. It never blocks the
// caller: each synchronous plugin invocation waits for a worker-pool
// slot on its own goroutine, and asynchronous plugins and MQTT publish
// run as independent goroutines. Sink failures are logged and never
// propagated (spec §7, SinkFailure).
func (d *Dispatcher) Dispatch(ctx context.Context, frame []byte, record Record) {
	for _, p := range d.sync {
		p := p
		go func() {
			if err := d.pool.Acquire(ctx, 1); err != nil {
				d.log.WithError(err).Warn("dispatch: worker pool acquire failed, dropping sync plugin invocation")
				return
			}
			defer d.pool.Release(1)
			defer d.recoverPlugin("sync")
			p.Data(frame, record, d.log)
		}()
	}

	for _, p := range d.async {
		p := p
		go func() {
			defer d.recoverPlugin("async")
			p.Data(frame, record, d.log)
		}()
	}

	if d.mqtt != nil {
		go d.mqtt.Publish(record)
	}
}

func (d *Dispatcher) recoverPlugin(kind string) {
	if r := recover(); r != nil {
		d.log.WithField("kind", kind).Errorf("dispatch: plugin panicked: %v", r)
	}
}
