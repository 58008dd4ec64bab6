package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

type countingSyncPlugin struct{ n int32 }

func (p *countingSyncPlugin) Data(frame []byte, record Record, logger *log.Logger) {
	atomic.AddInt32(&p.n, 1)
}

type panickyPlugin struct{}

func (panickyPlugin) Data(frame []byte, record Record, logger *log.Logger) {
	panic("boom")
}

func TestDispatchFansOutToSyncPlugins(t *testing.T) {
	p1 := &countingSyncPlugin{}
	p2 := &countingSyncPlugin{}
	d := New([]SyncPlugin{p1, p2}, nil, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(context.Background(), []byte("frame"), Record{Device: "x"})
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&p1.n) == 20 && atomic.LoadInt32(&p2.n) == 20 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected both plugins invoked 20 times, got %d and %d", p1.n, p2.n)
}

func TestDispatchSurvivesPanickingPlugin(t *testing.T) {
	d := New([]SyncPlugin{panickyPlugin{}}, []AsyncPlugin{panickyPlugin{}}, nil, nil)
	d.Dispatch(context.Background(), []byte("frame"), Record{})
	time.Sleep(50 * time.Millisecond)
}
