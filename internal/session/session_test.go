package session

import (
	"context"
	"net"
	"testing"
	"time"

	"growatt-proxy/internal/config"
)

func pipeUpstream(conn net.Conn) func(ctx context.Context) (net.Conn, error) {
	return func(ctx context.Context) (net.Conn, error) {
		return conn, nil
	}
}

func newTestConfig() *config.Config {
	return &config.Config{}
}

func TestStartFailsWhenUpstreamUnreachable(t *testing.T) {
	clServer, clClient := net.Pipe()
	defer clClient.Close()

	done := make(chan *Session, 1)
	s := New(clServer, newTestConfig(), nil, nil, func(ctx context.Context) (net.Conn, error) {
		return nil, errUnreachable{}
	}, func(sess *Session) { done <- sess }, nil)

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error when upstream is unreachable")
	}

	select {
	case sess := <-done:
		if sess.State() != Terminal {
			t.Fatalf("expected Terminal state, got %v", sess.State())
		}
	case <-time.After(time.Second):
		t.Fatal("onDone was never called")
	}
}

type errUnreachable struct{}

func (errUnreachable) Error() string { return "connection refused" }

func TestForwardsBytesBothDirections(t *testing.T) {
	clServer, clClient := net.Pipe()
	upServer, upClient := net.Pipe()
	defer clClient.Close()
	defer upClient.Close()

	done := make(chan *Session, 1)
	s := New(clServer, newTestConfig(), nil, nil, pipeUpstream(upServer), func(sess *Session) { done <- sess }, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State() != Running {
		t.Fatalf("expected Running, got %v", s.State())
	}

	go clClient.Write([]byte("hello-upstream"))
	buf := make([]byte, 64)
	upClient.SetReadDeadline(time.Now().Add(time.Second))
	n, err := upClient.Read(buf)
	if err != nil {
		t.Fatalf("upstream read: %v", err)
	}
	if string(buf[:n]) != "hello-upstream" {
		t.Fatalf("unexpected forwarded bytes: %q", buf[:n])
	}

	go upClient.Write([]byte("hello-datalogger"))
	clClient.SetReadDeadline(time.Now().Add(time.Second))
	n, err = clClient.Read(buf)
	if err != nil {
		t.Fatalf("datalogger read: %v", err)
	}
	if string(buf[:n]) != "hello-datalogger" {
		t.Fatalf("unexpected forwarded bytes: %q", buf[:n])
	}

	clClient.Close()
	select {
	case sess := <-done:
		if sess.State() != Terminal {
			t.Fatalf("expected Terminal after cleanup, got %v", sess.State())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session never reached terminal after client close")
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	clServer, clClient := net.Pipe()
	upServer, upClient := net.Pipe()
	defer clClient.Close()
	defer upClient.Close()

	calls := 0
	s := New(clServer, newTestConfig(), nil, nil, pipeUpstream(upServer), func(sess *Session) { calls++ }, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	s.cleanup(true, false)
	s.cleanup(true, false)
	s.cleanup(false, true)

	if calls != 1 {
		t.Fatalf("expected onDone called exactly once, got %d", calls)
	}
}
