package server

import (
	"context"
	"net"
	"testing"
	"time"

	"growatt-proxy/internal/config"
)

func TestServeAcceptsAndSessionDoneClearsIndex(t *testing.T) {
	upstreamLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen upstream: %v", err)
	}
	defer upstreamLn.Close()
	go func() {
		for {
			c, err := upstreamLn.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				buf := make([]byte, 1024)
				for {
					_, err := c.Read(buf)
					if err != nil {
						c.Close()
						return
					}
				}
			}(c)
		}
	}()

	upAddr := upstreamLn.Addr().(*net.TCPAddr)
	cfg := &config.Config{
		ListenAddress:   "127.0.0.1",
		ListenPort:      0,
		UpstreamAddress: "127.0.0.1",
		UpstreamPort:    upAddr.Port,
		Control:         config.ControlConfig{ListenAddress: "127.0.0.1", AdminPort: 0},
	}

	s := New(cfg, nil, nil, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s.listener = ln
	cfg.ListenPort = ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.handle(ctx, conn)
		}
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(s.ListSessions()) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(s.ListSessions()) != 1 {
		t.Fatalf("expected one live session, got %d", len(s.ListSessions()))
	}

	conn.Close()

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(s.ListSessions()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected session to be cleared from index after client close")
}
