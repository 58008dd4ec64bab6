// Package control implements the local-only line-oriented command
// socket (spec §4.6): list/read/set against live sessions.
package control

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"growatt-proxy/internal/builder"
	"growatt-proxy/internal/server"
	"growatt-proxy/internal/session"
)

const idleTimeout = 30 * time.Second

// SessionLookup is the subset of *server.Server the control channel
// needs, narrowed to ease testing.
type SessionLookup interface {
	ListSessions() []server.SessionInfo
	Get(serial string) (*session.Session, bool)
}

// Channel is the control socket's server side.
type Channel struct {
	lookup   SessionLookup
	listener net.Listener
	log      *log.Logger
}

// New builds a Channel bound to the given lookup and logger.
func New(lookup SessionLookup, logger *log.Logger) *Channel {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Channel{lookup: lookup, log: logger}
}

// Serve binds addr (normally 127.0.0.1:15279) and handles clients
// until ctx is cancelled or the listener is closed.
func (c *Channel) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("control: listen %s: %w", addr, err)
	}
	c.listener = ln
	c.log.Infof("control endpoint listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}
		go c.handleClient(ctx, conn)
	}
}

// Stop closes the listener.
func (c *Channel) Stop() error {
	if c.listener != nil {
		return c.listener.Close()
	}
	return nil
}

func (c *Channel) handleClient(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	for {
		conn.SetReadDeadline(time.Now().Add(idleTimeout))
		line, err := reader.ReadString('\n')
		if err != nil {
			if line == "" {
				return
			}
		}

		body := strings.TrimSpace(line)
		if body == "" {
			continue
		}

		reply := c.dispatchCommand(ctx, body)
		if _, werr := conn.Write(reply); werr != nil {
			return
		}
	}
}

func (c *Channel) dispatchCommand(ctx context.Context, body string) []byte {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil
	}
	verb := strings.ToLower(fields[0])

	switch verb {
	case "list":
		return c.list()
	case "read":
		return c.readRegister(ctx, fields)
	case "set":
		return c.setRegister(ctx, fields)
	default:
		return []byte("")
	}
}

func (c *Channel) list() []byte {
	var b strings.Builder
	for _, info := range c.lookup.ListSessions() {
		fmt.Fprintf(&b, "%s | %s | %s\n", info.Peer, info.DataloggerSN, info.InverterSerial)
	}
	return []byte(b.String())
}

func (c *Channel) readRegister(ctx context.Context, fields []string) []byte {
	if len(fields) != 3 {
		return []byte("")
	}
	serial := fields[1]
	reg, err := strconv.Atoi(fields[2])
	if err != nil {
		return []byte("")
	}

	sess, ok := c.lookup.Get(serial)
	if !ok {
		return nil
	}

	frame, err := builder.ReadHolding(sess.ProtocolVersion(), sess.LoggerSerial(), uint16(reg))
	if err != nil {
		c.log.WithError(err).Warn("control: build read-holding failed")
		return []byte("")
	}

	resp, err := sess.Inject(ctx, frame)
	if err != nil {
		c.log.WithError(err).Warn("control: read injection failed")
		return []byte("")
	}

	r, v := parseRegValue(resp)
	return []byte(fmt.Sprintf("Reg: %d Value: %d\n", r, v))
}

func (c *Channel) setRegister(ctx context.Context, fields []string) []byte {
	if len(fields) != 4 {
		return []byte("")
	}
	serial := fields[1]
	addr, err1 := strconv.Atoi(fields[2])
	value, err2 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil {
		return []byte("")
	}

	sess, ok := c.lookup.Get(serial)
	if !ok {
		return nil
	}

	frame, err := builder.SetHolding(sess.ProtocolVersion(), sess.LoggerSerial(), uint16(addr), uint16(value))
	if err != nil {
		c.log.WithError(err).Warn("control: build set-holding failed")
		return []byte("")
	}

	resp, err := sess.Inject(ctx, frame)
	if err != nil {
		c.log.WithError(err).Warn("control: set injection failed")
		return []byte("")
	}

	r, v := parseRegValue(resp)
	return []byte(fmt.Sprintf("SET Reg: %d Value: %d\n", r, v))
}

// parseRegValue reads the register id and value from the last six and
// last four bytes before the CRC, each big-endian u16 (spec §4.6).
// decrypted is the full decrypted frame, CRC included as its final two
// bytes, so reg sits at [-6:-4] and value at [-4:-2].
func parseRegValue(decrypted []byte) (reg, value int) {
	n := len(decrypted)
	if n < 6 {
		return 0, 0
	}
	reg = int(decrypted[n-6])<<8 | int(decrypted[n-5])
	value = int(decrypted[n-4])<<8 | int(decrypted[n-3])
	return reg, value
}
