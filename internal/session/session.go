// Package session implements the per-connection proxy pipe between a
// datalogger and the upstream cloud endpoint: byte-for-byte bidirectional
// forwarding, frame observation, and the injection/response rendezvous
// used by the control channel.
package session

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"growatt-proxy/internal/codec"
	"growatt-proxy/internal/config"
	"growatt-proxy/internal/dispatch"
	"growatt-proxy/internal/logs"
	"growatt-proxy/internal/registermap"
)

// State is the Session lifecycle state (spec §3/§4.4).
type State int

const (
	Accepted State = iota
	Running
	Draining
	Terminal
)

func (s State) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

const maxDatalen = 1 << 16

// DoneFunc is invoked exactly once, when a Session reaches Terminal, so
// the owning Server can drop it from its indices.
type DoneFunc func(s *Session)

// Session owns both halves of one datalogger's bidirectional stream.
type Session struct {
	peerAddr net.Addr
	clConn   net.Conn
	upConn   net.Conn

	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	logFactory *logs.PerDataloggerFactory
	upstream   func(ctx context.Context) (net.Conn, error)
	onDone     DoneFunc

	mu              sync.Mutex
	state           State
	loggerSerial    string
	inverterSerial  string
	deviceCode      int
	haveDeviceCode  bool
	protocolVersion uint16
	msgCount        uint64
	fwdCount        uint64
	log             *log.Logger

	pending   chan []byte // single-slot response rendezvous
	pendingMu sync.Mutex
	awaiting  bool
	closed    bool

	cancel context.CancelFunc
}

// New builds a Session in the Accepted state. upstream dials the cloud
// endpoint; it is a function rather than a fixed address so tests can
// substitute an in-process listener.
func New(clConn net.Conn, cfg *config.Config, d *dispatch.Dispatcher, lf *logs.PerDataloggerFactory, upstream func(ctx context.Context) (net.Conn, error), onDone DoneFunc, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Session{
		peerAddr:   clConn.RemoteAddr(),
		clConn:     clConn,
		cfg:        cfg,
		dispatcher: d,
		logFactory: lf,
		upstream:   upstream,
		onDone:     onDone,
		state:      Accepted,
		log:        logger,
		pending:    make(chan []byte, 1),
	}
}

// PeerAddr returns the datalogger-side remote address.
func (s *Session) PeerAddr() net.Addr { return s.peerAddr }

func (s *Session) LoggerSerial() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggerSerial
}

func (s *Session) InverterSerial() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inverterSerial
}

func (s *Session) DeviceCode() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceCode, s.haveDeviceCode
}

func (s *Session) ProtocolVersion() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.protocolVersion
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Counters() (msgs, fwds uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgCount, s.fwdCount
}

// Start opens the upstream connection and, on success, spawns the two
// reader goroutines. On failure the session goes straight to Terminal
// and the server is told to forget it.
func (s *Session) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	up, err := s.upstream(ctx)
	if err != nil {
		s.log.WithError(err).WithField("peer", s.peerAddr).Error("session: upstream unreachable")
		s.clConn.Close()
		s.transition(Terminal)
		if s.onDone != nil {
			s.onDone(s)
		}
		return fmt.Errorf("session: upstream unreachable: %w", err)
	}
	s.upConn = up
	s.transition(Running)

	go s.readClient(ctx)
	go s.readUpstream(ctx)
	return nil
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	s.state = to
	s.mu.Unlock()
}

// readClient drains the datalogger-side socket, forwards bytes upstream
// unconditionally, and then observes each chunk on the same goroutine
// once the upstream write has completed.
func (s *Session) readClient(ctx context.Context) {
	buf := make([]byte, maxDatalen)
	for {
		n, err := s.clConn.Read(buf)
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)
			s.mu.Lock()
			s.msgCount++
			s.mu.Unlock()

			if _, werr := s.upConn.Write(data); werr != nil {
				s.log.WithError(werr).Warn("session: write to upstream failed")
				s.cleanup(true, false)
				return
			}

			s.observeClientFrame(ctx, data)
		}
		if err != nil {
			if err != io.EOF {
				s.log.WithError(err).Debug("session: datalogger read ended")
			}
			s.cleanup(true, false)
			return
		}
	}
}

// readUpstream drains the cloud-side socket and forwards bytes back to
// the datalogger unconditionally.
func (s *Session) readUpstream(ctx context.Context) {
	buf := make([]byte, maxDatalen)
	for {
		n, err := s.upConn.Read(buf)
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)
			s.mu.Lock()
			s.fwdCount++
			s.mu.Unlock()

			if _, werr := s.clConn.Write(data); werr != nil {
				s.log.WithError(werr).Warn("session: write to datalogger failed")
				s.cleanup(false, true)
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				s.log.WithError(err).Debug("session: upstream read ended")
			}
			s.cleanup(false, true)
			return
		}
	}
}

// observeClientFrame parses and, when it qualifies, extracts and
// dispatches a datalogger-to-cloud frame. Observation failures are
// logged and never affect forwarding, which has already happened by
// the time this runs.
func (s *Session) observeClientFrame(ctx context.Context, data []byte) {
	raw := codec.Parse(data)
	if !raw.ValidCRC() {
		s.log.Warn("session: CRC check failed, skipping observation")
		return
	}

	if s.captureAsResponse(raw) {
		return
	}

	s.mu.Lock()
	s.protocolVersion = raw.ProtocolVersion()
	s.mu.Unlock()

	decrypted := raw.Decrypt()

	s.mu.Lock()
	firstObservation := s.loggerSerial == ""
	if firstObservation {
		s.loggerSerial = decrypted.DataloggerSerial()
	}
	if s.inverterSerial == "" {
		if inv := decrypted.InverterSerial(); inv != "" {
			s.inverterSerial = inv
		}
	}
	loggerSerial := s.loggerSerial
	s.mu.Unlock()

	if firstObservation && loggerSerial != "" && s.cfg.Logging.SeparateLogsPerDatalogger && s.logFactory != nil {
		s.mu.Lock()
		s.log = s.logFactory.For(loggerSerial)
		s.mu.Unlock()
	}

	pt := raw.PacketType()
	dataBearing := pt == codec.PacketInverterReport || pt == codec.PacketLiveData || pt == codec.PacketBufferedData
	if !dataBearing || int(raw.DeclaredLength()) <= 100 {
		return
	}

	extractor := registermap.NewExtractor(decrypted)

	switch pt {
	case codec.PacketInverterReport:
		s.observeReport(extractor)
	case codec.PacketLiveData, codec.PacketBufferedData:
		s.observeLiveData(ctx, extractor, decrypted, pt == codec.PacketBufferedData)
	}
}

func (s *Session) observeReport(ext *registermap.Extractor) {
	mapping := registermap.MapFor(true, ext.SectionWidth())
	spec, ok := mapping[43]
	if !ok {
		return
	}
	dtc, err := ext.IntAt(spec.ID)
	if err != nil {
		s.log.WithError(err).Debug("session: DTC register read failed")
		return
	}
	s.mu.Lock()
	if !s.haveDeviceCode {
		s.deviceCode = dtc
		s.haveDeviceCode = true
	}
	s.mu.Unlock()
}

func (s *Session) observeLiveData(ctx context.Context, ext *registermap.Extractor, frame *codec.DecryptedFrame, buffered bool) {
	dtc, ok := s.DeviceCode()
	if !ok {
		return
	}

	mapping := registermap.MapFor(false, ext.SectionWidth())
	keys := make([]int, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	allowed := s.cfg.AllowedRegisters(dtc, keys)
	allowSet := make(map[int]bool, len(allowed))
	for _, id := range allowed {
		allowSet[id] = true
	}

	values := map[string]interface{}{
		"logger_serial": s.LoggerSerial(),
		"pv_serial":     s.InverterSerial(),
	}
	for id, spec := range mapping {
		if !allowSet[id] {
			continue
		}
		switch {
		case spec.Type == registermap.RegText:
			if v, err := ext.AsciiAt(spec.ID, spec.ID+spec.Length); err == nil {
				values[spec.Name] = v
			}
		case spec.Length == 1:
			if v, err := ext.IntAt(spec.ID); err == nil {
				values[spec.Name] = spec.Format(int64(v))
			}
		case spec.Length == 2:
			if v, err := ext.LongAt(spec.ID); err == nil {
				values[spec.Name] = spec.Format(v)
			}
		}
	}

	record := dispatch.Record{
		Device:   s.InverterSerial(),
		Time:     ext.Timestamp(time.Now()),
		Buffered: buffered,
		Values:   values,
	}

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, frame.Bytes(), record)
	}
}

// captureAsResponse implements the session's half of command-response
// correlation: the first inbound frame whose type is RegisterRead or
// RegisterSet while a caller is awaiting one is captured into the
// single-slot response channel instead of being observed further.
// closed is checked under pendingMu so this never sends on a channel
// cleanup is concurrently closing.
func (s *Session) captureAsResponse(raw *codec.RawFrame) bool {
	pt := raw.PacketType()
	if pt != codec.PacketRegisterRead && pt != codec.PacketRegisterSet {
		return false
	}

	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if s.closed || !s.awaiting {
		return false
	}
	s.awaiting = false
	select {
	case s.pending <- raw.Decrypt().Bytes():
	default:
	}
	return true
}

// Inject writes frame on the datalogger-side socket and waits for the
// next RegisterRead/RegisterSet frame to arrive, returning its
// decrypted bytes. If the session ends before a reply arrives, ctx
// cancellation or socket closure surfaces as an error.
func (s *Session) Inject(ctx context.Context, frame []byte) ([]byte, error) {
	s.pendingMu.Lock()
	if s.awaiting {
		s.pendingMu.Unlock()
		return nil, fmt.Errorf("session: injection already in flight")
	}
	s.awaiting = true
	s.pendingMu.Unlock()

	if _, err := s.clConn.Write(frame); err != nil {
		s.pendingMu.Lock()
		s.awaiting = false
		s.pendingMu.Unlock()
		return nil, fmt.Errorf("session: inject write failed: %w", err)
	}

	select {
	case resp, ok := <-s.pending:
		if !ok {
			return nil, fmt.Errorf("session: closed before response arrived")
		}
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// cleanup drives the session into Draining then Terminal. It is
// idempotent: a second call is a no-op.
//
// dataloggerSideClosed is true when the datalogger-side reader detected
// the close; upstreamSideClosed is true when the upstream-side reader
// did. Exactly one is true. The side that did NOT detect the close is
// given an explicit half-close (write-EOF) before being closed, mirroring
// the original's client/server cleanup split.
func (s *Session) cleanup(dataloggerSideClosed, upstreamSideClosed bool) {
	s.mu.Lock()
	if s.state == Draining || s.state == Terminal {
		s.mu.Unlock()
		return
	}
	s.state = Draining
	s.mu.Unlock()

	s.log.WithFields(log.Fields{"datalogger_closed": dataloggerSideClosed, "upstream_closed": upstreamSideClosed}).Info("session: cleanup started")

	if dataloggerSideClosed {
		s.clConn.Close()
		if tc, ok := s.upConn.(*net.TCPConn); ok {
			tc.CloseWrite()
		}
		s.upConn.Close()
	} else if upstreamSideClosed {
		s.upConn.Close()
		if tc, ok := s.clConn.(*net.TCPConn); ok {
			tc.CloseWrite()
		}
		s.clConn.Close()
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.pendingMu.Lock()
	if !s.closed {
		s.closed = true
		close(s.pending)
	}
	s.pendingMu.Unlock()

	s.mu.Lock()
	s.state = Terminal
	s.mu.Unlock()

	s.log.Info("session: terminal")
	if s.onDone != nil {
		s.onDone(s)
	}
}
