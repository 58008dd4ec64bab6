// Package server accepts datalogger connections, spawns sessions, and
// indexes them by peer address and by datalogger serial.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"growatt-proxy/internal/config"
	"growatt-proxy/internal/dispatch"
	"growatt-proxy/internal/logs"
	"growatt-proxy/internal/session"
)

// Version is reported on the admin endpoint's /api/version route.
const Version = "1.0.0"

// Server is the process-wide session registry.
type Server struct {
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	logFactory *logs.PerDataloggerFactory
	log        *log.Logger

	mu        sync.RWMutex
	byPeer    map[string]*session.Session
	bySerial  map[string]*session.Session
	listener  net.Listener
	adminSrv  *adminServer
}

// New builds a Server over already-resolved collaborators. Nothing is
// bound until Serve is called.
func New(cfg *config.Config, d *dispatch.Dispatcher, lf *logs.PerDataloggerFactory, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{
		cfg:        cfg,
		dispatcher: d,
		logFactory: lf,
		log:        logger,
		byPeer:     make(map[string]*session.Session),
		bySerial:   make(map[string]*session.Session),
	}
}

// Serve binds the listen address from config and accepts connections
// until ctx is cancelled or the listener is closed by Stop. It also
// starts the minimal JSON admin HTTP surface on the configured admin
// port.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.ListenAddress, s.cfg.ListenPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	s.listener = ln
	s.log.Infof("growatt proxy listening on %s", addr)

	s.adminSrv = newAdminServer(s, fmt.Sprintf("%s:%d", s.cfg.Control.ListenAddress, s.cfg.Control.AdminPort))
	go s.adminSrv.run(s.log)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.WithError(err).Warn("server: accept failed")
			return err
		}
		s.log.Infof("accepted connection from %s", conn.RemoteAddr())
		go s.handle(ctx, conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	sess := session.New(conn, s.cfg, s.dispatcher, s.logFactory, s.dialUpstream, s.sessionDone, s.log)

	s.mu.Lock()
	s.byPeer[conn.RemoteAddr().String()] = sess
	s.mu.Unlock()

	if err := sess.Start(ctx); err != nil {
		s.log.WithError(err).Warn("server: session start failed")
		return
	}
}

func (s *Server) dialUpstream(ctx context.Context) (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.UpstreamAddress, s.cfg.UpstreamPort)
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// sessionDone removes sess from both indices. Safe to call more than
// once; a session not found in an index is a no-op.
func (s *Server) sessionDone(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byPeer, sess.PeerAddr().String())
	if sn := sess.LoggerSerial(); sn != "" {
		delete(s.bySerial, sn)
	}
	s.log.Infof("server: session for %s cleared, %d remaining", sess.PeerAddr(), len(s.byPeer))
}

// indexSerial records the datalogger-serial index for sess once it is
// known. Called lazily from the control channel/admin lookups since
// the serial is only learned after the first valid frame.
func (s *Server) indexSerial(sess *session.Session) {
	sn := sess.LoggerSerial()
	if sn == "" {
		return
	}
	s.mu.Lock()
	s.bySerial[sn] = sess
	s.mu.Unlock()
}

// SessionInfo is a snapshot of one session for the control channel and
// admin endpoint.
type SessionInfo struct {
	Peer           string `json:"peer"`
	DataloggerSN   string `json:"datalogger_serial"`
	InverterSerial string `json:"inverter_serial"`
}

// ListSessions returns a snapshot of all live sessions.
func (s *Server) ListSessions() []SessionInfo {
	s.mu.RLock()
	sessions := make([]*session.Session, 0, len(s.byPeer))
	out := make([]SessionInfo, 0, len(s.byPeer))
	for peer, sess := range s.byPeer {
		sessions = append(sessions, sess)
		out = append(out, SessionInfo{
			Peer:           peer,
			DataloggerSN:   sess.LoggerSerial(),
			InverterSerial: sess.InverterSerial(),
		})
	}
	s.mu.RUnlock()

	for _, sess := range sessions {
		s.indexSerial(sess)
	}
	return out
}

// Get looks up the session handling datalogger serial sn, for command
// injection from the control channel.
func (s *Server) Get(sn string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.bySerial[sn]
	if ok {
		return sess, true
	}
	for _, cand := range s.byPeer {
		if cand.LoggerSerial() == sn {
			return cand, true
		}
	}
	return nil, false
}

// Stop closes the listener. Existing sessions are left to drain on
// their own EOFs (spec §5: no forced kill in normal shutdown).
func (s *Server) Stop() error {
	if s.adminSrv != nil {
		s.adminSrv.stop()
	}
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// newRouter exposes the read-only JSON admin surface named in
// SPEC_FULL.md: /api/sessions and /api/version. No web UI is built
// since spec.md names none.
func newRouter(s *Server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/sessions", sessionsHandler(s)).Methods("GET")
	r.HandleFunc("/api/version", versionHandler).Methods("GET")
	return r
}
