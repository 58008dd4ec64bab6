package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type adminServer struct {
	httpServer *http.Server
}

func newAdminServer(s *Server, addr string) *adminServer {
	return &adminServer{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: newRouter(s),
		},
	}
}

func (a *adminServer) run(logger *log.Logger) {
	logger.Infof("admin endpoint listening on %s", a.httpServer.Addr)
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Warn("server: admin endpoint stopped")
	}
}

func (a *adminServer) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.httpServer.Shutdown(ctx)
}

func sessionsHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.ListSessions())
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}
