package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"growatt-proxy/internal/config"
	"growatt-proxy/internal/control"
	"growatt-proxy/internal/dispatch"
	"growatt-proxy/internal/logs"
	"growatt-proxy/internal/server"
)

// Version info - increment based on change magnitude:
// Major (x.0.0): Breaking changes, major rewrites
// Minor (0.y.0): New features, significant enhancements
// Patch (0.0.z): Bug fixes, minor improvements
var Version = "1.0.0"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	workDir := flag.String("work-dir", "", "Working directory to chdir into before loading config")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if *workDir != "" {
		if _, err := os.Stat(*workDir); err != nil {
			log.Errorf("work-dir %s does not exist", *workDir)
			os.Exit(3)
		}
		if err := os.Chdir(*workDir); err != nil {
			log.Errorf("cannot chdir into %s: %v", *workDir, err)
			os.Exit(3)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	baseLogger, err := logs.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	logFactory := logs.NewPerDataloggerFactory(cfg.Logging, baseLogger)

	baseLogger.Infof("Starting Growatt proxy v%s", Version)
	baseLogger.Infof("  Listen: %s:%d", cfg.ListenAddress, cfg.ListenPort)
	baseLogger.Infof("  Upstream: %s:%d", cfg.UpstreamAddress, cfg.UpstreamPort)
	baseLogger.Infof("  Control: %s:%d", cfg.Control.ListenAddress, cfg.Control.ListenPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	var mqttPublisher *dispatch.MQTTPublisher
	if cfg.MQTT.Enabled {
		mqttPublisher, err = dispatch.NewMQTTPublisher(cfg.MQTT, baseLogger)
		if err != nil {
			baseLogger.WithError(err).Warn("mqtt sink disabled: connect failed")
			mqttPublisher = nil
		} else {
			defer mqttPublisher.Close()
		}
	}

	// Plugin discovery on disk is an external, out-of-scope concern;
	// the resolved slices start empty and are populated by whatever
	// external loader the deployment wires in.
	var syncPlugins []dispatch.SyncPlugin
	var asyncPlugins []dispatch.AsyncPlugin

	dispatcher := dispatch.New(syncPlugins, asyncPlugins, mqttPublisher, baseLogger)

	srv := server.New(cfg, dispatcher, logFactory, baseLogger)

	ctrl := control.New(srv, baseLogger)
	go func() {
		addr := cfg.Control.ListenAddress
		if addr == "" {
			addr = "127.0.0.1"
		}
		if err := ctrl.Serve(ctx, fmt.Sprintf("%s:%d", addr, cfg.Control.ListenPort)); err != nil {
			baseLogger.WithError(err).Warn("control channel stopped")
		}
	}()

	go func() {
		for sig := range sigChan {
			switch sig {
			case syscall.SIGUSR1:
				logSessionSummary(baseLogger, srv)
			default:
				baseLogger.Infof("received %s, shutting down", sig)
				cancel()
				ctrl.Stop()
				srv.Stop()
				return
			}
		}
	}()

	if err := srv.Serve(ctx); err != nil {
		baseLogger.Fatalf("server error: %v", err)
	}
}

// logSessionSummary writes a human summary of live sessions to the
// base logger, triggered by SIGUSR1.
func logSessionSummary(logger *log.Logger, srv *server.Server) {
	sessions := srv.ListSessions()
	logger.Infof("status: %d live session(s)", len(sessions))
	for _, info := range sessions {
		logger.Infof("  peer=%s datalogger=%s inverter=%s", info.Peer, info.DataloggerSN, info.InverterSerial)
	}
}
