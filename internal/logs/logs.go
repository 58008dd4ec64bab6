// Package logs builds the logrus loggers the proxy writes through:
// one process-wide logger, and optionally one rotating per-datalogger
// logger when separate_logs_per_datalogger is enabled (spec §6).
package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"growatt-proxy/internal/config"
)

// New builds the process-wide logger from the logging section of cfg.
func New(cfg config.LoggingConfig) (*log.Logger, error) {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Output == "file" {
		w, err := openRotating(cfg.File, cfg.MaxFileSizeBytes, cfg.MaxBackups)
		if err != nil {
			return nil, fmt.Errorf("logs: open %s: %w", cfg.File, err)
		}
		logger.SetOutput(w)
	} else {
		logger.SetOutput(os.Stdout)
	}

	return logger, nil
}

// PerDataloggerFactory hands out a logger per datalogger serial when
// separate_logs_per_datalogger is set, recovering the behavior of
// _setup_own_logger: each serial gets its own rotating file under the
// same directory as the process log, and the factory is safe for
// concurrent use by session goroutines.
type PerDataloggerFactory struct {
	cfg    config.LoggingConfig
	base   *log.Logger
	dir    string
	mu     sync.Mutex
	loggers map[string]*log.Logger
}

func NewPerDataloggerFactory(cfg config.LoggingConfig, base *log.Logger) *PerDataloggerFactory {
	dir := filepath.Dir(cfg.File)
	if dir == "" || dir == "." {
		dir = "."
	}
	return &PerDataloggerFactory{
		cfg:     cfg,
		base:    base,
		dir:     dir,
		loggers: make(map[string]*log.Logger),
	}
}

// For returns the logger to use for serial: the per-datalogger logger
// when enabled, the process-wide logger otherwise.
func (f *PerDataloggerFactory) For(serial string) *log.Logger {
	if !f.cfg.SeparateLogsPerDatalogger {
		return f.base
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if l, ok := f.loggers[serial]; ok {
		return l
	}

	path := filepath.Join(f.dir, serial+".log")
	w, err := openRotating(path, f.cfg.MaxFileSizeBytes, f.cfg.MaxBackups)
	if err != nil {
		f.base.WithError(err).WithField("serial", serial).Warn("logs: falling back to process logger")
		f.loggers[serial] = f.base
		return f.base
	}

	l := log.New()
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	l.SetLevel(f.base.GetLevel())
	l.SetOutput(w)
	f.loggers[serial] = l
	return l
}

// rotatingWriter is a minimal size-based rotating writer: once the
// current file exceeds maxBytes, it is renamed with a numeric suffix
// and a fresh file is opened, keeping at most maxBackups old files.
type rotatingWriter struct {
	mu         sync.Mutex
	path       string
	maxBytes   int64
	maxBackups int
	file       *os.File
	size       int64
}

func openRotating(path string, maxBytes int64, maxBackups int) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	if maxBytes <= 0 {
		maxBytes = 20 * 1024 * 1024
	}
	if maxBackups <= 0 {
		maxBackups = 4
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &rotatingWriter{path: path, maxBytes: maxBytes, maxBackups: maxBackups, file: f, size: info.Size()}, nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxBytes {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rotatingWriter) rotate() error {
	w.file.Close()

	for i := w.maxBackups - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", w.path, i)
		dst := fmt.Sprintf("%s.%d", w.path, i+1)
		os.Rename(src, dst)
	}
	os.Rename(w.path, fmt.Sprintf("%s.1", w.path))

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	w.file = f
	w.size = 0
	return nil
}
