package logs

import (
	"os"
	"path/filepath"
	"testing"

	"growatt-proxy/internal/config"
)

func TestNewWritesToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proxy.log")

	logger, err := New(config.LoggingConfig{Output: "file", File: path, Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log file to contain output")
	}
}

func TestPerDataloggerFactoryReturnsBaseWhenDisabled(t *testing.T) {
	base, err := New(config.LoggingConfig{Output: "stdout", Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := NewPerDataloggerFactory(config.LoggingConfig{SeparateLogsPerDatalogger: false}, base)

	if f.For("DL0001") != base {
		t.Fatal("expected base logger when per-datalogger logging is disabled")
	}
}

func TestPerDataloggerFactoryCreatesSeparateLoggers(t *testing.T) {
	dir := t.TempDir()
	base, err := New(config.LoggingConfig{Output: "stdout", Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cfg := config.LoggingConfig{
		SeparateLogsPerDatalogger: true,
		File:                      filepath.Join(dir, "proxy.log"),
		MaxFileSizeBytes:          1024,
		MaxBackups:                2,
	}
	f := NewPerDataloggerFactory(cfg, base)

	l1 := f.For("DL0001")
	l2 := f.For("DL0002")
	if l1 == base || l2 == base {
		t.Fatal("expected per-datalogger loggers distinct from base")
	}
	if f.For("DL0001") != l1 {
		t.Fatal("expected repeated lookups to return the same logger instance")
	}

	if _, err := os.Stat(filepath.Join(dir, "DL0001.log")); err != nil {
		t.Fatalf("expected per-datalogger log file to exist: %v", err)
	}
}
