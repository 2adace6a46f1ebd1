package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr         string        // status API bind address
	LogDir       string        // logs directory
	DatabaseURL  string        // empty means in-memory store
	ProbeTimeout time.Duration // per-upstream TCP probe deadline
	BootDelay    time.Duration // wait before the first watchdog cycle
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8090"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	// Database (empty means use the in-memory store)
	db := os.Getenv("DATABASE_URL")

	probeTimeout := 3000 * time.Millisecond
	if v := os.Getenv("PROBE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			probeTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	bootDelay := 5 * time.Second
	if v := os.Getenv("BOOT_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			bootDelay = time.Duration(ms) * time.Millisecond
		}
	}

	return Config{
		Addr:         addr,
		LogDir:       logDir,
		DatabaseURL:  db,
		ProbeTimeout: probeTimeout,
		BootDelay:    bootDelay,
	}
}
