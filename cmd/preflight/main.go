// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	probeTimeout := strings.TrimSpace(os.Getenv("PROBE_TIMEOUT_MS"))
	bootDelay := strings.TrimSpace(os.Getenv("BOOT_DELAY_MS"))

	if db == "" {
		warn("DATABASE_URL empty — watchdog will run on the in-memory store and forget history on restart.")
	} else if !strings.HasPrefix(db, "postgres://") && !strings.HasPrefix(db, "postgresql://") {
		fail("DATABASE_URL does not look like a postgres DSN.")
	} else {
		ok("DATABASE_URL present")
	}

	if addr == "" {
		warn("ADDR is empty; the status API will use the built-in default.")
	} else {
		ok("ADDR=" + addr)
	}

	for name, v := range map[string]string{"PROBE_TIMEOUT_MS": probeTimeout, "BOOT_DELAY_MS": bootDelay} {
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			fail(name + " is not a non-negative integer: " + v)
		} else {
			ok(name + "=" + v)
		}
	}

	ok("preflight passed")
}
