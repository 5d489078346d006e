// Package timeouts defines shared timeout constants so the database layer
// and the entry point agree on how long to wait.
package timeouts

import "time"

// DBBusy is how long SQLite retries a locked database before failing.
const DBBusy = 5 * time.Second

// TelemetryShutdown caps the span flush when the command exits.
const TelemetryShutdown = 5 * time.Second
