package buildinfo

import (
	"fmt"
	"time"
)

// Set via -ldflags at build time
var (
	Version    = "dev"
	BuildTime  string // when the binary was compiled
	CommitHash string // short git commit hash
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)

// Summary renders the version line printed by `shopreply version` and at startup
func Summary() string {
	s := "shopreply " + Version
	if CommitHash != "" {
		s += fmt.Sprintf(" (%s)", CommitHash)
	}
	if BuildTime != "" {
		s += " built " + BuildTime
	}
	return s
}
