package config

import (
	"time"

	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// Config holds runtime settings for the punchclock terminal client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DraftsPath: SQLite file holding unfinished day edits.
//   - Location: IANA zone used to turn dates and HH:MM into instants.
//
// Units: OnlineCheckInterval is a time.Duration (e.g., 3*time.Second).
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DraftsPath          string
	Location            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DraftsPath = "punchclock_drafts.db"
	c.Location = "Local"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// CalendarLocation resolves Location.
func (c *Config) CalendarLocation() (*time.Location, error) {
	return timex.LoadLocation(c.Location)
}
