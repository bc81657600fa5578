package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/flagx"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration, so "3s" and integer nanoseconds are both accepted.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DraftsPath          string         `json:"drafts_path"`
	Location            string         `json:"location"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c / -config. Empty string fields keep their current value. Panics on read
// or unmarshal errors.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.DraftsPath != "" {
		cfg.DraftsPath = jc.DraftsPath
	}
	if jc.Location != "" {
		cfg.Location = jc.Location
	}
}
