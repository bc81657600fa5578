package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/flagx"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations use
// timex.Duration so both "30m" and integer nanoseconds are accepted. Fields
// left out of the file keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	EndpointAddrMetrics          *string         `json:"endpoint_addr_metrics"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	Location                     *string         `json:"location"`
	LogLevel                     *string         `json:"log_level"`
	LogFormat                    *string         `json:"log_format"`
	Advisor                      *struct {
		Shift              *timex.Duration `json:"shift"`
		ShortShift         *timex.Duration `json:"short_shift"`
		Break              *timex.Duration `json:"break"`
		BackfillBreakEnd   *timex.Duration `json:"backfill_break_end"`
		BackfillBreakStart *timex.Duration `json:"backfill_break_start"`
		DefaultClockIn     *string         `json:"default_clock_in"`
	} `json:"advisor"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag into config. Without the flag nothing happens. An unreadable
// or invalid file panics: the server cannot start with a config it was told
// to use but could not read.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrMetrics, c.EndpointAddrMetrics)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.Location, c.Location)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if a := c.Advisor; a != nil {
		setDuration(&config.Shift, a.Shift)
		setDuration(&config.ShortShift, a.ShortShift)
		setDuration(&config.Break, a.Break)
		setDuration(&config.BackfillBreakEnd, a.BackfillBreakEnd)
		setDuration(&config.BackfillBreakStart, a.BackfillBreakStart)
		setString(&config.DefaultClockIn, a.DefaultClockIn)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
