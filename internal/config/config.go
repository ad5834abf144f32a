package config

import "time"

// Config holds runtime settings for the wisp client.
//
// Fields:
//   - APIBaseURL: base URL of the remote REST API.
//   - PipelineURL: websocket URL of the live push stream.
//   - DatabasePath: path of the local SQLite file (memos and other notes).
//   - NotificationPollInterval: how often the notification list is refreshed
//     when the pipeline is down.
//   - UpdateFeedURL: where the updater looks for new builds.
//   - LogLevel: "debug", "info", "warn" or "error".
type Config struct {
	APIBaseURL               string
	PipelineURL              string
	DatabasePath             string
	NotificationPollInterval time.Duration
	UpdateFeedURL            string
	LogLevel                 string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.example.social/1"
	c.PipelineURL = "wss://pipeline.example.social"
	c.DatabasePath = "wisp.db"
	c.NotificationPollInterval = 60 * time.Second
	c.UpdateFeedURL = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
