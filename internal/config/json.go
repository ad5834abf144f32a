package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avalune/wisp/internal/flagx"
	"github.com/avalune/wisp/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "60s" or
// as integer nanoseconds. Parsed values are copied onto the runtime Config.
type jsonConfig struct {
	APIBaseURL               string         `json:"api_base_url"`
	PipelineURL              string         `json:"pipeline_url"`
	DatabasePath             string         `json:"database_path"`
	NotificationPollInterval timex.Duration `json:"notification_poll_interval"`
	UpdateFeedURL            string         `json:"update_feed_url"`
	LogLevel                 string         `json:"log_level"`
}

// parseJSON overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. When no file is named, nothing happens. Read or unmarshal
// errors panic; loading a broken config is unrecoverable this early.
//
// Fields absent from the file keep their current (default) values.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.PipelineURL != "" {
		cfg.PipelineURL = jc.PipelineURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.NotificationPollInterval.Duration > 0 {
		cfg.NotificationPollInterval = time.Duration(jc.NotificationPollInterval.Duration)
	}
	if jc.UpdateFeedURL != "" {
		cfg.UpdateFeedURL = jc.UpdateFeedURL
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
