package config

import "time"

// Config is the root configuration for Stagehand.
type Config struct {
	Gateway    GatewayConfig    `json:"gateway"`
	Events     EventsConfig     `json:"events"`
	Chat       ChatConfig       `json:"chat"`
	Blueprints BlueprintsConfig `json:"blueprints"`
	Storage    StorageConfig    `json:"storage"`
}

// GatewayConfig holds the gateway server settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int    `json:"buffer_size"`
	LogLevel   string `json:"log_level"`
}

// ChatConfig holds chat service pacing.
type ChatConfig struct {
	WorkDelay Duration `json:"work_delay,omitempty"`
}

// BlueprintsConfig configures blueprint discovery.
type BlueprintsConfig struct {
	Dirs []string `json:"dirs"` // blueprint directories (default: [$STAGEHAND_PATH/blueprints])
}

// StorageConfig configures on-disk persistence.
type StorageConfig struct {
	SessionsDir string `json:"sessions_dir"`
	EventLogDir string `json:"event_log_dir"`
	HistoryPath string `json:"history_path"`
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
