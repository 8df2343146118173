package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Environment string `toml:"-"`

	Host        string `toml:"host"`
	Port        int    `toml:"port" validate:"gte=0,lte=65535"`
	MetricsHost string `toml:"metrics_host"`
	MetricsPort string `toml:"metrics_port" validate:"omitempty,numeric"`

	// logging
	LogLevel      string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// pose source
	PoseSource     string `toml:"pose_source" validate:"oneof=websocket unix replay"`
	PoseWsURL      string `toml:"pose_ws_url" validate:"required_if=PoseSource websocket"`
	PoseSocketDir  string `toml:"pose_socket_dir" validate:"required_if=PoseSource unix"`
	PoseSocketFile string `toml:"pose_socket_file" validate:"required_if=PoseSource unix"`
	PoseReplayPath string `toml:"pose_replay_path" validate:"required_if=PoseSource replay"`
	PoseReplayFPS  int    `toml:"pose_replay_fps" validate:"gte=0"`
	FrameWidth     int    `toml:"frame_width" validate:"gt=0"`
	FrameHeight    int    `toml:"frame_height" validate:"gt=0"`

	// rep detection
	ExtendedAngle      float64 `toml:"extended_angle" validate:"gt=0,lte=180"`
	FlexedAngle        float64 `toml:"flexed_angle" validate:"gt=0,ltfield=ExtendedAngle"`
	AlignmentTolerance float64 `toml:"alignment_tolerance" validate:"gt=0"`
	DefaultGoal        int     `toml:"default_goal" validate:"gte=0"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Default returns the settings the detection thresholds were calibrated with.
func Default() *Config {
	return &Config{
		Host:               "localhost",
		Port:               9100,
		MetricsHost:        "localhost",
		MetricsPort:        "9101",
		LogLevel:           "info",
		PoseSource:         "websocket",
		PoseWsURL:          "ws://localhost:8765/pose",
		FrameWidth:         640,
		FrameHeight:        480,
		ExtendedAngle:      160,
		FlexedAngle:        50,
		AlignmentTolerance: 50,
		DefaultGoal:        10,
	}
}

// Load reads the TOML file at path and returns the section for env. Keys missing
// from the section keep their Default values.
func Load(env, path string) (*Config, error) {
	t := &Toml{}
	if _, err := toml.DecodeFile(path, t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing in %s", env, path)
	}
	cfg.Environment = strings.ToLower(env)
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Host == "" {
		cfg.Host = def.Host
	}
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.MetricsHost == "" {
		cfg.MetricsHost = def.MetricsHost
	}
	if cfg.MetricsPort == "" {
		cfg.MetricsPort = def.MetricsPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.PoseSource == "" {
		cfg.PoseSource = def.PoseSource
		if cfg.PoseWsURL == "" {
			cfg.PoseWsURL = def.PoseWsURL
		}
	}
	if cfg.FrameWidth == 0 {
		cfg.FrameWidth = def.FrameWidth
	}
	if cfg.FrameHeight == 0 {
		cfg.FrameHeight = def.FrameHeight
	}
	if cfg.ExtendedAngle == 0 {
		cfg.ExtendedAngle = def.ExtendedAngle
	}
	if cfg.FlexedAngle == 0 {
		cfg.FlexedAngle = def.FlexedAngle
	}
	if cfg.AlignmentTolerance == 0 {
		cfg.AlignmentTolerance = def.AlignmentTolerance
	}
	if cfg.DefaultGoal == 0 {
		cfg.DefaultGoal = def.DefaultGoal
	}
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
