package config

import (
	"os"
	"time"

	"freshpress-pos/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LogConfig is loaded from the YAML log settings file
type LogConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
	Pretty bool   `yaml:"pretty"`
}

// LoadLogConfig reads the YAML log settings. A missing file falls back
// to defaults; a malformed one is a startup error.
func LoadLogConfig(path string) (*LogConfig, error) {
	cfg := &LogConfig{Level: "info", Output: "stdout", Pretty: true}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, domain.WrapErr(domain.KindConfigReadError, err, "read log config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.WrapErr(domain.KindConfigReadError, err, "parse log config %s", path)
	}
	return cfg, nil
}

// SetupLogger applies the log settings to the global zerolog logger.
func SetupLogger(cfg *LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return domain.WrapErr(domain.KindConfigReadError, err, "unknown log level %q", cfg.Level)
	}
	zerolog.SetGlobalLevel(level)

	var out *os.File
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		out, err = os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return domain.WrapErr(domain.KindConfigReadError, err, "open log file %q", cfg.Output)
		}
	}

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	} else {
		log.Logger = log.Output(out)
	}
	return nil
}
