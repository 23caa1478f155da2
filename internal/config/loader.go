package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ISNAD_"

// maxConfigFileSize bounds config files at 1MB.
const maxConfigFileSize = 1024 * 1024

// Load builds the configuration with the usual precedence, highest
// first:
//
//  1. Environment variables (ISNAD_SERVER_ADDR, ISNAD_AUDIT_SINK, ...)
//  2. YAML config file, when configPath is non-empty and exists
//  3. Defaults from Default()
//
// Environment variables map section first, field second:
//
//	ISNAD_SERVER_ADDR          -> server.addr
//	ISNAD_LOGGING_LEVEL        -> logging.level
//	ISNAD_DEBATE_MAX_ROUNDS    -> debate.max_rounds
//	ISNAD_AUDIT_NATS_URL       -> audit.nats_url
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := loadFile(k, configPath); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config file %s: %w", path, err)
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file %s too large: %d bytes (max %d)", path, info.Size(), maxConfigFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// envTransform maps ISNAD_SECTION_FIELD_NAME to section.field_name: the
// first underscore after the prefix separates section from field, the
// rest stay part of the field name.
func envTransform(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}
