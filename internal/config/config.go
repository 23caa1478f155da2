// Package config provides configuration loading for isnad.
package config

import (
	"fmt"
	"time"

	"github.com/sanadworks/isnad/internal/debate"
	"github.com/sanadworks/isnad/internal/logging"
)

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `koanf:"addr"`

	// ReadTimeout bounds request reading.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds response writing.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MuhasabahConfig carries the self-accounting validator thresholds.
type MuhasabahConfig struct {
	// OverconfidenceThreshold is the confidence above which acknowledged
	// uncertainties become mandatory.
	OverconfidenceThreshold float64 `koanf:"overconfidence_threshold"`

	// FalsifiabilityThreshold is the confidence above which
	// falsifiability tests become mandatory.
	FalsifiabilityThreshold float64 `koanf:"falsifiability_threshold"`
}

// Validate rejects thresholds outside [0, 1].
func (c MuhasabahConfig) Validate() error {
	if c.OverconfidenceThreshold < 0 || c.OverconfidenceThreshold > 1 {
		return fmt.Errorf("overconfidence threshold %.2f is outside [0, 1]", c.OverconfidenceThreshold)
	}
	if c.FalsifiabilityThreshold < 0 || c.FalsifiabilityThreshold > 1 {
		return fmt.Errorf("falsifiability threshold %.2f is outside [0, 1]", c.FalsifiabilityThreshold)
	}
	return nil
}

// AuditConfig selects and configures the audit sink.
type AuditConfig struct {
	// Sink is "memory", "log" or "nats".
	Sink string `koanf:"sink"`

	// NATSURL is the broker URL when Sink is "nats".
	NATSURL string `koanf:"nats_url"`

	// SubjectPrefix overrides the default NATS subject prefix.
	SubjectPrefix string `koanf:"subject_prefix"`
}

// Validate rejects unknown sinks and missing broker URLs.
func (c AuditConfig) Validate() error {
	switch c.Sink {
	case "memory", "log":
		return nil
	case "nats":
		if c.NATSURL == "" {
			return fmt.Errorf("nats audit sink requires a broker url")
		}
		return nil
	}
	return fmt.Errorf("unknown audit sink %q", c.Sink)
}

// Config is the full isnad configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   logging.Config  `koanf:"logging"`
	Debate    debate.Config   `koanf:"debate"`
	Muhasabah MuhasabahConfig `koanf:"muhasabah"`
	Audit     AuditConfig     `koanf:"audit"`
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: logging.DefaultConfig(),
		Debate:  debate.DefaultConfig(),
		Muhasabah: MuhasabahConfig{
			OverconfidenceThreshold: 0.80,
			FalsifiabilityThreshold: 0.50,
		},
		Audit: AuditConfig{Sink: "log"},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Debate.Validate(); err != nil {
		return fmt.Errorf("debate: %w", err)
	}
	if err := c.Muhasabah.Validate(); err != nil {
		return fmt.Errorf("muhasabah: %w", err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}
