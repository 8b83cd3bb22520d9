// Package config provides configuration types and loading for the server.
//
// Configuration is resolved once at startup, in increasing precedence:
// built-in defaults, an optional YAML file, then environment variables.
// Nothing is mutable after the server starts.
package config

import (
	"fmt"
	"time"

	"github.com/tracedapp/tracedapp/pkg/simulate"
)

// ServerConfiguration defines the top-level server settings.
type ServerConfiguration struct {
	// Port is the HTTP listen port.
	Port int `json:"port" yaml:"port" env:"PORT"`
	// ReadTimeout is the HTTP read timeout in seconds.
	ReadTimeout int `json:"readTimeout" yaml:"readTimeout" env:"READ_TIMEOUT"`
	// WriteTimeout is the HTTP write timeout in seconds. It must leave room
	// for the longest simulated delay.
	WriteTimeout int `json:"writeTimeout" yaml:"writeTimeout" env:"WRITE_TIMEOUT"`

	// Simulation holds the per-endpoint behavior policies.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
}

// SimulationConfig holds the behavior policy for each simulated endpoint.
// Endpoints without an entry here inject neither delay nor failure.
type SimulationConfig struct {
	Users  simulate.Policy `json:"users" yaml:"users"`
	Orders simulate.Policy `json:"orders" yaml:"orders"`
	Slow   simulate.Policy `json:"slow" yaml:"slow"`
	Error  simulate.Policy `json:"error" yaml:"error"`
}

// Default server settings.
const (
	DefaultPort         = 8080
	DefaultReadTimeout  = 15
	DefaultWriteTimeout = 30
)

// DefaultServerConfiguration returns the built-in configuration: the
// canonical simulation policies and standard timeouts.
func DefaultServerConfiguration() *ServerConfiguration {
	return &ServerConfiguration{
		Port:         DefaultPort,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		Simulation: SimulationConfig{
			Users: simulate.Policy{
				MinDelay: 10 * time.Millisecond,
				MaxDelay: 50 * time.Millisecond,
			},
			Orders: simulate.Policy{
				MinDelay: 20 * time.Millisecond,
				MaxDelay: 80 * time.Millisecond,
			},
			Slow: simulate.Policy{
				MinDelay: 500 * time.Millisecond,
				MaxDelay: 2 * time.Second,
			},
			Error: simulate.Policy{
				FailureProbability: 0.5,
			},
		},
	}
}

// Validate checks the configuration for usable values.
func (c *ServerConfiguration) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("readTimeout must be >= 0, got %d", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("writeTimeout must be >= 0, got %d", c.WriteTimeout)
	}

	policies := map[string]simulate.Policy{
		"users":  c.Simulation.Users,
		"orders": c.Simulation.Orders,
		"slow":   c.Simulation.Slow,
		"error":  c.Simulation.Error,
	}
	for name, p := range policies {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("simulation.%s: %w", name, err)
		}
	}

	if c.WriteTimeout > 0 {
		maxDelay := time.Duration(c.WriteTimeout) * time.Second
		for name, p := range policies {
			if p.MaxDelay >= maxDelay {
				return fmt.Errorf("simulation.%s: maxDelay %s exceeds writeTimeout %s", name, p.MaxDelay, maxDelay)
			}
		}
	}

	return nil
}
