// Package config defines the necessary types to configure the dashboard.
// An example config file config.yaml is provided in the repository.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Persistence drivers
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Event drivers
const (
	EventsNone        = "none"
	EventsGoChannel   = "gochannel"
	EventsRedisStream = "redisstream"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Logger      Logger      `yaml:"logger"`
	HTTP        HTTPServer  `yaml:"http"`
	Backend     Backend     `yaml:"backend"`
	Identity    Identity    `yaml:"identity"`
	Persistence Persistence `yaml:"persistence"`
	Events      Events      `yaml:"events"`
}

type Logger struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"json"`
}

type HTTPServer struct {
	// Address defaults to loopback; the session belongs to the operator's own browser
	Address         string        `yaml:"address" default:"127.0.0.1:8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
	Cookie          Cookie        `yaml:"cookie"`
}

// Cookie configures the cookie binding the session to the browser that logged in
type Cookie struct {
	Name string `yaml:"name" default:"bloodlink_browser"`

	// Secure must be enabled when the dashboard is served over TLS
	Secure bool          `yaml:"secure" default:"false"`
	MaxAge time.Duration `yaml:"maxAge" default:"168h"`
}

type Backend struct {
	BaseURL      string        `yaml:"baseURL" default:"http://localhost:8000"`
	ExchangePath string        `yaml:"exchangePath" default:"/auth/google-login"`
	Timeout      time.Duration `yaml:"timeout" default:"15s"`

	// SingleFlight rejects a login while another one is in flight
	SingleFlight bool `yaml:"singleFlight" default:"true"`
}

type Identity struct {
	GoogleClientID string `yaml:"googleClientID"`
}

type Persistence struct {
	Driver string `yaml:"driver" default:"file"`

	// Path of the session file. Empty means $HOME/.bloodlink-dashboard/session.json.
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redisURL"`
	Valkey   Valkey `yaml:"valkey"`
	Prefix   string `yaml:"prefix" default:"bloodlink-dashboard"`
}

type Valkey struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Events struct {
	Driver string `yaml:"driver" default:"none"`
	Topic  string `yaml:"topic" default:"bloodlink.session"`
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Persistence.Driver {
	case DriverMemory, DriverFile:
	case DriverRedis:
		if c.Persistence.RedisURL == "" {
			return fmt.Errorf("%w: persistence.redisURL is required for the redis driver", ErrInvalidConfig)
		}
	case DriverValkey:
		if c.Persistence.Valkey.Address == "" {
			return fmt.Errorf("%w: persistence.valkey.address is required for the valkey driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown persistence driver %q", ErrInvalidConfig, c.Persistence.Driver)
	}

	switch c.Events.Driver {
	case EventsNone, EventsGoChannel:
	case EventsRedisStream:
		if c.Persistence.RedisURL == "" {
			return fmt.Errorf("%w: persistence.redisURL is required for the redisstream event driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown events driver %q", ErrInvalidConfig, c.Events.Driver)
	}

	if c.HTTP.Cookie.Name == "" {
		return fmt.Errorf("%w: http.cookie.name is required", ErrInvalidConfig)
	}
	if c.HTTP.Cookie.MaxAge < 0 {
		return fmt.Errorf("%w: http.cookie.maxAge must not be negative", ErrInvalidConfig)
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("%w: backend.baseURL is required", ErrInvalidConfig)
	}

	return nil
}
