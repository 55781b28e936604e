// Package config loads emubank settings from an optional ini file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultFile is read when no path is given.
const DefaultFile = "emubank.ini"

// Config holds every setting. Zero values never reach callers; Load fills
// defaults for anything the file leaves out.
type Config struct {
	Device     string  // [bank] device
	CapacityMB int     // [bank] capacity_mb
	LogLevel   string  // [log] level
	VelLow     int     // [sfz] lovel
	VelHigh    int     // [sfz] hivel
	Port       string  // [server] port
	Rate       float64 // [server] rate, requests per second
	Burst      int     // [server] burst
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Device:     "e3x",
		CapacityMB: 64,
		LogLevel:   "info",
		VelLow:     1,
		VelHigh:    127,
		Port:       "8080",
		Rate:       10,
		Burst:      20,
	}
}

// Load reads path. A missing file yields the defaults; a malformed one is an
// error.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	b := f.Section("bank")
	c.Device = strings.ToLower(b.Key("device").MustString(c.Device))
	c.CapacityMB = b.Key("capacity_mb").MustInt(c.CapacityMB)

	c.LogLevel = f.Section("log").Key("level").MustString(c.LogLevel)

	s := f.Section("sfz")
	c.VelLow = s.Key("lovel").MustInt(c.VelLow)
	c.VelHigh = s.Key("hivel").MustInt(c.VelHigh)

	srv := f.Section("server")
	c.Port = srv.Key("port").MustString(c.Port)
	c.Rate = srv.Key("rate").MustFloat64(c.Rate)
	c.Burst = srv.Key("burst").MustInt(c.Burst)

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.CapacityMB <= 0 {
		return fmt.Errorf("capacity_mb must be positive, got %d", c.CapacityMB)
	}
	if c.VelLow < 0 || c.VelHigh > 127 || c.VelLow > c.VelHigh {
		return fmt.Errorf("invalid sfz velocity range %d-%d", c.VelLow, c.VelHigh)
	}
	if c.Rate <= 0 || c.Burst <= 0 {
		return fmt.Errorf("server rate and burst must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Capacity returns the bank capacity in bytes.
func (c *Config) Capacity() int {
	return c.CapacityMB << 20
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
