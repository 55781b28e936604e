package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emubank.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *c != *Default() {
		t.Errorf("Load() = %+v, want defaults %+v", c, Default())
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
[bank]
device = ESI
capacity_mb = 32

[log]
level = debug

[sfz]
lovel = 10

[server]
port = 9090
rate = 2.5
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"device", c.Device, "esi"},
		{"capacity", c.Capacity(), 32 << 20},
		{"level", c.LogLevel, "debug"},
		{"lovel", c.VelLow, 10},
		{"hivel", c.VelHigh, 127},
		{"port", c.Port, "9090"},
		{"rate", c.Rate, 2.5},
		{"burst", c.Burst, 20},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"velocity", "[sfz]\nlovel = 100\nhivel = 20\n"},
		{"capacity", "[bank]\ncapacity_mb = 0\n"},
		{"level", "[log]\nlevel = loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.content)); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}
