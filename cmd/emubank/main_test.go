package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/report"
	"github.com/james-see/emubank/pkg/wavio"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(io.Discard)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "none.ini")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatalf("%v: error = %v", args, err)
	}
	return out
}

func TestEditSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.e3")
	wav := filepath.Join(dir, "kick.wav")
	pcm := &bank.PCM{SampleRate: 22050, Channels: 1, Frames: 16, Data: make([]int16, 16)}
	if err := wavio.Write(wav, pcm); err != nil {
		t.Fatalf("wavio.Write() error = %v", err)
	}

	mustRun(t, dir, "new", path, "--device", "e3", "--name", "DRUMS")
	mustRun(t, dir, "add-preset", path, "Kit")
	mustRun(t, dir, "add-preset", path, "Spare")
	if out := mustRun(t, dir, "add-sample", path, wav); !strings.Contains(out, `"kick"`) {
		t.Errorf("add-sample output = %q", out)
	}
	mustRun(t, dir, "add-zone", path, "--preset", "0", "--low", "c2", "--high", "36", "--sample", "0")
	mustRun(t, dir, "add-zone", path, "--preset", "0", "--low", "c2", "--high", "c2", "--layer", "secondary", "--wav", wav)
	mustRun(t, dir, "edit-all", path, "--level", "90", "--bend", "12")
	mustRun(t, dir, "delete-preset", path, "1")

	var s report.Summary
	if err := json.Unmarshal([]byte(mustRun(t, dir, "info", path, "--json")), &s); err != nil {
		t.Fatalf("info --json: %v", err)
	}
	if s.Name != "DRUMS" || len(s.Presets) != 1 || len(s.Samples) != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Presets[0].NoteZones != 1 || s.Presets[0].Zones != 2 {
		t.Errorf("preset 0 = %+v, want 1 note-zone with 2 zones", s.Presets[0])
	}

	b, err := bank.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	p, _ := b.Preset(0)
	if got := p.PitchBendRange(); got != 12 {
		t.Errorf("PitchBendRange() = %d, want 12", got)
	}

	mustRun(t, dir, "delete-zone", path, "--preset", "0", "--key", "c2")
	if err := json.Unmarshal([]byte(mustRun(t, dir, "info", path, "--json")), &s); err != nil {
		t.Fatalf("info --json: %v", err)
	}
	if s.Presets[0].NoteZones != 0 {
		t.Errorf("note-zones after delete = %d, want 0", s.Presets[0].NoteZones)
	}

	out := mustRun(t, dir, "extract", path, "-o", filepath.Join(dir, "out"))
	if !strings.Contains(out, "000 kick.wav") {
		t.Errorf("extract output = %q", out)
	}
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.e3x")
	mustRun(t, dir, "new", path)
	before := mustRun(t, dir, "info", path, "--json")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing bank", []string{"info", filepath.Join(dir, "nope.e3x")}, 4},
		{"bad preset", []string{"delete-preset", path, "3"}, 3},
		{"unassigned key", []string{"delete-zone", path, "--key", "60"}, 3},
		{"unknown device", []string{"new", filepath.Join(dir, "x"), "--device", "sp1200"}, 3},
		{"bad level", []string{"edit-all", path, "--level", "200"}, 3},
		{"velocity above 127", []string{"add-zone", path, "--low", "48", "--high", "60", "--vel-high", "300"}, 3},
		{"velocity reversed", []string{"add-zone", path, "--low", "48", "--high", "60", "--vel-low", "90", "--vel-high", "10"}, 3},
		{"bad key", []string{"add-zone", path, "--low", "h9", "--high", "60"}, 1},
		{"routing length", []string{"edit-all", path, "--routing", "1,2"}, 1},
		{"zone without selector", []string{"delete-zone", path}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dir, tt.args...)
			if got := bank.ExitCode(err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, tt.want)
			}
		})
	}

	if after := mustRun(t, dir, "info", path, "--json"); after != before {
		t.Error("failed commands changed the bank")
	}
}

func TestImportSFZCreatesBank(t *testing.T) {
	dir := t.TempDir()
	pcm := &bank.PCM{SampleRate: 44100, Channels: 1, Frames: 8, Data: make([]int16, 8)}
	if err := wavio.Write(filepath.Join(dir, "a.wav"), pcm); err != nil {
		t.Fatalf("wavio.Write() error = %v", err)
	}
	sfzPath := filepath.Join(dir, "pad.sfz")
	sfzText := "<region> sample=a.wav lokey=48 hikey=60 pitch_keycenter=55\n"
	if err := os.WriteFile(sfzPath, []byte(sfzText), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "pad.e3x")
	out := mustRun(t, dir, "import-sfz", path, sfzPath)
	if !strings.Contains(out, "Imported 1 presets, 1 samples, 1 zones") {
		t.Errorf("import-sfz output = %q", out)
	}
	b, err := bank.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := b.Header().BankName(); got != "PAD" {
		t.Errorf("BankName() = %q, want PAD", got)
	}
}

func TestParseHelpers(t *testing.T) {
	if k, err := parseKey("c4"); err != nil || k != 60 {
		t.Errorf("parseKey(c4) = %d, %v", k, err)
	}
	if l, err := parseLayer("Secondary"); err != nil || l != bank.Secondary {
		t.Errorf("parseLayer(Secondary) = %v, %v", l, err)
	}
	if _, err := parseIndex("preset", "-1"); err == nil {
		t.Error("parseIndex(-1) succeeded")
	}
	if got := baseName("dir/Kick 01.wav"); got != "Kick 01" {
		t.Errorf("baseName() = %q", got)
	}
}
