package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/bank/devices"
	"github.com/james-see/emubank/pkg/wavio"
)

// fixture builds a bank with one preset, one mono sample and one full-range zone.
func fixture(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.Create(devices.NewE3X(), "REPORT")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := b.AddPreset("Organ"); err != nil {
		t.Fatalf("AddPreset() error = %v", err)
	}
	data := make([]int16, 100)
	for i := range data {
		data[i] = int16(i * 100)
	}
	pcm := &bank.PCM{SampleRate: 32000, Channels: 1, Frames: 100, Data: data}
	z := bank.DefaultZone(b.Format(), 0, 60, 0, 127)
	if _, _, err := b.AddSampleZone(0, bank.KeyRange{Low: 21, High: 108}, bank.Primary, "Drawbar/1", pcm, z); err != nil {
		t.Fatalf("AddSampleZone() error = %v", err)
	}
	return b
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(fixture(t))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(s.Presets) != 1 || len(s.Samples) != 1 {
		t.Fatalf("Summarize() = %d presets, %d samples, want 1, 1", len(s.Presets), len(s.Samples))
	}
	if got := s.Presets[0].NoteZones; got != 1 {
		t.Errorf("NoteZones = %d, want 1", got)
	}
	if s.Presets[0].Link != -1 {
		t.Errorf("Link = %d, want -1", s.Presets[0].Link)
	}
	if got := s.Samples[0]; got.SampleRate != 32000 || got.Frames != 100 || got.Channels != 1 {
		t.Errorf("sample = %+v", got)
	}
	if s.PresetBlocks+s.SampleBlocks != s.TotalBlocks {
		t.Errorf("blocks %d+%d != %d", s.PresetBlocks, s.SampleBlocks, s.TotalBlocks)
	}
	if len(s.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", s.Warnings)
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	for _, want := range []string{"REPORT (e3x)", "Presets (1)", "Organ", "Samples (1)", "Drawbar/1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("WriteText() output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestZones(t *testing.T) {
	zones, err := Zones(fixture(t), 0)
	if err != nil {
		t.Fatalf("Zones() error = %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("Zones() returned %d zones, want 1", len(zones))
	}
	z := zones[0]
	if z.Low != 21 || z.High != 108 || z.Layer != "primary" {
		t.Errorf("zone keys %d-%d layer %s", z.Low, z.High, z.Layer)
	}
	if z.SampleName != "Drawbar/1" {
		t.Errorf("SampleName = %q", z.SampleName)
	}
	if z.Level != 100 || z.VCA.Sustain != 100 {
		t.Errorf("Level = %d, VCA sustain = %d, want 100, 100", z.Level, z.VCA.Sustain)
	}
	if z.CutoffHz != 17830 {
		t.Errorf("CutoffHz = %d, want 17830", z.CutoffHz)
	}
	if !z.QBias || z.Q != 0 {
		t.Errorf("Q = %d bias %v, want 0 with bias", z.Q, z.QBias)
	}
	if z.Tracking != 1 {
		t.Errorf("Tracking = %v, want 1", z.Tracking)
	}
	if z.Keys == "" || z.OriginalKey == "" {
		t.Error("note names missing")
	}

	var buf bytes.Buffer
	if err := WriteZones(&buf, zones); err != nil {
		t.Fatalf("WriteZones() error = %v", err)
	}
	if !strings.Contains(buf.String(), "17830Hz") {
		t.Errorf("WriteZones() output missing cutoff:\n%s", buf.String())
	}

	if _, err := Zones(fixture(t), 4); err == nil {
		t.Error("Zones(4) error = nil, want error")
	}
}

func TestExtractSamples(t *testing.T) {
	b := fixture(t)
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := ExtractSamples(b, dir)
	if err != nil {
		t.Fatalf("ExtractSamples() error = %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "000 Drawbar_1.wav" {
		t.Fatalf("ExtractSamples() = %v", paths)
	}
	pcm, err := wavio.Read(paths[0])
	if err != nil {
		t.Fatalf("wavio.Read() error = %v", err)
	}
	if pcm.Frames != 100 || pcm.SampleRate != 32000 || pcm.Data[99] != 9900 {
		t.Errorf("extracted %d frames at %d Hz, last %d", pcm.Frames, pcm.SampleRate, pcm.Data[99])
	}
}
