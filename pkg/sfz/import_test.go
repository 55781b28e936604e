package sfz

import (
	"errors"
	"strings"
	"testing"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/bank/devices"
	"github.com/james-see/emubank/pkg/units"
)

type fakeLoader struct {
	calls map[string]int
}

func (f *fakeLoader) load(path string) (*bank.PCM, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[path]++
	if strings.Contains(path, "missing") {
		return nil, bank.ErrIO
	}
	return &bank.PCM{SampleRate: 44100, Channels: 1, Frames: 16, Data: make([]int16, 16)}, nil
}

func newBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.Create(devices.NewE3X(), "SFZ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return b
}

const layered = `
<group> lovel=64 hivel=127
<region> sample=loud.wav lokey=21 hikey=60
<region> sample=shared.wav lokey=61 hikey=108
<group> lovel=1 hivel=63
<region> sample=soft.wav lokey=21 hikey=60
<region> sample=shared.wav lokey=61 hikey=108
<region> sample=soft.wav lokey=30 hikey=40
`

func TestImport(t *testing.T) {
	b := newBank(t)
	loader := &fakeLoader{}

	res, err := Import(b, strings.NewReader(layered), "/sfz", Options{Name: "Grand", Load: loader.load, Logger: discard()})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(res.Presets) != 2 || res.Samples != 3 || res.Zones != 5 || res.Skipped != 0 {
		t.Errorf("Import() = %+v, want 2 presets, 3 samples, 5 zones", res)
	}
	if got := loader.calls["/sfz/shared.wav"]; got != 1 {
		t.Errorf("shared sample loaded %d times, want 1", got)
	}

	soft, _ := b.Preset(0)
	loud, _ := b.Preset(1)
	if soft.Name() != "Grand" || loud.Name() != "Grand L2" {
		t.Errorf("names = %q, %q, want Grand, Grand L2", soft.Name(), loud.Name())
	}
	if lo, hi := soft.VelocityRange(bank.Primary); lo != 1 || hi != 63 {
		t.Errorf("soft velocity = %d-%d, want 1-63", lo, hi)
	}
	if link, ok := soft.Link(); !ok || link != 1 {
		t.Errorf("soft link = %d, %v, want 1, true", link, ok)
	}
	if _, ok := loud.Link(); ok {
		t.Error("top layer has a link")
	}
	if soft.ZoneCount() != 2 || soft.ZoneRecords() != 3 {
		t.Errorf("soft zones = %d note-zones, %d records, want 2, 3", soft.ZoneCount(), soft.ZoneRecords())
	}
	if w := b.Check(); len(w) != 0 {
		t.Errorf("Check() = %v", w)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no regions", "<group> lovel=1\n", ErrNoRegions},
		{"load failure", "<region> sample=missing.wav\n", bank.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeLoader{}
			_, err := Import(newBank(t), strings.NewReader(tt.src), "/sfz", Options{Name: "X", Load: loader.load, Logger: discard()})
			if !errors.Is(err, tt.want) {
				t.Errorf("Import() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestImportSkipsOverlaps(t *testing.T) {
	src := `
<region> sample=a.wav lokey=48 hikey=60
<region> sample=b.wav lokey=50 hikey=55
<region> sample=c.wav lokey=52 hikey=53
`
	b := newBank(t)
	loader := &fakeLoader{}
	res, err := Import(b, strings.NewReader(src), "/sfz", Options{Name: "Stack", Load: loader.load, Logger: discard()})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(res.Presets) != 1 || res.Zones != 2 || res.Skipped != 1 {
		t.Errorf("Import() = %+v, want 1 preset, 2 zones, 1 skipped", res)
	}
	p, _ := b.Preset(0)
	if p.ZoneCount() != 1 || p.ZoneRecords() != 2 {
		t.Errorf("zones = %d note-zones, %d records, want 1, 2", p.ZoneCount(), p.ZoneRecords())
	}
}

func TestImportPresetLimit(t *testing.T) {
	b, err := bank.Create(devices.NewE3(), "FULL")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for i := 0; i < bank.FormatE3.MaxPresets-1; i++ {
		if _, err := b.AddPreset("P"); err != nil {
			t.Fatalf("AddPreset() error = %v", err)
		}
	}
	before := b.Size()
	loader := &fakeLoader{}
	_, err = Import(b, strings.NewReader(layered), "/sfz", Options{Name: "X", Load: loader.load, Logger: discard()})
	if !errors.Is(err, bank.ErrPresetLimit) {
		t.Fatalf("Import() error = %v, want %v", err, bank.ErrPresetLimit)
	}
	if b.Size() != before {
		t.Error("rejected import modified the bank")
	}
}

func TestZoneParams(t *testing.T) {
	r := Region{
		Keys:      bank.KeyRange{Low: 21, High: 108},
		KeyCenter: 57,
		VelLow:    1,
		VelHigh:   127,
		Opcodes: map[string]string{
			"ampeg_attack":  "0",
			"ampeg_sustain": "50",
			"ampeg_release": "1000",
			"fileg_depth":   "-9600",
			"amp_veltrack":  "100",
			"tune":          "25",
			"loop_mode":     "one_shot",
			"trigger":       "legato",
			"pan":           "oops",
		},
	}
	z := ZoneParams(bank.FormatE3X, 3, r, discard())

	if z.Sample != 3 || z.OriginalKey != 57 {
		t.Errorf("sample %d key %d, want 3, 57", z.Sample, z.OriginalKey)
	}
	if z.VCA.Attack != 0 || z.VCA.Release != 127 || z.VCA.Sustain != 64 {
		t.Errorf("VCA = %+v, want attack 0 sustain 64 release 127", z.VCA)
	}
	if z.FilterEnv != -127 {
		t.Errorf("FilterEnv = %d, want -127", z.FilterEnv)
	}
	if z.Velocity.ToVolume != 127 {
		t.Errorf("Velocity.ToVolume = %d, want 127", z.Velocity.ToVolume)
	}
	if z.Tuning != 16 {
		t.Errorf("Tuning = %d, want 16", z.Tuning)
	}
	if z.Pan != 0 {
		t.Errorf("Pan = %d, want 0 for a malformed value", z.Pan)
	}
	if !units.LoopDisabled(z.Flags) || !units.LegatoTrigger(z.Flags) {
		t.Errorf("Flags = %#x, want loop disable and legato", z.Flags)
	}
	if z.Q != bank.QBiasBit {
		t.Errorf("Q = %#x, want format bias %#x", z.Q, bank.QBiasBit)
	}
}

func TestLayerName(t *testing.T) {
	tests := []struct {
		base string
		i    int
		want string
	}{
		{"Piano", 0, "Piano"},
		{"Piano", 1, "Piano L2"},
		{"Sixteen Chars Xx", 2, "Sixteen Chars L3"},
	}
	for _, tt := range tests {
		if got := layerName(tt.base, tt.i); got != tt.want {
			t.Errorf("layerName(%q, %d) = %q, want %q", tt.base, tt.i, got, tt.want)
		}
	}
}
