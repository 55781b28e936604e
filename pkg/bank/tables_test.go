package bank

import "testing"

func TestPresetCount(t *testing.T) {
	f := &Format{MaxPresets: 4}
	tests := []struct {
		name    string
		presets []uint32
		want    int
	}{
		{"empty", []uint32{0, 0, 0, 0, 0}, 0},
		{"two", []uint32{0, 128, 300, 300, 300}, 2},
		{"full", []uint32{0, 1, 2, 3, 4}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PresetCount(f, tt.presets); got != tt.want {
				t.Errorf("PresetCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSampleCount(t *testing.T) {
	f := &Format{MaxSamples: 3}
	tests := []struct {
		name    string
		samples []uint32
		want    int
	}{
		{"empty", []uint32{0, 0, 0, 92}, 0},
		{"one", []uint32{92, 0, 0, 400}, 1},
		{"full", []uint32{92, 400, 800, 1200}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleCount(f, tt.samples); got != tt.want {
				t.Errorf("SampleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddresses(t *testing.T) {
	tests := []struct {
		f           *Format
		presets     []uint32
		wantPreset1 int
		wantStart   int
	}{
		{FormatE3, presetTable(FormatE3, 0, 0x100), 0x700, 0x700},
		{FormatE3X, presetTable(FormatE3X, 0, 0x100), 0x1300, 0x1300},
		{FormatESI, presetTable(FormatESI, 0x1420, 0x1520), 0x1500, 0x1510},
	}
	for _, tt := range tests {
		t.Run(tt.f.ID, func(t *testing.T) {
			if got := PresetAddress(tt.f, tt.presets, 1); got != tt.wantPreset1 {
				t.Errorf("PresetAddress(1) = %#x, want %#x", got, tt.wantPreset1)
			}
			if got := SampleDataStart(tt.f, tt.presets); got != tt.wantStart {
				t.Errorf("SampleDataStart() = %#x, want %#x", got, tt.wantStart)
			}
			samples := make([]uint32, tt.f.MaxSamples+1)
			samples[0] = SampleOffsetBias
			samples[1] = 500
			samples[tt.f.MaxSamples] = 500
			tab := Tables{Presets: tt.presets, Samples: samples}
			if got := SampleAddress(tt.f, tab, 0); got != tt.wantStart {
				t.Errorf("SampleAddress(0) = %#x, want %#x", got, tt.wantStart)
			}
			if got, want := NextSampleAddress(tt.f, tab), tt.wantStart+500-SampleOffsetBias; got != want {
				t.Errorf("NextSampleAddress() = %#x, want %#x", got, want)
			}
		})
	}
}

// presetTable builds a table holding one preset spanning [first, rest).
func presetTable(f *Format, first, rest uint32) []uint32 {
	t := make([]uint32, f.MaxPresets+1)
	t[0] = first
	for i := 1; i < len(t); i++ {
		t[i] = rest
	}
	return t
}
