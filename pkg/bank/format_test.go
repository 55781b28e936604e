package bank

import (
	"errors"
	"testing"
)

func TestLookupFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *Format
	}{
		{"e3 space padded", "E3 BANK         ", FormatE3},
		{"e3x nul padded", "E3X BANK\x00\x00\x00\x00\x00\x00\x00\x00", FormatE3X},
		{"esi", "ESI BANK", FormatESI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LookupFormat([]byte(tt.raw))
			if err != nil {
				t.Fatalf("LookupFormat(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("LookupFormat(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
	if _, err := LookupFormat([]byte("WAVE")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("LookupFormat(WAVE) error = %v, want %v", err, ErrUnknownFormat)
	}
}

func TestFormatByID(t *testing.T) {
	if f, err := FormatByID("ESI"); err != nil || f != FormatESI {
		t.Errorf("FormatByID(ESI) = %v, %v", f, err)
	}
	if _, err := FormatByID("e4"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FormatByID(e4) error = %v, want %v", err, ErrUnknownFormat)
	}
}

func TestFormatTablesFit(t *testing.T) {
	for _, f := range Formats() {
		t.Run(f.ID, func(t *testing.T) {
			if end := f.PresetTableOffset + 4*(f.MaxPresets+1); end > f.SampleTableOffset {
				t.Errorf("preset table ends at %#x, past sample table %#x", end, f.SampleTableOffset)
			}
			if end := f.SampleTableOffset + 4*(f.MaxSamples+1); end > f.PresetDataStart {
				t.Errorf("sample table ends at %#x, past preset data %#x", end, f.PresetDataStart)
			}
			if f.PresetTableOffset < HeaderSize {
				t.Errorf("preset table at %#x overlaps the header", f.PresetTableOffset)
			}
		})
	}
}
