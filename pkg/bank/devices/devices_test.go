package devices

import (
	"errors"
	"testing"

	"github.com/james-see/emubank/pkg/bank"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		id     string
		name   string
		format *bank.Format
	}{
		{"e3", "Emulator III", bank.FormatE3},
		{"E3X", "Emulator IIIX", bank.FormatE3X},
		{"esi", "ESI-32", bank.FormatESI},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d, err := Lookup(tt.id)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.id, err)
			}
			if d.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.name)
			}
			if d.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", d.Format(), tt.format)
			}
			if d.ID() != tt.format.ID {
				t.Errorf("ID() = %q, want %q", d.ID(), tt.format.ID)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("e4")
	if !errors.Is(err, bank.ErrUnknownFormat) {
		t.Errorf("Lookup(e4) error = %v, want %v", err, bank.ErrUnknownFormat)
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d devices, want 3", len(all))
	}
	want := []string{"e3", "e3x", "esi"}
	for i, d := range all {
		if d.ID() != want[i] {
			t.Errorf("All()[%d].ID() = %q, want %q", i, d.ID(), want[i])
		}
	}
}

func TestCreateFromTemplate(t *testing.T) {
	for _, d := range All() {
		t.Run(d.ID(), func(t *testing.T) {
			b, err := bank.Create(d, "NEW BANK")
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if got := b.Header().Params(); got != d.Params() {
				t.Errorf("Params() = %v, want %v", got, d.Params())
			}
			if got := b.Header().FormatName(); got != d.Format().Name {
				t.Errorf("FormatName() = %q, want %q", got, d.Format().Name)
			}
			if w := b.Check(); len(w) != 0 {
				t.Errorf("Check() = %v, want none", w)
			}
		})
	}
}
