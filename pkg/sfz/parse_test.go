package sfz

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	src := `// piano
<control> default_path=samples\
#define $VEL 64
<group> lovel=1 hivel=$VEL amp_veltrack=80
<region> sample=Piano C4.wav key=c4 // middle
<region>sample=d4.wav lokey=61 hikey=63 pitch_keycenter=62
`
	sections, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sections) != 4 {
		t.Fatalf("Parse() returned %d sections, want 4", len(sections))
	}

	tests := []struct {
		section int
		key     string
		want    string
	}{
		{0, "default_path", `samples\`},
		{1, "hivel", "64"},
		{1, "amp_veltrack", "80"},
		{2, "sample", "Piano C4.wav"},
		{2, "key", "c4"},
		{3, "sample", "d4.wav"},
		{3, "pitch_keycenter", "62"},
	}
	for _, tt := range tests {
		if got := sections[tt.section].Opcodes[tt.key]; got != tt.want {
			t.Errorf("section %d %s = %q, want %q", tt.section, tt.key, got, tt.want)
		}
	}
	if sections[2].Header != "region" || sections[2].Line != 5 {
		t.Errorf("section 2 = %s at line %d, want region at line 5", sections[2].Header, sections[2].Line)
	}
}

func TestParseOpcodeBeforeHeader(t *testing.T) {
	if _, err := Parse(strings.NewReader("sample=x.wav\n<region>")); err == nil {
		t.Error("Parse() error = nil, want error")
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"60", 60, true},
		{"c4", 60, true},
		{"C#4", 61, true},
		{"eb4", 63, true},
		{"a0", 21, true},
		{"c-1", 0, true},
		{"b4", 71, true},
		{"128", 0, false},
		{"h2", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseKey(%q) error = %v, want ok %v", tt.in, err, tt.ok)
			}
			if tt.ok && got != tt.want {
				t.Errorf("ParseKey(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegions(t *testing.T) {
	src := `<control> default_path=sub\dir\
<global> hivel=100
<group> lovel=10
<region> sample=a.wav
<region> sample=b.wav lokey=0 hikey=10
<region> sample=c.wav lokey=100 hikey=120 lovel=20
<group>
<region> sample=d.wav key=64
<region> key=64
`
	sections, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	regions := Regions(sections, "/banks", 1, 127, discard())
	if len(regions) != 3 {
		t.Fatalf("Regions() returned %d regions, want 3", len(regions))
	}

	a := regions[0]
	if a.Sample != "/banks/sub/dir/a.wav" {
		t.Errorf("sample = %q, want /banks/sub/dir/a.wav", a.Sample)
	}
	if a.Keys.Low != 21 || a.Keys.High != 108 || a.KeyCenter != 0 {
		t.Errorf("keys = %v center %d, want {21 108} center 0", a.Keys, a.KeyCenter)
	}
	if a.VelLow != 10 || a.VelHigh != 100 {
		t.Errorf("velocity = %d-%d, want 10-100", a.VelLow, a.VelHigh)
	}

	c := regions[1]
	if c.Keys.Low != 100 || c.Keys.High != 108 || c.VelLow != 20 {
		t.Errorf("clamped region = %v vel %d, want {100 108} vel 20", c.Keys, c.VelLow)
	}

	d := regions[2]
	if d.Keys.Low != 64 || d.Keys.High != 64 || d.KeyCenter != 64 {
		t.Errorf("key region = %v center %d, want {64 64} center 64", d.Keys, d.KeyCenter)
	}
	if d.VelLow != 1 || d.VelHigh != 100 {
		t.Errorf("velocity after group reset = %d-%d, want 1-100", d.VelLow, d.VelHigh)
	}
}
