package sfz

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/units"
	"github.com/james-see/emubank/pkg/wavio"
)

// ErrNoRegions is returned for SFZ files without a usable region.
var ErrNoRegions = errors.New("no playable regions")

// Loader decodes the sample file at path.
type Loader func(path string) (*bank.PCM, error)

// Options controls an import.
type Options struct {
	Name    string // preset name; layers after the first get an " L2", " L3" suffix
	VelLow  int    // defaults for regions without lovel/hivel
	VelHigh int
	Load    Loader
	Logger  *slog.Logger
}

// Result summarizes an import.
type Result struct {
	Presets []int `json:"presets"`
	Samples int   `json:"samples"`
	Zones   int   `json:"zones"`
	Skipped int   `json:"skipped"`
}

// ImportFile parses the SFZ file at path and imports it into b. Sample paths
// resolve relative to the file's directory.
func ImportFile(b *bank.Bank, path string, opt Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bank.ErrIO, err)
	}
	defer f.Close()
	if opt.Name == "" {
		opt.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Import(b, f, filepath.Dir(path), opt)
}

// Import reads an SFZ document from r. Every distinct velocity range becomes
// a preset, linked to the next one in ascending lovel order. A sample file
// shared by several regions is appended once.
func Import(b *bank.Bank, r io.Reader, dir string, opt Options) (*Result, error) {
	if opt.Load == nil {
		opt.Load = wavio.Read
	}
	if opt.Logger == nil {
		opt.Logger = b.Logger()
	}
	if opt.VelLow == 0 && opt.VelHigh == 0 {
		opt.VelLow, opt.VelHigh = 1, 127
	}
	log := opt.Logger

	sections, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse sfz: %w", err)
	}
	regions := Regions(sections, dir, opt.VelLow, opt.VelHigh, log)
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}
	layers := groupLayers(regions)
	if free := b.Format().MaxPresets - b.PresetCount(); len(layers) > free {
		return nil, fmt.Errorf("%w: %d velocity layers, %d free presets", bank.ErrPresetLimit, len(layers), free)
	}

	res := &Result{}
	samples := map[string]int{}
	for i, l := range layers {
		n, err := b.AddPreset(layerName(opt.Name, i))
		if err != nil {
			return res, err
		}
		res.Presets = append(res.Presets, n)
		if err := b.SetPresetVelocity(n, bank.Primary, l.lo, l.hi); err != nil {
			return res, err
		}

		for _, reg := range l.regions {
			idx, ok := samples[reg.Sample]
			if !ok {
				pcm, err := opt.Load(reg.Sample)
				if err != nil {
					return res, fmt.Errorf("region at line %d: %w", reg.Line, err)
				}
				if idx, err = b.AddSample(sampleName(reg.Sample), pcm); err != nil {
					return res, fmt.Errorf("region at line %d: %w", reg.Line, err)
				}
				samples[reg.Sample] = idx
				res.Samples++
			}

			z := ZoneParams(b.Format(), idx, reg, log)
			_, err := b.AddZone(n, reg.Keys, bank.Primary, z)
			if errors.Is(err, bank.ErrNoteRangeAssigned) {
				_, err = b.AddZone(n, reg.Keys, bank.Secondary, z)
			}
			if err != nil {
				if bank.KindOf(err) != bank.KindInvalidReference {
					return res, fmt.Errorf("region at line %d: %w", reg.Line, err)
				}
				log.Warn("skipping region", "line", reg.Line, "reason", err)
				res.Skipped++
				continue
			}
			res.Zones++
		}
	}
	for i := 0; i+1 < len(res.Presets); i++ {
		if err := b.SetPresetLink(res.Presets[i], res.Presets[i+1]); err != nil {
			return res, err
		}
	}

	log.Info("sfz imported", "presets", len(res.Presets), "samples", res.Samples,
		"zones", res.Zones, "skipped", res.Skipped)
	return res, nil
}

type layer struct {
	lo, hi  int
	regions []Region
}

// groupLayers buckets regions by velocity range, sorted by lovel.
func groupLayers(regions []Region) []layer {
	var layers []layer
	index := map[[2]int]int{}
	for _, r := range regions {
		k := [2]int{r.VelLow, r.VelHigh}
		i, ok := index[k]
		if !ok {
			i = len(layers)
			index[k] = i
			layers = append(layers, layer{lo: r.VelLow, hi: r.VelHigh})
		}
		layers[i].regions = append(layers[i].regions, r)
	}
	sort.SliceStable(layers, func(i, j int) bool {
		if layers[i].lo != layers[j].lo {
			return layers[i].lo < layers[j].lo
		}
		return layers[i].hi < layers[j].hi
	})
	return layers
}

func layerName(base string, i int) string {
	if i == 0 {
		return base
	}
	suffix := " L" + strconv.Itoa(i+1)
	if len(base)+len(suffix) > bank.NameSize {
		base = base[:bank.NameSize-len(suffix)]
	}
	return base + suffix
}

func sampleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// ZoneParams converts the opcodes of r into zone parameters referencing
// sample. Unknown or malformed opcodes are logged and ignored.
func ZoneParams(f *bank.Format, sample int, r Region, log *slog.Logger) bank.ZoneParams {
	z := bank.DefaultZone(f, sample, r.KeyCenter, r.VelLow, r.VelHigh)
	op := opcodes{m: r.Opcodes, line: r.Line, log: log}

	if v, ok := op.float("tune"); ok {
		z.Tuning = units.EncodeTuning(v)
	}
	if v, ok := op.float("pan"); ok {
		z.Pan = units.EncodePercent(v)
	}
	if v, ok := op.float("amplitude"); ok {
		z.Level = uint8(units.EncodePercent(min(max(v, 0), 100)))
	}
	op.envelope("ampeg", &z.VCA)
	op.envelope("fileg", &z.VCF)
	op.envelope("pitcheg", &z.Aux)

	if v, ok := op.float("amp_veltrack"); ok {
		z.Velocity.ToVolume = units.EncodePercent(v)
	}
	if v, ok := op.float("fil_veltrack"); ok {
		z.Velocity.ToCutoff = units.EncodePercent(v / 96)
	}
	if v, ok := op.float("fileg_depth"); ok {
		z.FilterEnv = units.EncodePercent(v / 96)
	}
	if v, ok := op.float("pitcheg_depth"); ok {
		z.AuxAmount = units.EncodePercent(v / 96)
	}
	if v, ok := op.float("delay"); ok {
		z.NoteOnDelay = uint8(min(max(v/0.006, 0), 255))
	}

	switch op.m["loop_mode"] {
	case "no_loop", "one_shot":
		z.Flags |= units.FlagLoopDisable
	}
	if op.m["trigger"] == "legato" {
		z.Flags |= units.FlagTriggerMode
	}
	return z
}

type opcodes struct {
	m    map[string]string
	line int
	log  *slog.Logger
}

func (o opcodes) float(key string) (float64, bool) {
	s, ok := o.m[key]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		o.log.Warn("ignoring opcode", "line", o.line, "opcode", key, "value", s)
		return 0, false
	}
	return v, true
}

// envelope reads <prefix>_attack, _hold, _decay, _sustain and _release.
func (o opcodes) envelope(prefix string, e *bank.Envelope) {
	if v, ok := o.float(prefix + "_attack"); ok {
		e.Attack = units.EncodeTime163(v)
	}
	if v, ok := o.float(prefix + "_hold"); ok {
		e.Hold = units.EncodeTime21(v)
	}
	if v, ok := o.float(prefix + "_decay"); ok {
		e.Decay = units.EncodeTime163(v)
	}
	if v, ok := o.float(prefix + "_sustain"); ok {
		e.Sustain = uint8(units.EncodePercent(min(max(v, 0), 100)))
	}
	if v, ok := o.float(prefix + "_release"); ok {
		e.Release = units.EncodeTime163(v)
	}
}
