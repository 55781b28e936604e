package sfz

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/james-see/emubank/pkg/bank"
)

// Region is a flattened region: its own opcodes shadow those of the
// enclosing group, master and global sections.
type Region struct {
	Line      int
	Sample    string // resolved path
	Keys      bank.KeyRange
	KeyCenter int
	VelLow    int
	VelHigh   int
	Opcodes   map[string]string
}

// Regions flattens sections into regions. Key ranges are clamped to the
// 88-key keyboard; regions entirely outside it, or without a sample, are
// dropped with a warning.
func Regions(sections []Section, dir string, velLow, velHigh int, log *slog.Logger) []Region {
	var regions []Region
	control, global := map[string]string{}, map[string]string{}
	master, group := map[string]string{}, map[string]string{}
	for _, s := range sections {
		switch s.Header {
		case "control":
			control = s.Opcodes
		case "global":
			global, master, group = s.Opcodes, map[string]string{}, map[string]string{}
		case "master":
			master, group = s.Opcodes, map[string]string{}
		case "group":
			group = s.Opcodes
		case "region":
			op := merge(global, master, group, s.Opcodes)
			r, err := newRegion(s.Line, op, control["default_path"], dir, velLow, velHigh)
			if err != nil {
				log.Warn("skipping region", "line", s.Line, "reason", err)
				continue
			}
			regions = append(regions, r)
		default:
			log.Debug("ignoring section", "header", s.Header, "line", s.Line)
		}
	}
	return regions
}

func merge(levels ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, l := range levels {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

func newRegion(line int, op map[string]string, defaultPath, dir string, velLow, velHigh int) (Region, error) {
	r := Region{Line: line, Opcodes: op, VelLow: velLow, VelHigh: velHigh}
	sample := op["sample"]
	if sample == "" {
		return r, errors.New("no sample")
	}
	sample = strings.ReplaceAll(defaultPath+sample, `\`, "/")
	if !filepath.IsAbs(sample) {
		sample = filepath.Join(dir, filepath.FromSlash(sample))
	}
	r.Sample = sample

	lo, hi, center := 0, 127, -1
	var err error
	if v, ok := op["key"]; ok {
		if lo, err = ParseKey(v); err != nil {
			return r, err
		}
		hi, center = lo, lo
	}
	if v, ok := op["lokey"]; ok {
		if lo, err = ParseKey(v); err != nil {
			return r, err
		}
	}
	if v, ok := op["hikey"]; ok {
		if hi, err = ParseKey(v); err != nil {
			return r, err
		}
	}
	if v, ok := op["pitch_keycenter"]; ok {
		if center, err = ParseKey(v); err != nil {
			return r, err
		}
	}
	if center < 0 {
		center = lo
	}
	if hi < bank.LowestKey || lo > bank.HighestKey || lo > hi {
		return r, fmt.Errorf("keys %d-%d outside %d-%d", lo, hi, bank.LowestKey, bank.HighestKey)
	}
	r.Keys = bank.KeyRange{Low: max(lo, bank.LowestKey), High: min(hi, bank.HighestKey)}
	r.KeyCenter = center

	if v, ok := op["lovel"]; ok {
		if r.VelLow, err = strconv.Atoi(v); err != nil {
			return r, fmt.Errorf("lovel %q: %w", v, err)
		}
	}
	if v, ok := op["hivel"]; ok {
		if r.VelHigh, err = strconv.Atoi(v); err != nil {
			return r, fmt.Errorf("hivel %q: %w", v, err)
		}
	}
	if r.VelLow < 0 || r.VelHigh > 127 || r.VelLow > r.VelHigh {
		return r, fmt.Errorf("velocity %d-%d", r.VelLow, r.VelHigh)
	}
	return r, nil
}

var noteOffsets = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// ParseKey accepts a MIDI key number or a note name such as c4, f#3 or eb5,
// with c4 = 60.
func ParseKey(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("key %d out of range", n)
		}
		return n, nil
	}
	if s == "" {
		return 0, fmt.Errorf("empty key")
	}
	base, ok := noteOffsets[s[0]]
	if !ok {
		return 0, fmt.Errorf("invalid key %q", s)
	}
	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		base++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b") && len(rest) > 1:
		base--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q", s)
	}
	n := (octave+1)*12 + base
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("key %q out of range", s)
	}
	return n, nil
}
