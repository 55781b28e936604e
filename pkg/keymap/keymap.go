// Package keymap renders a preset's key map as a Standard MIDI File that
// auditions every mapped key.
package keymap

import (
	"bytes"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/emubank/pkg/bank"
)

// Exporter renders key maps
type Exporter struct {
	ticksPerQuarter uint16
	tempo           float64
	channel         uint8
	everyKey        bool
}

// Option configures an Exporter
type Option func(*Exporter)

// WithTempo sets the playback tempo in BPM
func WithTempo(bpm float64) Option {
	return func(e *Exporter) {
		if bpm > 0 {
			e.tempo = bpm
		}
	}
}

// WithChannel sets the MIDI channel (0-15)
func WithChannel(ch uint8) Option {
	return func(e *Exporter) {
		e.channel = ch & 0x0F
	}
}

// WithEveryKey plays every mapped key instead of one root note per note-zone
func WithEveryKey() Option {
	return func(e *Exporter) {
		e.everyKey = true
	}
}

// NewExporter creates a new key map exporter
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		ticksPerQuarter: 480,
		tempo:           120.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// note is one audition step
type note struct {
	key      uint8
	velocity uint8
}

// notes lists the audition steps of a preset in key order
func (e *Exporter) notes(p bank.Preset) []note {
	var out []note
	seen := map[int]bool{}
	for k := bank.LowestKey; k <= bank.HighestKey; k++ {
		nz, ok := p.NoteMap(k)
		if !ok {
			continue
		}
		if !e.everyKey && seen[nz] {
			continue
		}
		seen[nz] = true
		vel := uint8(100)
		if v, err := p.NoteZone(nz); err == nil {
			if idx, ok := v.Layer(bank.Primary); ok {
				if z, err := p.Zone(idx); err == nil {
					if hi := z.Params().VelHigh; hi > 0 && hi < vel {
						vel = hi
					}
				}
			}
		}
		out = append(out, note{key: uint8(k), velocity: vel})
	}
	return out
}

// GenerateMIDI creates a single-track SMF auditioning preset n: one quarter
// note per step
func (e *Exporter) GenerateMIDI(b *bank.Bank, n int) ([]byte, error) {
	p, err := b.Preset(n)
	if err != nil {
		return nil, err
	}
	notes := e.notes(p)
	if len(notes) == 0 {
		return nil, fmt.Errorf("%w: preset %d has no mapped keys", bank.ErrNoteRangeUnassigned, n)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(e.ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(p.Name()))
	track.Add(0, smf.MetaTempo(e.tempo))
	track.Add(0, smf.MetaMeter(4, 4))

	step := uint32(e.ticksPerQuarter)
	length := step * 3 / 4
	for i, nt := range notes {
		var delta uint32
		if i > 0 {
			delta = step - length
		}
		track.Add(delta, midi.NoteOn(e.channel, nt.key, nt.velocity))
		track.Add(length, midi.NoteOff(e.channel, nt.key))
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile writes the audition of preset n to filename
func (e *Exporter) WriteMIDIFile(b *bank.Bank, n int, filename string) error {
	data, err := e.GenerateMIDI(b, n)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", bank.ErrIO, err)
	}
	return nil
}
