package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gitlab.com/gomidi/midi/v2"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/units"
)

// Envelope is a decoded envelope. Times are in seconds.
type Envelope struct {
	Attack  float64 `json:"attack"`
	Hold    float64 `json:"hold"`
	Decay   float64 `json:"decay"`
	Sustain int     `json:"sustain_percent"`
	Release float64 `json:"release"`
}

// LFO is a decoded LFO. Amounts are percent.
type LFO struct {
	RateHz    float64 `json:"rate_hz"`
	Shape     int     `json:"shape"`
	Delay     float64 `json:"delay"`
	Variation int     `json:"variation"`
	ToPitch   int     `json:"to_pitch"`
	ToCutoff  int     `json:"to_cutoff"`
	ToVolume  int     `json:"to_volume"`
}

// Zone is one zone record decoded to physical units.
type Zone struct {
	NoteZone    int      `json:"note_zone"`
	Layer       string   `json:"layer"`
	Record      int      `json:"record"`
	Low         int      `json:"low"`
	High        int      `json:"high"`
	Keys        string   `json:"keys"`
	Sample      int      `json:"sample"`
	SampleName  string   `json:"sample_name"`
	OriginalKey string   `json:"original_key"`
	Tuning      float64  `json:"tuning_cents"`
	Level       int      `json:"level"`
	Pan         int      `json:"pan"`
	VCA         Envelope `json:"vca"`
	CutoffHz    int      `json:"cutoff_hz"`
	Q           int      `json:"q"`
	QBias       bool     `json:"q_bias"`
	FilterType  int      `json:"filter_type"`
	Tracking    float64  `json:"tracking"`
	FilterEnv   int      `json:"filter_env"`
	VCF         Envelope `json:"vcf"`
	LFO         LFO      `json:"lfo"`
	Aux         Envelope `json:"aux"`
	AuxAmount   int      `json:"aux_amount"`
	AuxDest     int      `json:"aux_dest"`
	VelToVolume int      `json:"vel_to_volume"`
	VelToAttack int      `json:"vel_to_attack"`
	VelToCutoff int      `json:"vel_to_cutoff"`
	VelToPitch  int      `json:"vel_to_pitch"`
	VelToAux    int      `json:"vel_to_aux"`
	NoteOnDelay float64  `json:"note_on_delay"`
	VelLow      int      `json:"vel_low"`
	VelHigh     int      `json:"vel_high"`
	ChorusWidth int      `json:"chorus_width"`

	LoopDisabled  bool `json:"loop_disabled"`
	Chorus        bool `json:"chorus"`
	SideDisabled  bool `json:"side_disabled"`
	Solo          bool `json:"solo"`
	NonTranspose  bool `json:"non_transpose"`
	LegatoTrigger bool `json:"legato_trigger"`
	PitchRT       bool `json:"pitch_rt"`
	PressureRT    bool `json:"pressure_rt"`
}

// NoteName names a MIDI key.
func NoteName(key int) string {
	return midi.Note(uint8(key)).String()
}

// Zones decodes every layer of every note-zone of a preset.
func Zones(b *bank.Bank, preset int) ([]Zone, error) {
	p, err := b.Preset(preset)
	if err != nil {
		return nil, err
	}
	out := []Zone{}
	for nz := 0; nz < p.ZoneCount(); nz++ {
		v, err := p.NoteZone(nz)
		if err != nil {
			return nil, err
		}
		keys, _ := p.KeyRange(nz)
		for _, l := range []bank.Layer{bank.Primary, bank.Secondary} {
			idx, ok := v.Layer(l)
			if !ok {
				continue
			}
			zv, err := p.Zone(idx)
			if err != nil {
				return nil, fmt.Errorf("preset %d note-zone %d %s: %w", preset, nz, l, err)
			}
			z := decode(zv.Params())
			z.NoteZone, z.Layer, z.Record = nz, l.String(), idx
			z.Low, z.High = keys.Low, keys.High
			z.Keys = NoteName(keys.Low) + "-" + NoteName(keys.High)
			if s, err := b.Sample(z.Sample); err == nil {
				z.SampleName = s.Name()
			}
			out = append(out, z)
		}
	}
	return out, nil
}

func decode(p bank.ZoneParams) Zone {
	return Zone{
		Sample:      int(p.Sample),
		OriginalKey: NoteName(int(p.OriginalKey)),
		Tuning:      units.DecodeTuning(p.Tuning),
		Level:       units.DecodePercent(int8(p.Level)),
		Pan:         units.DecodePercent(p.Pan),
		VCA:         envelope(p.VCA),
		CutoffHz:    units.DecodeCutoff(p.Cutoff),
		Q:           int(p.Q &^ bank.QBiasBit),
		QBias:       p.Q&bank.QBiasBit != 0,
		FilterType:  int(p.FilterType),
		Tracking:    units.DecodeTracking(p.Tracking),
		FilterEnv:   units.DecodePercent(p.FilterEnv),
		VCF:         envelope(p.VCF),
		LFO: LFO{
			RateHz:    units.DecodeLFORate(int(p.LFO.Rate)),
			Shape:     int(p.LFO.Shape),
			Delay:     units.DecodeTime21(p.LFO.Delay),
			Variation: units.DecodeSymPercent(p.LFO.Variation),
			ToPitch:   units.DecodeSymPercent(p.LFO.ToPitch),
			ToCutoff:  units.DecodeSymPercent(p.LFO.ToCutoff),
			ToVolume:  units.DecodeSymPercent(p.LFO.ToVolume),
		},
		Aux:         envelope(p.Aux),
		AuxAmount:   units.DecodePercent(p.AuxAmount),
		AuxDest:     int(p.AuxDest),
		VelToVolume: units.DecodePercent(p.Velocity.ToVolume),
		VelToAttack: units.DecodePercent(p.Velocity.ToAttack),
		VelToCutoff: units.DecodePercent(p.Velocity.ToCutoff),
		VelToPitch:  units.DecodePercent(p.Velocity.ToPitch),
		VelToAux:    units.DecodePercent(p.Velocity.ToAux),
		NoteOnDelay: units.DecodeNoteOnDelay(p.NoteOnDelay),
		VelLow:      int(p.VelLow),
		VelHigh:     int(p.VelHigh),
		ChorusWidth: int(p.ChorusWidth),

		LoopDisabled:  units.LoopDisabled(p.Flags),
		Chorus:        units.ChorusOn(p.Flags),
		SideDisabled:  units.SideDisabled(p.Flags),
		Solo:          units.Solo(p.Flags),
		NonTranspose:  units.NonTranspose(p.Flags),
		LegatoTrigger: units.LegatoTrigger(p.Flags),
		PitchRT:       units.PitchRTEnabled(p.RTEnable),
		PressureRT:    units.PressureRTEnabled(p.RTEnable),
	}
}

func envelope(e bank.Envelope) Envelope {
	return Envelope{
		Attack:  units.DecodeTime163(e.Attack),
		Hold:    units.DecodeTime21(e.Hold),
		Decay:   units.DecodeTime163(e.Decay),
		Sustain: units.DecodePercent(int8(e.Sustain)),
		Release: units.DecodeTime163(e.Release),
	}
}

// WriteZones prints a zone report.
func WriteZones(w io.Writer, zones []Zone) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Zone\tLayer\tKeys\tSample\tRoot\tTune\tLevel\tCutoff\tQ\tVel\tAmp ADSR")
	for _, z := range zones {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d %s\t%s\t%+.1fc\t%d%%\t%dHz\t%d\t%d-%d\t%.2f/%.2f/%d%%/%.2f\n",
			z.NoteZone, z.Layer, z.Keys, z.Sample, z.SampleName, z.OriginalKey, z.Tuning,
			z.Level, z.CutoffHz, z.Q, z.VelLow, z.VelHigh,
			z.VCA.Attack, z.VCA.Decay, z.VCA.Sustain, z.VCA.Release)
	}
	return tw.Flush()
}
