// Package report produces read-only views of a bank: summaries, decoded zone
// parameters and sample exports.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/james-see/emubank/pkg/bank"
)

// Summary is the header and record overview of a bank.
type Summary struct {
	Format       string          `json:"format"`
	Name         string          `json:"name"`
	Size         int             `json:"size"`
	Params       [3]uint32       `json:"params"`
	Selected     int             `json:"selected_preset"`
	PresetBlocks int             `json:"preset_blocks"`
	SampleBlocks int             `json:"sample_blocks"`
	TotalBlocks  int             `json:"total_blocks"`
	Presets      []PresetSummary `json:"presets"`
	Samples      []SampleSummary `json:"samples"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// PresetSummary lists one preset.
type PresetSummary struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	NoteZones int    `json:"note_zones"`
	Zones     int    `json:"zones"`
	Link      int    `json:"link"` // -1 when unlinked
	VelLow    int    `json:"vel_low"`
	VelHigh   int    `json:"vel_high"`
	Bytes     int    `json:"bytes"`
}

// SampleSummary lists one sample.
type SampleSummary struct {
	Index      int                           `json:"index"`
	Name       string                        `json:"name"`
	SampleRate int                           `json:"sample_rate"`
	Channels   int                           `json:"channels"`
	Frames     int                           `json:"frames"`
	Looped     bool                          `json:"looped"`
	Params     [bank.SampleParamCount]uint32 `json:"params"`
	Bytes      int                           `json:"bytes"`
}

// Summarize walks every preset and sample of b.
func Summarize(b *bank.Bank) (*Summary, error) {
	h := b.Header()
	s := &Summary{
		Format:       b.Format().ID,
		Name:         h.BankName(),
		Size:         b.Size(),
		Params:       h.Params(),
		Selected:     h.SelectedPreset(),
		PresetBlocks: h.PresetBlocks(),
		SampleBlocks: h.SampleBlocks(),
		TotalBlocks:  h.TotalBlocks(),
		Presets:      []PresetSummary{},
		Samples:      []SampleSummary{},
		Warnings:     b.Check(),
	}

	presets, err := b.Presets()
	if err != nil {
		return nil, err
	}
	for _, p := range presets {
		link, ok := p.Link()
		if !ok {
			link = -1
		}
		lo, hi := p.VelocityRange(bank.Primary)
		s.Presets = append(s.Presets, PresetSummary{
			Index:     p.Index,
			Name:      p.Name(),
			NoteZones: p.ZoneCount(),
			Zones:     p.ZoneRecords(),
			Link:      link,
			VelLow:    lo,
			VelHigh:   hi,
			Bytes:     p.Size(),
		})
	}

	for i := 0; i < b.SampleCount(); i++ {
		smp, err := b.Sample(i)
		if err != nil {
			return nil, err
		}
		s.Samples = append(s.Samples, SampleSummary{
			Index:      i,
			Name:       smp.Name(),
			SampleRate: smp.SampleRate(),
			Channels:   smp.Channels(),
			Frames:     smp.Frames(),
			Looped:     smp.Looped(),
			Params:     smp.Params(),
			Bytes:      smp.Size(),
		})
	}
	return s, nil
}

// WriteText prints s as aligned tables.
func WriteText(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Bank:\t%s (%s)\n", s.Name, s.Format)
	fmt.Fprintf(tw, "Size:\t%d bytes, %d+%d=%d blocks\n", s.Size, s.PresetBlocks, s.SampleBlocks, s.TotalBlocks)
	fmt.Fprintf(tw, "Params:\t%#x %#x %#x\n", s.Params[0], s.Params[1], s.Params[2])
	fmt.Fprintf(tw, "Selected:\t%d\n", s.Selected)

	fmt.Fprintf(tw, "\nPresets (%d)\n", len(s.Presets))
	if len(s.Presets) > 0 {
		fmt.Fprintln(tw, "#\tName\tNote-zones\tZones\tVelocity\tLink\tBytes")
		for _, p := range s.Presets {
			link := "-"
			if p.Link >= 0 {
				link = fmt.Sprint(p.Link)
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d-%d\t%s\t%d\n",
				p.Index, p.Name, p.NoteZones, p.Zones, p.VelLow, p.VelHigh, link, p.Bytes)
		}
	}

	fmt.Fprintf(tw, "\nSamples (%d)\n", len(s.Samples))
	if len(s.Samples) > 0 {
		fmt.Fprintln(tw, "#\tName\tRate\tCh\tFrames\tLoop\tBytes")
		for _, smp := range s.Samples {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%v\t%d\n",
				smp.Index, smp.Name, smp.SampleRate, smp.Channels, smp.Frames, smp.Looped, smp.Bytes)
		}
	}

	for _, warn := range s.Warnings {
		fmt.Fprintf(tw, "\nwarning: %s", warn)
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
