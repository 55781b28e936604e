package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/wavio"
)

func (a *app) addZoneCmd() *cobra.Command {
	var (
		preset, sample  int
		low, high, root string
		layerName, wav  string
		name            string
		velLow, velHigh int
	)
	cmd := &cobra.Command{
		Use:   "add-zone <bank>",
		Short: "Map a sample onto a key range of a preset",
		Long: `Adds a zone covering --low..--high in a preset. The primary layer needs an
unmapped range; the secondary layer needs a range inside one existing note-zone.
The zone plays an existing sample (--sample) or a WAV file appended first (--wav).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := parseKey(low)
			if err != nil {
				return err
			}
			hi, err := parseKey(high)
			if err != nil {
				return err
			}
			if root == "" {
				root = low
			}
			key, err := parseKey(root)
			if err != nil {
				return err
			}
			layer, err := parseLayer(layerName)
			if err != nil {
				return err
			}
			if err := bank.CheckVelocity(velLow, velHigh); err != nil {
				return err
			}
			r := bank.KeyRange{Low: lo, High: hi}

			if wav == "" {
				return a.edit(args[0], func(b *bank.Bank) error {
					z := bank.DefaultZone(b.Format(), sample, key, velLow, velHigh)
					nz, err := b.AddZone(preset, r, layer, z)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s zone to note-zone %d of preset %d\n", layer, nz, preset)
					return nil
				})
			}

			pcm, err := wavio.Read(wav)
			if err != nil {
				return err
			}
			if name == "" {
				name = baseName(wav)
			}
			return a.edit(args[0], func(b *bank.Bank) error {
				z := bank.DefaultZone(b.Format(), 0, key, velLow, velHigh)
				s, nz, err := b.AddSampleZone(preset, r, layer, name, pcm, z)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added sample %d %q as %s zone of note-zone %d in preset %d\n",
					s, name, layer, nz, preset)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.IntVarP(&preset, "preset", "p", 0, "Preset index")
	f.StringVar(&low, "low", "", "Lowest key, number or name (required)")
	f.StringVar(&high, "high", "", "Highest key, number or name (required)")
	f.StringVar(&root, "root", "", "Original key of the sample (default: --low)")
	f.StringVar(&layerName, "layer", "primary", "Layer: primary or secondary")
	f.IntVarP(&sample, "sample", "s", 0, "Existing sample index")
	f.StringVar(&wav, "wav", "", "WAV file to append and map")
	f.StringVarP(&name, "name", "n", "", "Name of the appended sample (default: file name)")
	f.IntVar(&velLow, "vel-low", 0, "Lowest velocity")
	f.IntVar(&velHigh, "vel-high", 127, "Highest velocity")
	_ = cmd.MarkFlagRequired("low")
	_ = cmd.MarkFlagRequired("high")
	cmd.MarkFlagsMutuallyExclusive("sample", "wav")
	return cmd
}

func (a *app) deleteZoneCmd() *cobra.Command {
	var (
		preset, zone int
		key          string
	)
	cmd := &cobra.Command{
		Use:   "delete-zone <bank>",
		Short: "Delete a note-zone and its zones from a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" && !cmd.Flags().Changed("zone") {
				return fmt.Errorf("%w: one of --zone or --key is required", errUsage)
			}
			return a.edit(args[0], func(b *bank.Bank) error {
				if key != "" {
					k, err := parseKey(key)
					if err != nil {
						return err
					}
					if zone, err = b.NoteZoneAt(preset, k); err != nil {
						return err
					}
				}
				if err := b.DeleteZone(preset, zone); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note-zone %d of preset %d\n", zone, preset)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.IntVarP(&preset, "preset", "p", 0, "Preset index")
	f.IntVarP(&zone, "zone", "z", 0, "Note-zone index")
	f.StringVarP(&key, "key", "k", "", "Any key the note-zone covers, number or name")
	cmd.MarkFlagsMutuallyExclusive("zone", "key")
	return cmd
}

func (a *app) editAllCmd() *cobra.Command {
	var (
		routing                            []int
		bend, level, cutoff, q, filterType int
	)
	cmd := &cobra.Command{
		Use:   "edit-all <bank>",
		Short: "Set controller routing, pitch bend, level and filter on every preset",
		Long: `Writes the given values into every preset header (routing, pitch bend) and
every zone (level, cutoff, Q, filter type). Flags left out are not touched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e bank.GlobalEdit
			f := cmd.Flags()
			if f.Changed("routing") {
				if len(routing) != bank.RoutingSize {
					return fmt.Errorf("%w: --routing needs %d values, got %d", errUsage, bank.RoutingSize, len(routing))
				}
				var r [bank.RoutingSize]byte
				for i, v := range routing {
					if v < 0 || v > 0xFF {
						return fmt.Errorf("%w: routing value %d", errUsage, v)
					}
					r[i] = byte(v)
				}
				e.Routing = &r
			}
			set := func(flag string, v int, dst **int) {
				if f.Changed(flag) {
					*dst = &v
				}
			}
			set("bend", bend, &e.PitchBend)
			set("level", level, &e.Level)
			set("cutoff", cutoff, &e.Cutoff)
			set("q", q, &e.Q)
			set("filter", filterType, &e.FilterType)
			return a.edit(args[0], func(b *bank.Bank) error {
				if err := b.EditAll(e); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Edited %d presets\n", b.PresetCount())
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.IntSliceVar(&routing, "routing", nil, fmt.Sprintf("Realtime controller routing, %d comma separated values", bank.RoutingSize))
	f.IntVar(&bend, "bend", 2, "Pitch bend range in semitones (0-36)")
	f.IntVar(&level, "level", 100, "Zone level (0-127)")
	f.IntVar(&cutoff, "cutoff", 255, "Filter cutoff (0-255)")
	f.IntVar(&q, "q", 0, "Filter Q (0-127)")
	f.IntVar(&filterType, "filter", 0, fmt.Sprintf("Filter type (0-%d)", bank.FilterTypes-1))
	return cmd
}
