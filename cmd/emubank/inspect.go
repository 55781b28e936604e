package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/bank/devices"
	"github.com/james-see/emubank/pkg/keymap"
	"github.com/james-see/emubank/pkg/report"
	"github.com/james-see/emubank/pkg/sfz"
)

func (a *app) infoCmd() *cobra.Command {
	var (
		asJSON bool
		zones  []int
	)
	cmd := &cobra.Command{
		Use:   "info <bank>",
		Short: "Print the header, presets and samples of a bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s, err := report.Summarize(b)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			if err := report.WriteText(out, s); err != nil {
				return err
			}
			for _, n := range zones {
				z, err := report.Zones(b, n)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nPreset %d zones\n", n)
				if err := report.WriteZones(out, z); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	cmd.Flags().IntSliceVarP(&zones, "zones", "z", nil, "Also print the decoded zones of these presets")
	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "extract <bank>",
		Short: "Write every sample to a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.open(args[0])
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_samples"
			}
			paths, err := report.ExtractSamples(b, outDir)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output directory (default: <bank>_samples)")
	return cmd
}

func (a *app) importSFZCmd() *cobra.Command {
	var (
		name, deviceName string
		velLow, velHigh  int
	)
	cmd := &cobra.Command{
		Use:   "import-sfz <bank> <file.sfz>",
		Short: "Import an SFZ instrument as linked velocity-layer presets",
		Long: `Imports every region of an SFZ file. Regions sharing a velocity range become
one preset; presets are linked from the softest layer up. The bank is created
from --device when it does not exist yet.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			b, err := a.open(path)
			if errors.Is(err, fs.ErrNotExist) {
				if deviceName == "" {
					deviceName = a.cfg.Device
				}
				dev, derr := devices.Lookup(deviceName)
				if derr != nil {
					return derr
				}
				a.log.Info("creating bank", "path", path, "device", dev.ID())
				b, err = bank.Create(dev, strings.ToUpper(baseName(path)), a.options()...)
			}
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("lovel") {
				velLow = a.cfg.VelLow
			}
			if !cmd.Flags().Changed("hivel") {
				velHigh = a.cfg.VelHigh
			}
			res, err := sfz.ImportFile(b, args[1], sfz.Options{
				Name:    name,
				VelLow:  velLow,
				VelHigh: velHigh,
				Logger:  a.log,
			})
			if err != nil {
				return err
			}
			if err := b.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d presets, %d samples, %d zones (%d regions skipped)\n",
				len(res.Presets), res.Samples, res.Zones, res.Skipped)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&name, "name", "n", "", "Preset name (default: SFZ file name)")
	f.StringVarP(&deviceName, "device", "d", "", "Device template for a new bank")
	f.IntVar(&velLow, "lovel", 1, "Velocity floor for regions without lovel")
	f.IntVar(&velHigh, "hivel", 127, "Velocity ceiling for regions without hivel")
	return cmd
}

func (a *app) keymapCmd() *cobra.Command {
	var (
		output   string
		tempo    float64
		channel  uint8
		everyKey bool
	)
	cmd := &cobra.Command{
		Use:   "keymap <bank> <preset>",
		Short: "Export a MIDI file that plays every zone of a preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex("preset", args[1])
			if err != nil {
				return err
			}
			b, err := a.open(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("%s_preset%03d.mid", strings.TrimSuffix(args[0], filepath.Ext(args[0])), n)
			}
			opts := []keymap.Option{keymap.WithTempo(tempo), keymap.WithChannel(channel)}
			if everyKey {
				opts = append(opts, keymap.WithEveryKey())
			}
			if err := keymap.NewExporter(opts...).WriteMIDIFile(b, n, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "Output .mid file path")
	f.Float64Var(&tempo, "tempo", 120, "Tempo in BPM")
	f.Uint8Var(&channel, "channel", 0, "MIDI channel (0-15)")
	f.BoolVar(&everyKey, "every-key", false, "Play every mapped key, not one root per note-zone")
	return cmd
}

func (a *app) chunksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chunks <file>",
		Short: "List the tagged chunks of a chunked sample file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("%w: %w", bank.ErrIO, err)
			}
			chunks, err := bank.ReadChunks(data)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Tag\tOffset\tLength")
			for _, c := range chunks {
				fmt.Fprintf(tw, "%s\t%#x\t%d\n", c.Tag, c.Offset, len(c.Data))
			}
			if ferr := tw.Flush(); err == nil {
				err = ferr
			}
			return err
		},
	}
}
