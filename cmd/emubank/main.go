// Package main is the entry point for the emubank CLI
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/bank/devices"
	"github.com/james-see/emubank/pkg/config"
	"github.com/james-see/emubank/pkg/sfz"
	"github.com/james-see/emubank/pkg/wavio"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(bank.ExitCode(err))
	}
}

// app carries what every command needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool
	stderr     io.Writer

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:   "emubank",
		Short: "Edit E-mu sampler bank files",
		Long: `emubank creates and edits E-mu Emulator III, IIIX and ESI bank files:
presets, zones and samples, with SFZ import and WAV extraction.

Examples:
  emubank new strings.e3x --device e3x --name STRINGS
  emubank add-preset strings.e3x "Violins"
  emubank add-zone strings.e3x --preset 0 --low c2 --high c5 --wav violin.wav --root c4
  emubank import-sfz choir.e3x choir.sfz
  emubank extract strings.e3x -o samples/
  emubank tui strings.e3x
  emubank serve --port 8080`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultFile, "Config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(
		a.newCmd(),
		a.infoCmd(),
		a.addSampleCmd(),
		a.addPresetCmd(),
		a.deletePresetCmd(),
		a.addZoneCmd(),
		a.deleteZoneCmd(),
		a.editAllCmd(),
		a.extractCmd(),
		a.importSFZCmd(),
		a.keymapCmd(),
		a.chunksCmd(),
		a.tuiCmd(),
		a.serveCmd(),
		a.mcpCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) options() []bank.Option {
	return []bank.Option{bank.WithCapacity(a.cfg.Capacity()), bank.WithLogger(a.log)}
}

func (a *app) open(path string) (*bank.Bank, error) {
	return bank.Open(path, a.options()...)
}

// edit opens path, applies fn and saves only if fn succeeds.
func (a *app) edit(path string, fn func(b *bank.Bank) error) error {
	b, err := a.open(path)
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		return err
	}
	return b.Save(path)
}

func (a *app) newCmd() *cobra.Command {
	var deviceName, name string
	cmd := &cobra.Command{
		Use:   "new <bank>",
		Short: "Create an empty bank from a device template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deviceName == "" {
				deviceName = a.cfg.Device
			}
			dev, err := devices.Lookup(deviceName)
			if err != nil {
				return err
			}
			b, err := bank.Create(dev, name, a.options()...)
			if err != nil {
				return err
			}
			if err := b.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s bank %s (%d bytes)\n", dev.Name(), args[0], b.Size())
			return nil
		},
	}
	cmd.Flags().StringVarP(&deviceName, "device", "d", "", fmt.Sprintf("Device template (%s)", strings.Join(devices.IDs(), ", ")))
	cmd.Flags().StringVarP(&name, "name", "n", "UNTITLED", "Bank name")
	return cmd
}

func (a *app) addSampleCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add-sample <bank> <file.wav>",
		Short: "Append a WAV file as a new sample",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcm, err := wavio.Read(args[1])
			if err != nil {
				return err
			}
			if name == "" {
				name = baseName(args[1])
			}
			return a.edit(args[0], func(b *bank.Bank) error {
				n, err := b.AddSample(name, pcm)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added sample %d %q (%d frames)\n", n, name, pcm.Frames)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Sample name (default: file name)")
	return cmd
}

func (a *app) addPresetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-preset <bank> <name>",
		Short: "Add an empty preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(args[0], func(b *bank.Bank) error {
				n, err := b.AddPreset(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added preset %d %q\n", n, args[1])
				return nil
			})
		},
	}
}

func (a *app) deletePresetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-preset <bank> <preset>",
		Short: "Delete a preset and its zones",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex("preset", args[1])
			if err != nil {
				return err
			}
			return a.edit(args[0], func(b *bank.Bank) error {
				if err := b.DeletePreset(n); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %d\n", n)
				return nil
			})
		},
	}
}

var errUsage = errors.New("invalid argument")

func parseIndex(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %q", errUsage, what, s)
	}
	return n, nil
}

func parseLayer(s string) (bank.Layer, error) {
	switch strings.ToLower(s) {
	case "primary", "1":
		return bank.Primary, nil
	case "secondary", "2":
		return bank.Secondary, nil
	}
	return 0, fmt.Errorf("%w: layer %q", errUsage, s)
}

// parseKey accepts a MIDI note number or a note name such as c4 or f#2.
func parseKey(s string) (int, error) {
	k, err := sfz.ParseKey(s)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q", errUsage, s)
	}
	return k, nil
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
