// Package bank edits sampler bank images: a header, preset and sample address
// tables, and the variable-length preset and sample records they locate.
package bank

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Device is a bank template for one device type.
type Device interface {
	Name() string
	ID() string
	Format() *Format
	Params() [3]uint32
}

// Bank is an editing session over one memory image. It is not safe for
// concurrent use.
type Bank struct {
	img    *Image
	format *Format
	log    *slog.Logger
}

// Option configures a Bank.
type Option func(*options)

type options struct {
	capacity int
	logger   *slog.Logger
}

// WithLogger sets the diagnostic sink. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCapacity bounds the memory image.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		capacity: DefaultCapacity,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New parses a bank image. The data is copied.
func New(data []byte, opts ...Option) (*Bank, error) {
	o := newOptions(opts)
	if len(data) < HeaderSize {
		return nil, opErr("open", fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data)))
	}
	f, err := LookupFormat(data[hdrFormatName : hdrFormatName+NameSize])
	if err != nil {
		return nil, opErr("open", err)
	}
	if len(data) < f.EmptySize() {
		return nil, opErr("open", fmt.Errorf("%w: %d bytes is shorter than the %s tables", ErrCorrupt, len(data), f.ID))
	}
	img, err := NewImage(data, o.capacity)
	if err != nil {
		return nil, opErr("open", err)
	}
	b := &Bank{img: img, format: f, log: o.logger}
	if err := b.verify(); err != nil {
		return nil, opErr("open", err)
	}
	b.log.Debug("bank opened", "format", f.ID, "size", img.Size(),
		"presets", b.PresetCount(), "samples", b.SampleCount())
	return b, nil
}

// Open reads and parses a bank file.
func Open(path string, opts ...Option) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, opErr("open", fmt.Errorf("%w: %w", ErrIO, err))
	}
	return New(data, opts...)
}

// Create builds an empty bank from a device template.
func Create(dev Device, name string, opts ...Option) (*Bank, error) {
	o := newOptions(opts)
	f := dev.Format()
	img, err := NewImage(make([]byte, f.EmptySize()), o.capacity)
	if err != nil {
		return nil, opErr("create", err)
	}
	b := &Bank{img: img, format: f, log: o.logger}

	putName(img.buf[hdrFormatName:], f.Name)
	putName(img.buf[hdrBankName:], name)
	putName(img.buf[hdrNameCopy:], name)
	for i, p := range dev.Params() {
		img.putU32(hdrParams+4*i, p)
	}
	for i := 0; i <= f.MaxPresets; i++ {
		b.setPresetEntry(i, f.presetBase())
	}
	b.setSampleEntry(f.MaxSamples, SampleOffsetBias)
	b.syncHeader()

	b.log.Debug("bank created", "device", dev.ID(), "name", name, "size", img.Size())
	return b, nil
}

// Save writes the image to path.
func (b *Bank) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return opErr("save", fmt.Errorf("%w: %w", ErrIO, err))
	}
	n, err := f.Write(b.img.Bytes())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return opErr("save", fmt.Errorf("%w: %w", ErrIO, err))
	}
	if n != b.img.Size() {
		return opErr("save", fmt.Errorf("%w: wrote %d of %d bytes", ErrIO, n, b.img.Size()))
	}
	b.log.Debug("bank saved", "path", path, "size", n)
	return nil
}

// Bytes returns the image. The slice aliases the bank.
func (b *Bank) Bytes() []byte {
	return b.img.Bytes()
}

// Size returns the logical size of the image.
func (b *Bank) Size() int {
	return b.img.Size()
}

// Format returns the resolved descriptor.
func (b *Bank) Format() *Format {
	return b.format
}

// Logger returns the session's diagnostic sink.
func (b *Bank) Logger() *slog.Logger {
	return b.log
}

// Header returns a view of the bank header.
func (b *Bank) Header() Header {
	return Header{b: b.img.buf[:HeaderSize]}
}

// Preset returns a view of used preset n.
func (b *Bank) Preset(n int) (Preset, error) {
	if n < 0 || n >= b.PresetCount() {
		return Preset{}, fmt.Errorf("%w: %d", ErrPresetIndex, n)
	}
	start, end := b.presetAddress(n), b.presetAddress(n+1)
	span, err := b.img.span(start, end-start)
	if err != nil {
		return Preset{}, err
	}
	if len(span) < PresetHeaderSize {
		return Preset{}, fmt.Errorf("%w: preset %d is %d bytes", ErrCorrupt, n, len(span))
	}
	return Preset{Index: n, b: span}, nil
}

// Presets returns views of all used presets.
func (b *Bank) Presets() ([]Preset, error) {
	n := b.PresetCount()
	out := make([]Preset, 0, n)
	for i := 0; i < n; i++ {
		p, err := b.Preset(i)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Sample returns a view of sample n.
func (b *Bank) Sample(n int) (Sample, error) {
	t := b.tables()
	if n < 0 || n >= SampleCount(b.format, t.Samples) {
		return Sample{}, fmt.Errorf("%w: %d", ErrSampleIndex, n)
	}
	start := SampleAddress(b.format, t, n)
	end := SampleAddress(b.format, t, n+1)
	if n+1 == SampleCount(b.format, t.Samples) {
		end = NextSampleAddress(b.format, t)
	}
	span, err := b.img.span(start, end-start)
	if err != nil {
		return Sample{}, err
	}
	if len(span) < SampleHeaderSize {
		return Sample{}, fmt.Errorf("%w: sample %d is %d bytes", ErrCorrupt, n, len(span))
	}
	return Sample{Index: n, b: span}, nil
}

// verify checks the table invariants that every later address computation
// relies on.
func (b *Bank) verify() error {
	f := b.format
	t := b.tables()
	prev := PresetAddress(f, t.Presets, 0)
	if prev < f.PresetDataStart {
		return fmt.Errorf("%w: preset 0 at %d before preset data", ErrCorrupt, prev)
	}
	for i := 1; i <= f.MaxPresets; i++ {
		a := PresetAddress(f, t.Presets, i)
		if a < prev {
			return fmt.Errorf("%w: preset table decreases at slot %d", ErrCorrupt, i)
		}
		prev = a
	}
	if SampleDataStart(f, t.Presets) > b.img.Size() {
		return fmt.Errorf("%w: sample data starts past end of image", ErrCorrupt)
	}
	if next := NextSampleAddress(f, t); next != b.img.Size() {
		return fmt.Errorf("%w: next sample at %d, image is %d bytes", ErrCorrupt, next, b.img.Size())
	}
	return nil
}

// Check returns consistency warnings. They never block editing.
func (b *Bank) Check() []string {
	var warnings []string
	h := b.Header()
	if h.BankName() != h.NameCopy() {
		warnings = append(warnings, fmt.Sprintf("bank name %q differs from name copy %q", h.BankName(), h.NameCopy()))
	}
	if h.PresetBlocks()+h.SampleBlocks() != h.TotalBlocks() {
		warnings = append(warnings, fmt.Sprintf("block count mismatch: %d preset + %d sample != %d total",
			h.PresetBlocks(), h.SampleBlocks(), h.TotalBlocks()))
	}
	if h.NextPreset() != b.PresetCount() {
		warnings = append(warnings, fmt.Sprintf("next preset cursor %d, table holds %d presets", h.NextPreset(), b.PresetCount()))
	}
	if h.NextSample() != b.SampleCount() {
		warnings = append(warnings, fmt.Sprintf("next sample cursor %d, table holds %d samples", h.NextSample(), b.SampleCount()))
	}
	for _, w := range warnings {
		b.log.Warn(w)
	}
	return warnings
}

// syncHeader rewrites the cursors, object count and block counts.
func (b *Bank) syncHeader() {
	presets, samples := b.PresetCount(), b.SampleCount()
	b.img.putU32(hdrObjectCount, uint32(presets+samples))
	b.img.putU32(hdrNextPreset, uint32(presets))
	b.img.putU32(hdrNextSample, uint32(samples))

	start := b.sampleDataStart()
	pb, sb := blocks(start), blocks(b.img.Size()-start)
	b.img.putU32(hdrPresetBlocks, uint32(pb))
	b.img.putU32(hdrSampleBlocks, uint32(sb))
	b.img.putU32(hdrTotalBlocks, uint32(pb+sb))
}
