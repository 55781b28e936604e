package bank

// Tables is a decoded copy of both address tables. The image stays the single
// source of truth; Tables is rebuilt whenever addresses are needed.
type Tables struct {
	Presets []uint32 // MaxPresets+1 entries
	Samples []uint32 // MaxSamples+1 entries
}

// PresetCount returns the first index whose slot pair is equal.
func PresetCount(f *Format, presets []uint32) int {
	for i := 0; i < f.MaxPresets; i++ {
		if presets[i] == presets[i+1] {
			return i
		}
	}
	return f.MaxPresets
}

// SampleCount returns the index of the first zero entry.
func SampleCount(f *Format, samples []uint32) int {
	for i := 0; i < f.MaxSamples; i++ {
		if samples[i] == 0 {
			return i
		}
	}
	return f.MaxSamples
}

// PresetAddress resolves slot n to an image offset. Slot MaxPresets is the
// end of the preset region.
func PresetAddress(f *Format, presets []uint32, n int) int {
	return f.presetOffset(presets[n])
}

// SampleDataStart is the image offset of the sample region.
func SampleDataStart(f *Format, presets []uint32) int {
	return PresetAddress(f, presets, f.MaxPresets) + f.SampleDataStartBias
}

// SampleAddress resolves sample slot n to the image offset of its header.
func SampleAddress(f *Format, t Tables, n int) int {
	return SampleDataStart(f, t.Presets) + int(t.Samples[n]) - SampleOffsetBias
}

// NextSampleAddress is where the next sample record will be appended.
func NextSampleAddress(f *Format, t Tables) int {
	return SampleAddress(f, t, f.MaxSamples)
}

// tables decodes both address tables from the image.
func (b *Bank) tables() Tables {
	f := b.format
	t := Tables{
		Presets: make([]uint32, f.MaxPresets+1),
		Samples: make([]uint32, f.MaxSamples+1),
	}
	for i := range t.Presets {
		t.Presets[i] = b.img.u32(f.PresetTableOffset + 4*i)
	}
	for i := range t.Samples {
		t.Samples[i] = b.img.u32(f.SampleTableOffset + 4*i)
	}
	return t
}

// Tables returns a snapshot of both address tables.
func (b *Bank) Tables() Tables {
	return b.tables()
}

func (b *Bank) presetEntry(i int) uint32 {
	return b.img.u32(b.format.PresetTableOffset + 4*i)
}

func (b *Bank) setPresetEntry(i int, v uint32) {
	b.img.putU32(b.format.PresetTableOffset+4*i, v)
}

func (b *Bank) setSampleEntry(i int, v uint32) {
	b.img.putU32(b.format.SampleTableOffset+4*i, v)
}

// PresetCount returns the number of used presets.
func (b *Bank) PresetCount() int {
	return PresetCount(b.format, b.tables().Presets)
}

// SampleCount returns the number of samples.
func (b *Bank) SampleCount() int {
	return SampleCount(b.format, b.tables().Samples)
}

func (b *Bank) presetAddress(n int) int {
	return b.format.presetOffset(b.presetEntry(n))
}

func (b *Bank) sampleDataStart() int {
	return b.presetAddress(b.format.MaxPresets) + b.format.SampleDataStartBias
}
