package bank

import (
	"encoding/binary"
	"fmt"
)

// Sample record layout.
const (
	SampleHeaderSize = 0x5C
	SampleParamCount = 9
	SampleTrailCount = 8
	PadFrames        = 32 // zero frames before and after the channel data

	smpName     = 0x00
	smpParams   = 0x10
	smpRate     = 0x34
	smpFormat   = 0x38
	smpTrailing = 0x3C
)

// Sample parameter slots.
const (
	ParamDataStart = iota
	ParamDataEnd
	ParamLoopStart
	ParamLoopEnd
	ParamFrames
)

// Sample format bits.
const (
	FormatStereo        = 1 << 0
	FormatLoop          = 1 << 1
	FormatLoopInRelease = 1 << 2
)

// PCM is decoded 16-bit audio as exchanged with the sample codec.
type PCM struct {
	SampleRate int
	Channels   int
	Frames     int
	Data       []int16 // interleaved, len == Frames*Channels
}

// validate rejects anything but mono or stereo with consistent lengths.
func (p *PCM) validate() error {
	if p.Channels != 1 && p.Channels != 2 {
		return fmt.Errorf("%w: %d", ErrChannels, p.Channels)
	}
	if p.Frames < 0 || len(p.Data) < p.Frames*p.Channels {
		return fmt.Errorf("%w: %d frames, %d samples", ErrChannels, p.Frames, len(p.Data))
	}
	return nil
}

// sampleRecordSize is the byte length of the record holding p.
func sampleRecordSize(p *PCM) int {
	return SampleHeaderSize + (p.Frames+2*PadFrames)*p.Channels*2
}

// writeSampleRecord fills b, sized by sampleRecordSize, with the record.
func writeSampleRecord(b []byte, name string, p *PCM) {
	clear(b)
	putName(b[smpName:], name)
	frameBytes := 2 * p.Channels
	start := SampleHeaderSize + PadFrames*frameBytes
	end := start + p.Frames*frameBytes
	params := [SampleParamCount]uint32{
		ParamDataStart: uint32(start),
		ParamDataEnd:   uint32(end),
		ParamLoopStart: uint32(start),
		ParamLoopEnd:   uint32(end),
		ParamFrames:    uint32(p.Frames),
	}
	for i, v := range params {
		binary.LittleEndian.PutUint32(b[smpParams+4*i:], v)
	}
	binary.LittleEndian.PutUint32(b[smpRate:], uint32(p.SampleRate))
	var format uint32
	if p.Channels == 2 {
		format |= FormatStereo
	}
	binary.LittleEndian.PutUint32(b[smpFormat:], format)
	for i := 0; i < p.Frames*p.Channels; i++ {
		binary.LittleEndian.PutUint16(b[start+2*i:], uint16(p.Data[i]))
	}
}

// Sample is a view over one sample record.
type Sample struct {
	Index int
	b     []byte
}

func (s Sample) Name() string { return trimName(s.b[smpName:]) }

// Param returns header parameter i.
func (s Sample) Param(i int) uint32 {
	return binary.LittleEndian.Uint32(s.b[smpParams+4*i:])
}

// Params returns all nine header parameters.
func (s Sample) Params() [SampleParamCount]uint32 {
	var p [SampleParamCount]uint32
	for i := range p {
		p[i] = s.Param(i)
	}
	return p
}

// Trailing returns the eight trailing parameters.
func (s Sample) Trailing() [SampleTrailCount]uint32 {
	var p [SampleTrailCount]uint32
	for i := range p {
		p[i] = binary.LittleEndian.Uint32(s.b[smpTrailing+4*i:])
	}
	return p
}

func (s Sample) SampleRate() int { return int(binary.LittleEndian.Uint32(s.b[smpRate:])) }
func (s Sample) Format() uint32  { return binary.LittleEndian.Uint32(s.b[smpFormat:]) }

// Channels is 2 for stereo samples, 1 otherwise.
func (s Sample) Channels() int {
	if s.Format()&FormatStereo != 0 {
		return 2
	}
	return 1
}

func (s Sample) Looped() bool { return s.Format()&FormatLoop != 0 }

// Frames is the frame count stored in the header.
func (s Sample) Frames() int { return int(s.Param(ParamFrames)) }

// Size is the byte length of the record.
func (s Sample) Size() int { return len(s.b) }

// PCM copies the channel data out of the record.
func (s Sample) PCM() (*PCM, error) {
	ch := s.Channels()
	start := int(s.Param(ParamDataStart))
	n := s.Frames() * ch
	if start < SampleHeaderSize || start+2*n > len(s.b) {
		return nil, fmt.Errorf("%w: sample %d data [%d, %d) outside %d bytes",
			ErrCorrupt, s.Index, start, start+2*n, len(s.b))
	}
	data := make([]int16, n)
	for i := range data {
		data[i] = int16(binary.LittleEndian.Uint16(s.b[start+2*i:]))
	}
	return &PCM{SampleRate: s.SampleRate(), Channels: ch, Frames: s.Frames(), Data: data}, nil
}
