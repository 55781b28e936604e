// Package wavio converts between WAV files and the 16-bit PCM held in bank
// sample records.
package wavio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/james-see/emubank/pkg/bank"
)

const pcmFormat = 1 // WAVE_FORMAT_PCM

// Read decodes the WAV file at path.
func Read(path string) (*bank.PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bank.ErrIO, err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode reads a WAV stream and converts it to 16-bit PCM. Only mono and
// stereo sources are accepted.
func Decode(r io.ReadSeeker) (*bank.PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a PCM wav file", bank.ErrSampleFormat)
	}
	ch := int(d.NumChans)
	if ch != 1 && ch != 2 {
		return nil, fmt.Errorf("%w: %d", bank.ErrChannels, ch)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bank.ErrSampleFormat, err)
	}

	depth := int(d.BitDepth)
	data := make([]int16, len(buf.Data)-len(buf.Data)%ch)
	for i := range data {
		v, err := to16(buf.Data[i], depth)
		if err != nil {
			return nil, err
		}
		data[i] = v
	}
	return &bank.PCM{
		SampleRate: int(d.SampleRate),
		Channels:   ch,
		Frames:     len(data) / ch,
		Data:       data,
	}, nil
}

// to16 scales one sample of the given bit depth to 16 bits.
func to16(v, depth int) (int16, error) {
	switch depth {
	case 8:
		return int16((v - 128) << 8), nil
	case 16:
		return int16(v), nil
	case 24:
		return int16(v >> 8), nil
	case 32:
		return int16(v >> 16), nil
	default:
		return 0, fmt.Errorf("%w: %d-bit samples", bank.ErrSampleFormat, depth)
	}
}

// Write encodes p as a 16-bit WAV file at path.
func Write(path string, p *bank.PCM) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", bank.ErrIO, err)
	}
	if err := Encode(f, p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", bank.ErrIO, err)
	}
	return nil
}

// Encode writes p to w as a 16-bit WAV stream.
func Encode(w io.WriteSeeker, p *bank.PCM) error {
	if p.Channels != 1 && p.Channels != 2 {
		return fmt.Errorf("%w: %d", bank.ErrChannels, p.Channels)
	}
	enc := wav.NewEncoder(w, p.SampleRate, 16, p.Channels, pcmFormat)
	data := make([]int, p.Frames*p.Channels)
	for i := range data {
		data[i] = int(p.Data[i])
	}
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: p.SampleRate, NumChannels: p.Channels},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w: %w", bank.ErrIO, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", bank.ErrIO, err)
	}
	return nil
}
