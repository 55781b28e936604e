package bank

import (
	"bytes"
	"testing"
)

type testDevice struct {
	f *Format
}

func (d testDevice) Name() string      { return "Test " + d.f.ID }
func (d testDevice) ID() string        { return d.f.ID }
func (d testDevice) Format() *Format   { return d.f }
func (d testDevice) Params() [3]uint32 { return [3]uint32{1, 2, 3} }

func newTestBank(t *testing.T, f *Format, opts ...Option) *Bank {
	t.Helper()
	b, err := Create(testDevice{f}, "TEST BANK", opts...)
	if err != nil {
		t.Fatalf("Create(%s) error = %v", f.ID, err)
	}
	return b
}

func testPCM(channels, frames int) *PCM {
	data := make([]int16, channels*frames)
	for i := range data {
		data[i] = int16(i*37 - 1000)
	}
	return &PCM{SampleRate: 44100, Channels: channels, Frames: frames, Data: data}
}

func snapshot(b *Bank) []byte {
	return bytes.Clone(b.Bytes())
}

// checkInvariants verifies the relations every mutation must keep.
func checkInvariants(t *testing.T, b *Bank) {
	t.Helper()
	if err := b.verify(); err != nil {
		t.Fatalf("verify() error = %v", err)
	}
	if w := b.Check(); len(w) != 0 {
		t.Fatalf("Check() = %v, want no warnings", w)
	}
	h := b.Header()
	start := b.sampleDataStart()
	if got, want := h.PresetBlocks(), (start+BlockSize-1)/BlockSize; got != want {
		t.Errorf("PresetBlocks() = %d, want %d", got, want)
	}
	if got, want := h.SampleBlocks(), (b.Size()-start+BlockSize-1)/BlockSize; got != want {
		t.Errorf("SampleBlocks() = %d, want %d", got, want)
	}
	if got, want := h.ObjectCount(), b.PresetCount()+b.SampleCount(); got != want {
		t.Errorf("ObjectCount() = %d, want %d", got, want)
	}
}
