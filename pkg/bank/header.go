package bank

import (
	"bytes"
	"encoding/binary"
)

// Bank header layout.
const (
	HeaderSize = 0x58
	NameSize   = 16
	BlockSize  = 512

	hdrFormatName   = 0x00
	hdrBankName     = 0x10
	hdrNameCopy     = 0x20
	hdrObjectCount  = 0x30
	hdrNextPreset   = 0x34
	hdrNextSample   = 0x38
	hdrPresetBlocks = 0x3C
	hdrSampleBlocks = 0x40
	hdrTotalBlocks  = 0x44
	hdrSelected     = 0x48
	hdrParams       = 0x4C
)

// Header is a read view of the bank header.
type Header struct {
	b []byte
}

func (h Header) FormatName() string { return trimName(h.b[hdrFormatName:]) }
func (h Header) BankName() string   { return trimName(h.b[hdrBankName:]) }
func (h Header) NameCopy() string   { return trimName(h.b[hdrNameCopy:]) }

func (h Header) ObjectCount() int  { return int(binary.LittleEndian.Uint32(h.b[hdrObjectCount:])) }
func (h Header) NextPreset() int   { return int(binary.LittleEndian.Uint32(h.b[hdrNextPreset:])) }
func (h Header) NextSample() int   { return int(binary.LittleEndian.Uint32(h.b[hdrNextSample:])) }
func (h Header) PresetBlocks() int { return int(binary.LittleEndian.Uint32(h.b[hdrPresetBlocks:])) }
func (h Header) SampleBlocks() int { return int(binary.LittleEndian.Uint32(h.b[hdrSampleBlocks:])) }
func (h Header) TotalBlocks() int  { return int(binary.LittleEndian.Uint32(h.b[hdrTotalBlocks:])) }

// SelectedPreset is the preset the device selects after loading.
func (h Header) SelectedPreset() int {
	return int(binary.LittleEndian.Uint16(h.b[hdrSelected:]))
}

// Params returns the three opaque header parameters.
func (h Header) Params() [3]uint32 {
	var p [3]uint32
	for i := range p {
		p[i] = binary.LittleEndian.Uint32(h.b[hdrParams+4*i:])
	}
	return p
}

// trimName decodes a 16-byte space padded name.
func trimName(b []byte) string {
	return string(bytes.TrimRight(b[:NameSize], " \x00"))
}

// putName writes s into a 16-byte space padded field.
func putName(b []byte, s string) {
	field := b[:NameSize]
	for i := range field {
		field[i] = ' '
	}
	copy(field, s)
}

func blocks(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + BlockSize - 1) / BlockSize
}
