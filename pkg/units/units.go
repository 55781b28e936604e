// Package units converts the packed parameter bytes stored in bank records to
// physical units and back.
package units

import (
	"math"
	"sort"
)

// DecodePercent maps a signed amount byte to percent. The byte range is
// asymmetric, so -128 clamps to -100.
func DecodePercent(v int8) int {
	p := float64(v) * 100 / 127
	var r int
	if p < 0 {
		r = int(p - 0.5)
	} else {
		r = int(p + 0.5)
	}
	if r < -100 {
		r = -100
	}
	return r
}

// EncodePercent is the inverse of DecodePercent. Input is clamped to
// [-100, 100] and rounded to nearest, ties away from zero.
func EncodePercent(p float64) int8 {
	if p > 100 {
		p = 100
	}
	if p < -100 {
		p = -100
	}
	return int8(math.Round(p * 127 / 100))
}

// DecodeSymPercent maps a 7-bit sign+magnitude amount to percent.
func DecodeSymPercent(v uint8) int {
	return SymPercent[v&0x7F]
}

// EncodeSymPercent returns the 7-bit code whose SymPercent entry is nearest to p.
func EncodeSymPercent(p float64) uint8 {
	if p > 100 {
		p = 100
	}
	if p < -100 {
		p = -100
	}
	m := uint8(math.Round(math.Abs(p) * 63 / 100))
	if p < 0 && m != 0 {
		return 0x40 | m
	}
	return m
}

// DecodeTime21 returns the 0-21.69 s table entry for v.
func DecodeTime21(v uint8) float64 {
	return Time21[v&0x7F]
}

// DecodeTime163 returns the 0-163.69 s table entry for v.
func DecodeTime163(v uint8) float64 {
	return Time163[v&0x7F]
}

// EncodeTime21 returns the first index whose entry is >= seconds.
func EncodeTime21(seconds float64) uint8 {
	return lowerBound(Time21[:], seconds)
}

// EncodeTime163 returns the first index whose entry is >= seconds.
func EncodeTime163(seconds float64) uint8 {
	return lowerBound(Time163[:], seconds)
}

func lowerBound(table []float64, v float64) uint8 {
	if v <= table[0] {
		return 0
	}
	if v > table[len(table)-1] {
		return uint8(len(table) - 1)
	}
	return uint8(sort.SearchFloat64s(table, v))
}

// DecodeLFORate returns the rate in Hz. Indices outside the table fall back
// to the first entry.
func DecodeLFORate(v int) float64 {
	if v < 0 || v >= len(LFORate) {
		return LFORate[0]
	}
	return LFORate[v]
}

// DecodeCutoff returns the VCF cutoff in Hz.
func DecodeCutoff(v uint8) int {
	return Cutoff[v]
}

// DecodeTracking maps the signed tracking byte to a key tracking factor in
// [-2.0, 2.0], truncated to two decimals.
func DecodeTracking(v int8) float64 {
	return float64(int(float64(v)/64*100)) / 100
}

// DecodeTuning returns fine tuning in cents.
func DecodeTuning(v int8) float64 {
	return float64(v) * 1.5625
}

// EncodeTuning returns the tuning byte nearest to cents.
func EncodeTuning(cents float64) int8 {
	n := math.Round(cents / 1.5625)
	if n > 127 {
		n = 127
	}
	if n < -128 {
		n = -128
	}
	return int8(n)
}

// DecodeNoteOnDelay returns the note-on delay in seconds.
func DecodeNoteOnDelay(v uint8) float64 {
	return float64(v) * 0.006
}

// Zone flag bits.
const (
	FlagLoopDisable  = 1 << 0
	FlagChorus       = 1 << 1
	FlagSideDisable  = 1 << 2
	FlagSolo         = 1 << 3
	FlagNonTranspose = 1 << 4
	FlagTriggerMode  = 1 << 5
)

// Realtime-enable bits.
const (
	RTPitch    = 1 << 0
	RTPressure = 1 << 1
)

// LoopDisabled reports whether the zone plays its sample without looping.
func LoopDisabled(flags uint8) bool { return flags&FlagLoopDisable != 0 }

// ChorusOn reports whether chorus is enabled for the zone.
func ChorusOn(flags uint8) bool { return flags&FlagChorus != 0 }

// SideDisabled reports whether the zone's side output is disabled.
func SideDisabled(flags uint8) bool { return flags&FlagSideDisable != 0 }

// Solo reports whether the zone plays in solo mode.
func Solo(flags uint8) bool { return flags&FlagSolo != 0 }

// NonTranspose reports whether the zone ignores transposition.
func NonTranspose(flags uint8) bool { return flags&FlagNonTranspose != 0 }

// LegatoTrigger reports whether the trigger mode bit selects legato triggering.
func LegatoTrigger(flags uint8) bool { return flags&FlagTriggerMode != 0 }

// PitchRTEnabled reports whether pitch realtime control is enabled.
func PitchRTEnabled(rt uint8) bool { return rt&RTPitch != 0 }

// PressureRTEnabled reports whether pressure realtime control is enabled.
func PressureRTEnabled(rt uint8) bool { return rt&RTPressure != 0 }
