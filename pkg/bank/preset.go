package bank

import "encoding/binary"

// Preset header layout.
const (
	PresetHeaderSize = 0x80
	NoteZoneSize     = 4
	NoteCount        = 88
	LowestKey        = 21 // A0
	HighestKey       = LowestKey + NoteCount - 1

	Unmapped = 0xFF // note map entry and note-zone layer sentinel
	NoLink   = 0xFFFF

	presetName      = 0x00
	presetRouting   = 0x10
	presetBend      = 0x18
	presetVelocity  = 0x1A
	presetLink      = 0x1E
	presetZoneCount = 0x20
	presetNoteMap   = 0x24
)

// RoutingSize is the number of realtime controller routing bytes.
const RoutingSize = 8

// DefaultRouting is the realtime controller mapping of a new preset:
// pitch wheel, mod wheel, pressure, pedal, then four unassigned slots.
var DefaultRouting = [RoutingSize]byte{0x01, 0x02, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00}

// Layer selects the primary or secondary layer of a note-zone.
type Layer int

const (
	Primary Layer = iota
	Secondary
)

func (l Layer) String() string {
	if l == Secondary {
		return "secondary"
	}
	return "primary"
}

// KeyRange is an inclusive MIDI key range.
type KeyRange struct {
	Low, High int
}

// Valid reports whether the range lies on the 88-key keyboard.
func (r KeyRange) Valid() bool {
	return r.Low >= LowestKey && r.High <= HighestKey && r.Low <= r.High
}

// Preset is a view over one preset record: header, note-zones and zones.
// Views alias the image and are invalidated by any mutation.
type Preset struct {
	Index int
	b     []byte
}

func (p Preset) Name() string { return trimName(p.b[presetName:]) }

// Routing returns the realtime controller routing bytes.
func (p Preset) Routing() [RoutingSize]byte {
	var r [RoutingSize]byte
	copy(r[:], p.b[presetRouting:])
	return r
}

// PitchBendRange is in semitones.
func (p Preset) PitchBendRange() int { return int(p.b[presetBend]) }

// VelocityRange returns the velocity bounds of a layer.
func (p Preset) VelocityRange(l Layer) (lo, hi int) {
	off := presetVelocity + 2*int(l)
	return int(p.b[off]), int(p.b[off+1])
}

// Link returns the linked preset, if any.
func (p Preset) Link() (int, bool) {
	v := binary.LittleEndian.Uint16(p.b[presetLink:])
	return int(v), v != NoLink
}

// ZoneCount is the number of note-zones.
func (p Preset) ZoneCount() int {
	return int(binary.LittleEndian.Uint16(p.b[presetZoneCount:]))
}

// ZoneRecords is the number of zone records following the note-zones.
func (p Preset) ZoneRecords() int {
	return (len(p.b) - PresetHeaderSize - NoteZoneSize*p.ZoneCount()) / ZoneSize
}

// NoteMap returns the note-zone mapped at a MIDI key.
func (p Preset) NoteMap(key int) (int, bool) {
	if key < LowestKey || key > HighestKey {
		return 0, false
	}
	v := p.b[presetNoteMap+key-LowestKey]
	return int(v), v != Unmapped
}

// Size is the byte length of the record.
func (p Preset) Size() int { return len(p.b) }

// NoteZone returns note-zone i.
func (p Preset) NoteZone(i int) (NoteZone, error) {
	if i < 0 || i >= p.ZoneCount() {
		return NoteZone{}, ErrZoneIndex
	}
	off := PresetHeaderSize + NoteZoneSize*i
	if off+NoteZoneSize > len(p.b) {
		return NoteZone{}, ErrCorrupt
	}
	return NoteZone{b: p.b[off : off+NoteZoneSize]}, nil
}

// Zone returns zone record i.
func (p Preset) Zone(i int) (Zone, error) {
	if i < 0 || i >= p.ZoneRecords() {
		return Zone{}, ErrZoneIndex
	}
	off := p.zoneOffset(i)
	return Zone{b: p.b[off : off+ZoneSize]}, nil
}

// KeyRange returns the keys mapped to note-zone i.
func (p Preset) KeyRange(i int) (KeyRange, bool) {
	r := KeyRange{Low: -1}
	for k := LowestKey; k <= HighestKey; k++ {
		if nz, ok := p.NoteMap(k); ok && nz == i {
			if r.Low < 0 {
				r.Low = k
			}
			r.High = k
		}
	}
	return r, r.Low >= 0
}

func (p Preset) zoneOffset(i int) int {
	return PresetHeaderSize + NoteZoneSize*p.ZoneCount() + ZoneSize*i
}

// NoteZone maps a note range to up to two zone records.
type NoteZone struct {
	b []byte
}

// Options returns the two option bytes.
func (n NoteZone) Options() [2]byte { return [2]byte{n.b[0], n.b[1]} }

// Layer returns the zone record index of a layer.
func (n NoteZone) Layer(l Layer) (int, bool) {
	v := n.b[2+int(l)]
	return int(v), v != Unmapped
}

// Layers counts the layers present.
func (n NoteZone) Layers() int {
	c := 0
	for _, l := range []Layer{Primary, Secondary} {
		if _, ok := n.Layer(l); ok {
			c++
		}
	}
	return c
}

func (n NoteZone) setLayer(l Layer, zone int) {
	n.b[2+int(l)] = byte(zone)
}

// writePresetHeader initialises a new preset header.
func writePresetHeader(b []byte, name string) {
	clear(b[:PresetHeaderSize])
	putName(b[presetName:], name)
	copy(b[presetRouting:], DefaultRouting[:])
	b[presetBend] = 2
	binary.LittleEndian.PutUint16(b[presetLink:], NoLink)
	for i := 0; i < NoteCount; i++ {
		b[presetNoteMap+i] = Unmapped
	}
}
