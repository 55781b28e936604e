package bank

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// move is one shift of the image tail. Every mutation is expressed as a
// sequence of moves so table patching happens in exactly one place.
type move struct {
	at    int // image offset of the insertion or removal
	delta int // bytes inserted (> 0) or removed (< 0)
	from  int // first preset table slot displaced by the move
}

// shift moves the image tail and patches every preset table slot from m.from
// through MaxPresets by m.delta. Sample table entries are relative to the
// sample region and travel with it.
func (b *Bank) shift(m move) error {
	var err error
	switch {
	case m.delta > 0:
		err = b.img.insert(m.at, m.delta)
	case m.delta < 0:
		err = b.img.remove(m.at, -m.delta)
	}
	if err != nil {
		return err
	}
	for i := m.from; i <= b.format.MaxPresets; i++ {
		b.setPresetEntry(i, uint32(int(b.presetEntry(i))+m.delta))
	}
	b.syncHeader()
	return nil
}

// AddSample appends a sample record built from p and returns its index.
func (b *Bank) AddSample(name string, p *PCM) (int, error) {
	n, size, err := b.checkSample(p)
	if err != nil {
		return 0, opErr("add sample", err)
	}
	if err := b.appendSample(n, name, p, size); err != nil {
		return 0, opErr("add sample", err)
	}
	return n, nil
}

func (b *Bank) checkSample(p *PCM) (n, size int, err error) {
	if err := p.validate(); err != nil {
		return 0, 0, err
	}
	n = b.SampleCount()
	if n >= b.format.MaxSamples {
		return 0, 0, fmt.Errorf("%w: %d samples", ErrSampleLimit, n)
	}
	size = sampleRecordSize(p)
	if err := b.img.fits(size); err != nil {
		return 0, 0, err
	}
	return n, size, nil
}

func (b *Bank) appendSample(n int, name string, p *PCM, size int) error {
	f := b.format
	at := b.img.Size()
	if err := b.shift(move{at: at, delta: size, from: f.MaxPresets + 1}); err != nil {
		return err
	}
	writeSampleRecord(b.img.buf[at:at+size], name, p)

	next := b.img.u32(f.SampleTableOffset + 4*f.MaxSamples)
	pcmBytes := size - SampleHeaderSize
	b.setSampleEntry(n, next)
	b.setSampleEntry(f.MaxSamples, next+uint32(pcmBytes+SampleOffsetBias))
	b.syncHeader()

	b.log.Info("sample added", "index", n, "name", name, "frames", p.Frames,
		"channels", p.Channels, "rate", p.SampleRate, "bytes", size)
	return nil
}

// AddPreset creates an empty preset in the first free slot.
func (b *Bank) AddPreset(name string) (int, error) {
	n := b.PresetCount()
	if n >= b.format.MaxPresets {
		return 0, opErr("add preset", fmt.Errorf("%w: %d presets", ErrPresetLimit, n))
	}
	if err := b.img.fits(PresetHeaderSize); err != nil {
		return 0, opErr("add preset", err)
	}
	at := b.presetAddress(n + 1)
	if err := b.shift(move{at: at, delta: PresetHeaderSize, from: n + 1}); err != nil {
		return 0, opErr("add preset", err)
	}
	writePresetHeader(b.img.buf[at:at+PresetHeaderSize], name)
	b.syncHeader()

	b.log.Info("preset added", "index", n, "name", name)
	return n, nil
}

// DeletePreset removes preset n and moves the following presets down one
// slot. Links to n are cleared; links above n are renumbered.
func (b *Bank) DeletePreset(n int) error {
	p, err := b.Preset(n)
	if err != nil {
		return opErr("delete preset", err)
	}
	count := b.PresetCount()
	size := p.Size()
	at := b.presetAddress(n)
	if err := b.shift(move{at: at, delta: -size, from: n + 1}); err != nil {
		return opErr("delete preset", err)
	}
	for j := n; j < b.format.MaxPresets; j++ {
		b.setPresetEntry(j, b.presetEntry(j+1))
	}

	for i := 0; i < count-1; i++ {
		off := b.presetAddress(i) + presetLink
		link := int(b.img.u16(off))
		switch {
		case link == NoLink:
		case link == n:
			b.img.putU16(off, NoLink)
		case link > n:
			b.img.putU16(off, uint16(link-1))
		}
	}
	if sel := int(b.img.u16(hdrSelected)); sel == n {
		b.img.putU16(hdrSelected, 0)
	} else if sel > n {
		b.img.putU16(hdrSelected, uint16(sel-1))
	}
	b.syncHeader()

	b.log.Info("preset deleted", "index", n, "bytes", size)
	return nil
}

// zonePlan is a validated zone insertion.
type zonePlan struct {
	preset int
	keys   KeyRange
	layer  Layer
	owner  int // note-zone receiving a secondary layer
	growth int
}

// planZone validates a zone insertion without touching the image. samples is
// the sample count the zone may reference and extra the growth the caller
// adds on top of the zone itself.
func (b *Bank) planZone(preset int, r KeyRange, layer Layer, z ZoneParams, samples, extra int) (zonePlan, error) {
	p, err := b.Preset(preset)
	if err != nil {
		return zonePlan{}, err
	}
	if !r.Valid() {
		return zonePlan{}, fmt.Errorf("%w: %d-%d", ErrNoteRange, r.Low, r.High)
	}
	if int(z.Sample) >= samples {
		return zonePlan{}, fmt.Errorf("%w: %d", ErrSampleIndex, z.Sample)
	}
	if err := CheckVelocity(int(z.VelLow), int(z.VelHigh)); err != nil {
		return zonePlan{}, err
	}
	if p.ZoneRecords() >= Unmapped {
		return zonePlan{}, fmt.Errorf("%w: preset %d has %d zones", ErrZoneLimit, preset, p.ZoneRecords())
	}

	pl := zonePlan{preset: preset, keys: r, layer: layer, owner: -1}
	switch layer {
	case Primary:
		if p.ZoneCount() >= Unmapped {
			return zonePlan{}, fmt.Errorf("%w: preset %d has %d note-zones", ErrZoneLimit, preset, p.ZoneCount())
		}
		for k := r.Low; k <= r.High; k++ {
			if nz, ok := p.NoteMap(k); ok {
				return zonePlan{}, fmt.Errorf("%w: key %d belongs to zone %d", ErrNoteRangeAssigned, k, nz)
			}
		}
		pl.growth = NoteZoneSize + ZoneSize
	case Secondary:
		owners := map[int]bool{}
		for k := r.Low; k <= r.High; k++ {
			nz, ok := p.NoteMap(k)
			if !ok {
				nz = -1
			}
			owners[nz] = true
		}
		if len(owners) > 1 {
			return zonePlan{}, fmt.Errorf("%w: keys %d-%d", ErrNoteRangeSeveralZones, r.Low, r.High)
		}
		for nz := range owners {
			pl.owner = nz
		}
		if pl.owner < 0 {
			return zonePlan{}, fmt.Errorf("%w: keys %d-%d", ErrNoteRangeUnassigned, r.Low, r.High)
		}
		v, err := p.NoteZone(pl.owner)
		if err != nil {
			return zonePlan{}, err
		}
		if _, ok := v.Layer(Secondary); ok {
			return zonePlan{}, fmt.Errorf("%w: zone %d already has a secondary layer", ErrNoteRangeAssigned, pl.owner)
		}
		primary, ok := v.Layer(Primary)
		if !ok {
			return zonePlan{}, fmt.Errorf("%w: zone %d has no primary layer", ErrCorrupt, pl.owner)
		}
		if primary >= p.ZoneRecords() {
			return zonePlan{}, fmt.Errorf("%w: zone record %d", ErrCorrupt, primary)
		}
		pl.growth = ZoneSize
	default:
		return zonePlan{}, fmt.Errorf("%w: layer %d", ErrZoneIndex, layer)
	}

	if err := b.img.fits(pl.growth + extra); err != nil {
		return zonePlan{}, err
	}
	return pl, nil
}

// AddZone maps keys r of a preset to a new zone. A primary layer creates a
// new note-zone over unmapped keys; a secondary layer is added to the single
// note-zone already owning r. It returns the note-zone index.
func (b *Bank) AddZone(preset int, r KeyRange, layer Layer, z ZoneParams) (int, error) {
	pl, err := b.planZone(preset, r, layer, z, b.SampleCount(), 0)
	if err != nil {
		return 0, opErr("add zone", err)
	}
	nz, err := b.applyZone(pl, z)
	if err != nil {
		return 0, opErr("add zone", err)
	}
	return nz, nil
}

// AddSampleZone appends a sample and maps it as a zone of a preset in one
// validated step. It returns the sample and note-zone indices.
func (b *Bank) AddSampleZone(preset int, r KeyRange, layer Layer, name string, p *PCM, z ZoneParams) (sample, noteZone int, err error) {
	n, size, err := b.checkSample(p)
	if err != nil {
		return 0, 0, opErr("add sample zone", err)
	}
	z.Sample = uint16(n)
	pl, err := b.planZone(preset, r, layer, z, n+1, size)
	if err != nil {
		return 0, 0, opErr("add sample zone", err)
	}
	if err := b.appendSample(n, name, p, size); err != nil {
		return 0, 0, opErr("add sample zone", err)
	}
	nz, err := b.applyZone(pl, z)
	if err != nil {
		return 0, 0, opErr("add sample zone", err)
	}
	return n, nz, nil
}

func (b *Bank) applyZone(pl zonePlan, z ZoneParams) (int, error) {
	p, err := b.Preset(pl.preset)
	if err != nil {
		return 0, err
	}
	base := b.presetAddress(pl.preset)
	nz, records := p.ZoneCount(), p.ZoneRecords()
	noteZones := base + PresetHeaderSize

	switch pl.layer {
	case Primary:
		at := noteZones + NoteZoneSize*nz
		if err := b.shift(move{at: at, delta: NoteZoneSize, from: pl.preset + 1}); err != nil {
			return 0, err
		}
		end := b.presetAddress(pl.preset + 1)
		if err := b.shift(move{at: end, delta: ZoneSize, from: pl.preset + 1}); err != nil {
			return 0, err
		}
		copy(b.img.buf[at:], []byte{0, 0, byte(records), Unmapped})
		Zone{b: b.img.buf[end : end+ZoneSize]}.put(z)
		b.img.putU16(base+presetZoneCount, uint16(nz+1))
		for k := pl.keys.Low; k <= pl.keys.High; k++ {
			b.img.buf[base+presetNoteMap+k-LowestKey] = byte(nz)
		}
		b.log.Info("zone added", "preset", pl.preset, "zone", nz, "layer", pl.layer,
			"low", pl.keys.Low, "high", pl.keys.High, "sample", z.Sample)
		return nz, nil

	default:
		owner := NoteZone{b: p.b[PresetHeaderSize+NoteZoneSize*pl.owner:]}
		primary, _ := owner.Layer(Primary)
		ins := primary + 1
		at := noteZones + NoteZoneSize*nz + ZoneSize*ins
		if err := b.shift(move{at: at, delta: ZoneSize, from: pl.preset + 1}); err != nil {
			return 0, err
		}
		for j := 0; j < nz; j++ {
			v := b.noteZone(base, j)
			for _, l := range []Layer{Primary, Secondary} {
				if idx, ok := v.Layer(l); ok && idx >= ins {
					v.setLayer(l, idx+1)
				}
			}
		}
		b.noteZone(base, pl.owner).setLayer(Secondary, ins)
		Zone{b: b.img.buf[at : at+ZoneSize]}.put(z)
		b.log.Info("zone added", "preset", pl.preset, "zone", pl.owner, "layer", pl.layer,
			"low", pl.keys.Low, "high", pl.keys.High, "sample", z.Sample)
		return pl.owner, nil
	}
}

// noteZone returns a fresh view of note-zone j of the preset at base.
func (b *Bank) noteZone(base, j int) NoteZone {
	off := base + PresetHeaderSize + NoteZoneSize*j
	return NoteZone{b: b.img.buf[off : off+NoteZoneSize]}
}

// NoteZoneAt returns the note-zone mapped at key.
func (b *Bank) NoteZoneAt(preset, key int) (int, error) {
	p, err := b.Preset(preset)
	if err != nil {
		return 0, err
	}
	nz, ok := p.NoteMap(key)
	if !ok {
		return 0, fmt.Errorf("%w: key %d", ErrNoteRangeUnassigned, key)
	}
	return nz, nil
}

// DeleteZone removes note-zone nz of a preset together with its zone
// records. Note map entries pointing at nz are cleared and higher entries
// renumbered.
func (b *Bank) DeleteZone(preset, nz int) error {
	p, err := b.Preset(preset)
	if err != nil {
		return opErr("delete zone", err)
	}
	count := p.ZoneCount()
	if nz < 0 || nz >= count {
		return opErr("delete zone", fmt.Errorf("%w: %d of %d", ErrZoneIndex, nz, count))
	}
	v, err := p.NoteZone(nz)
	if err != nil {
		return opErr("delete zone", err)
	}
	var removed []int
	for _, l := range []Layer{Primary, Secondary} {
		if idx, ok := v.Layer(l); ok {
			if idx >= p.ZoneRecords() {
				return opErr("delete zone", fmt.Errorf("%w: zone record %d", ErrCorrupt, idx))
			}
			removed = append(removed, idx)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(removed)))

	base := b.presetAddress(preset)
	zones := base + PresetHeaderSize + NoteZoneSize*count
	for _, idx := range removed {
		if err := b.shift(move{at: zones + ZoneSize*idx, delta: -ZoneSize, from: preset + 1}); err != nil {
			return opErr("delete zone", err)
		}
	}
	for j := 0; j < count; j++ {
		if j == nz {
			continue
		}
		nv := b.noteZone(base, j)
		for _, l := range []Layer{Primary, Secondary} {
			idx, ok := nv.Layer(l)
			if !ok {
				continue
			}
			below := 0
			for _, r := range removed {
				if r < idx {
					below++
				}
			}
			nv.setLayer(l, idx-below)
		}
	}
	if err := b.shift(move{at: base + PresetHeaderSize + NoteZoneSize*nz, delta: -NoteZoneSize, from: preset + 1}); err != nil {
		return opErr("delete zone", err)
	}
	b.img.putU16(base+presetZoneCount, uint16(count-1))
	for k := 0; k < NoteCount; k++ {
		off := base + presetNoteMap + k
		switch m := int(b.img.buf[off]); {
		case m == Unmapped:
		case m == nz:
			b.img.buf[off] = Unmapped
		case m > nz:
			b.img.buf[off] = byte(m - 1)
		}
	}

	b.log.Info("zone deleted", "preset", preset, "zone", nz, "records", len(removed),
		"bytes", NoteZoneSize+ZoneSize*len(removed))
	return nil
}

// DeleteZoneAt removes the note-zone mapped at key.
func (b *Bank) DeleteZoneAt(preset, key int) error {
	nz, err := b.NoteZoneAt(preset, key)
	if err != nil {
		return opErr("delete zone", err)
	}
	return b.DeleteZone(preset, nz)
}

// GlobalEdit holds bulk edits. Nil fields are left untouched.
type GlobalEdit struct {
	Routing    *[RoutingSize]byte
	PitchBend  *int
	Level      *int
	Cutoff     *int
	Q          *int
	FilterType *int
}

// Filter types accepted by EditAll.
const FilterTypes = 4

// EditAll applies e to every preset and every zone record. It only rewrites
// fields and never moves bytes.
func (b *Bank) EditAll(e GlobalEdit) error {
	checks := []struct {
		name string
		v    *int
		max  int
	}{
		{"pitch bend", e.PitchBend, 36},
		{"level", e.Level, 127},
		{"cutoff", e.Cutoff, 255},
		{"q", e.Q, 127},
		{"filter type", e.FilterType, FilterTypes - 1},
	}
	for _, c := range checks {
		if c.v != nil && (*c.v < 0 || *c.v > c.max) {
			return opErr("edit", fmt.Errorf("%w: %s %d outside 0-%d", ErrParamRange, c.name, *c.v, c.max))
		}
	}

	presets, err := b.Presets()
	if err != nil {
		return opErr("edit", err)
	}
	zones := 0
	for _, p := range presets {
		if e.Routing != nil {
			copy(p.b[presetRouting:], e.Routing[:])
		}
		if e.PitchBend != nil {
			p.b[presetBend] = byte(*e.PitchBend)
		}
		for i := 0; i < p.ZoneRecords(); i++ {
			z := p.b[p.zoneOffset(i):]
			if e.Level != nil {
				z[zoneLevel] = byte(*e.Level)
			}
			if e.Cutoff != nil {
				z[zoneCutoff] = byte(*e.Cutoff)
			}
			if e.Q != nil {
				z[zoneQ] = z[zoneQ]&QBiasBit | byte(*e.Q)
			}
			if e.FilterType != nil {
				z[zoneFilterType] = byte(*e.FilterType)
			}
			zones++
		}
	}
	b.log.Info("bulk edit applied", "presets", len(presets), "zones", zones)
	return nil
}

// SetBankName writes the bank name and its copy.
func (b *Bank) SetBankName(name string) {
	putName(b.img.buf[hdrBankName:], name)
	putName(b.img.buf[hdrNameCopy:], name)
}

// SetPresetName renames preset n.
func (b *Bank) SetPresetName(n int, name string) error {
	p, err := b.Preset(n)
	if err != nil {
		return opErr("rename preset", err)
	}
	putName(p.b[presetName:], name)
	return nil
}

// SetPresetLink links preset n to preset link, or clears the link when link
// is negative.
func (b *Bank) SetPresetLink(n, link int) error {
	p, err := b.Preset(n)
	if err != nil {
		return opErr("link preset", err)
	}
	v := uint16(NoLink)
	if link >= 0 {
		if link >= b.PresetCount() || link == n {
			return opErr("link preset", fmt.Errorf("%w: link %d", ErrPresetIndex, link))
		}
		v = uint16(link)
	}
	binary.LittleEndian.PutUint16(p.b[presetLink:], v)
	return nil
}

// CheckVelocity reports ErrParamRange unless 0 <= lo <= hi <= 127.
func CheckVelocity(lo, hi int) error {
	if lo < 0 || hi > 127 || lo > hi {
		return fmt.Errorf("%w: velocity %d-%d", ErrParamRange, lo, hi)
	}
	return nil
}

// SetPresetVelocity sets the velocity bounds of a preset layer.
func (b *Bank) SetPresetVelocity(n int, l Layer, lo, hi int) error {
	p, err := b.Preset(n)
	if err != nil {
		return opErr("set velocity", err)
	}
	if err := CheckVelocity(lo, hi); err != nil {
		return opErr("set velocity", err)
	}
	off := presetVelocity + 2*int(l)
	p.b[off], p.b[off+1] = byte(lo), byte(hi)
	return nil
}

// SetZone rewrites zone record i of a preset.
func (b *Bank) SetZone(preset, i int, z ZoneParams) error {
	p, err := b.Preset(preset)
	if err != nil {
		return opErr("set zone", err)
	}
	zv, err := p.Zone(i)
	if err != nil {
		return opErr("set zone", err)
	}
	if int(z.Sample) >= b.SampleCount() {
		return opErr("set zone", fmt.Errorf("%w: %d", ErrSampleIndex, z.Sample))
	}
	zv.put(z)
	return nil
}
