package bank

// ZoneSize is the byte length of a zone record.
const ZoneSize = 0x30

// Envelope holds raw envelope stage bytes. Attack, decay and release index
// the 163 s time table, hold the 21 s table; sustain is a level.
type Envelope struct {
	Attack  uint8 `json:"attack"`
	Hold    uint8 `json:"hold"`
	Decay   uint8 `json:"decay"`
	Sustain uint8 `json:"sustain"`
	Release uint8 `json:"release"`
}

// LFO holds raw LFO bytes.
type LFO struct {
	Rate      uint8 `json:"rate"`
	Shape     uint8 `json:"shape"`
	Delay     uint8 `json:"delay"`
	Variation uint8 `json:"variation"`
	ToPitch   uint8 `json:"to_pitch"`
	ToCutoff  uint8 `json:"to_cutoff"`
	ToVolume  uint8 `json:"to_volume"`
}

// VelocitySens holds velocity sensitivity amounts (signed percent bytes).
type VelocitySens struct {
	ToVolume int8 `json:"to_volume"`
	ToAttack int8 `json:"to_attack"`
	ToCutoff int8 `json:"to_cutoff"`
	ToPitch  int8 `json:"to_pitch"`
	ToAux    int8 `json:"to_aux"`
}

// ZoneParams is the decoded raw content of a zone record. All values are
// the packed bytes; package units assigns them meaning.
type ZoneParams struct {
	Sample      uint16       `json:"sample"`
	OriginalKey uint8        `json:"original_key"`
	Tuning      int8         `json:"tuning"`
	Level       uint8        `json:"level"`
	Pan         int8         `json:"pan"`
	VCA         Envelope     `json:"vca"`
	Cutoff      uint8        `json:"cutoff"`
	Q           uint8        `json:"q"`
	FilterType  uint8        `json:"filter_type"`
	Tracking    int8         `json:"tracking"`
	FilterEnv   int8         `json:"filter_env_amount"`
	VCF         Envelope     `json:"vcf"`
	LFO         LFO          `json:"lfo"`
	Aux         Envelope     `json:"aux"`
	AuxAmount   int8         `json:"aux_amount"`
	AuxDest     uint8        `json:"aux_dest"`
	Velocity    VelocitySens `json:"velocity"`
	NoteOnDelay uint8        `json:"note_on_delay"`
	Flags       uint8        `json:"flags"`
	VelLow      uint8        `json:"vel_low"`
	VelHigh     uint8        `json:"vel_high"`
	ChorusWidth uint8        `json:"chorus_width"`
	RTEnable    uint8        `json:"rt_enable"`
}

// Zone record layout.
const (
	zoneSampleLo    = 0x00
	zoneSampleHi    = 0x01
	zoneOriginalKey = 0x02
	zoneTuning      = 0x03
	zoneLevel       = 0x04
	zonePan         = 0x05
	zoneVCA         = 0x06
	zoneCutoff      = 0x0B
	zoneQ           = 0x0C
	zoneFilterType  = 0x0D
	zoneTracking    = 0x0E
	zoneFilterEnv   = 0x0F
	zoneVCF         = 0x10
	zoneLFO         = 0x15
	zoneAux         = 0x1C
	zoneAuxAmount   = 0x21
	zoneAuxDest     = 0x22
	zoneVelocity    = 0x23
	zoneNoteOnDelay = 0x28
	zoneFlags       = 0x29
	zoneVelLow      = 0x2A
	zoneVelHigh     = 0x2B
	zoneChorusWidth = 0x2C
	zoneRTEnable    = 0x2D
)

// QBiasBit is the filter Q bias flag within the Q byte.
const QBiasBit = 0x80

// DefaultZone returns the parameters of a freshly created zone.
func DefaultZone(f *Format, sample, originalKey, velLow, velHigh int) ZoneParams {
	env := Envelope{Sustain: 0x7F}
	return ZoneParams{
		Sample:      uint16(sample),
		OriginalKey: uint8(originalKey),
		Level:       0x7F,
		VCA:         env,
		Cutoff:      250,
		Q:           f.QBias,
		Tracking:    64,
		VCF:         env,
		LFO:         LFO{Rate: 45},
		Aux:         env,
		VelLow:      uint8(velLow),
		VelHigh:     uint8(velHigh),
	}
}

// Zone is a view over one zone record.
type Zone struct {
	b []byte
}

// Params decodes the record.
func (z Zone) Params() ZoneParams {
	b := z.b
	return ZoneParams{
		Sample:      uint16(b[zoneSampleLo]) | uint16(b[zoneSampleHi])<<8,
		OriginalKey: b[zoneOriginalKey],
		Tuning:      int8(b[zoneTuning]),
		Level:       b[zoneLevel],
		Pan:         int8(b[zonePan]),
		VCA:         getEnvelope(b[zoneVCA:]),
		Cutoff:      b[zoneCutoff],
		Q:           b[zoneQ],
		FilterType:  b[zoneFilterType],
		Tracking:    int8(b[zoneTracking]),
		FilterEnv:   int8(b[zoneFilterEnv]),
		VCF:         getEnvelope(b[zoneVCF:]),
		LFO: LFO{
			Rate:      b[zoneLFO],
			Shape:     b[zoneLFO+1],
			Delay:     b[zoneLFO+2],
			Variation: b[zoneLFO+3],
			ToPitch:   b[zoneLFO+4],
			ToCutoff:  b[zoneLFO+5],
			ToVolume:  b[zoneLFO+6],
		},
		Aux:       getEnvelope(b[zoneAux:]),
		AuxAmount: int8(b[zoneAuxAmount]),
		AuxDest:   b[zoneAuxDest],
		Velocity: VelocitySens{
			ToVolume: int8(b[zoneVelocity]),
			ToAttack: int8(b[zoneVelocity+1]),
			ToCutoff: int8(b[zoneVelocity+2]),
			ToPitch:  int8(b[zoneVelocity+3]),
			ToAux:    int8(b[zoneVelocity+4]),
		},
		NoteOnDelay: b[zoneNoteOnDelay],
		Flags:       b[zoneFlags],
		VelLow:      b[zoneVelLow],
		VelHigh:     b[zoneVelHigh],
		ChorusWidth: b[zoneChorusWidth],
		RTEnable:    b[zoneRTEnable],
	}
}

// Sample returns the referenced sample index.
func (z Zone) Sample() int {
	return int(z.b[zoneSampleLo]) | int(z.b[zoneSampleHi])<<8
}

// QBias reports whether the Q bias bit is set.
func (z Zone) QBias() bool {
	return z.b[zoneQ]&QBiasBit != 0
}

func (z Zone) put(p ZoneParams) {
	b := z.b
	clear(b)
	b[zoneSampleLo] = byte(p.Sample)
	b[zoneSampleHi] = byte(p.Sample >> 8)
	b[zoneOriginalKey] = p.OriginalKey
	b[zoneTuning] = byte(p.Tuning)
	b[zoneLevel] = p.Level
	b[zonePan] = byte(p.Pan)
	putEnvelope(b[zoneVCA:], p.VCA)
	b[zoneCutoff] = p.Cutoff
	b[zoneQ] = p.Q
	b[zoneFilterType] = p.FilterType
	b[zoneTracking] = byte(p.Tracking)
	b[zoneFilterEnv] = byte(p.FilterEnv)
	putEnvelope(b[zoneVCF:], p.VCF)
	copy(b[zoneLFO:], []byte{
		p.LFO.Rate, p.LFO.Shape, p.LFO.Delay, p.LFO.Variation,
		p.LFO.ToPitch, p.LFO.ToCutoff, p.LFO.ToVolume,
	})
	putEnvelope(b[zoneAux:], p.Aux)
	b[zoneAuxAmount] = byte(p.AuxAmount)
	b[zoneAuxDest] = p.AuxDest
	copy(b[zoneVelocity:], []byte{
		byte(p.Velocity.ToVolume), byte(p.Velocity.ToAttack), byte(p.Velocity.ToCutoff),
		byte(p.Velocity.ToPitch), byte(p.Velocity.ToAux),
	})
	b[zoneNoteOnDelay] = p.NoteOnDelay
	b[zoneFlags] = p.Flags
	b[zoneVelLow] = p.VelLow
	b[zoneVelHigh] = p.VelHigh
	b[zoneChorusWidth] = p.ChorusWidth
	b[zoneRTEnable] = p.RTEnable
}

func getEnvelope(b []byte) Envelope {
	return Envelope{Attack: b[0], Hold: b[1], Decay: b[2], Sustain: b[3], Release: b[4]}
}

func putEnvelope(b []byte, e Envelope) {
	copy(b, []byte{e.Attack, e.Hold, e.Decay, e.Sustain, e.Release})
}
