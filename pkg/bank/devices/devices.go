// Package devices provides the bank templates of each supported sampler
package devices

import (
	"fmt"
	"sort"
	"strings"

	"github.com/james-see/emubank/pkg/bank"
)

// Opaque header parameters written into new banks
const (
	E3BankVersion  = 0x0103
	E3XBankVersion = 0x0200
	ESIBankVersion = 0x0300
	DefaultTempo   = 120
	DefaultVoices  = 64
	ESIVoices      = 32
)

// E3 implements the bank.Device interface for the classic E3 family
type E3 struct{}

// NewE3 creates a new E3 template
func NewE3() *E3 {
	return &E3{}
}

// Name returns the device name
func (d *E3) Name() string {
	return "Emulator III"
}

// ID returns the device type id
func (d *E3) ID() string {
	return bank.FormatE3.ID
}

// Format returns the bank layout
func (d *E3) Format() *bank.Format {
	return bank.FormatE3
}

// Params returns the header parameters of a new bank
func (d *E3) Params() [3]uint32 {
	return [3]uint32{E3BankVersion, DefaultTempo, DefaultVoices}
}

// E3X implements the bank.Device interface for the extended E3X family
type E3X struct{}

// NewE3X creates a new E3X template
func NewE3X() *E3X {
	return &E3X{}
}

func (d *E3X) Name() string        { return "Emulator IIIX" }
func (d *E3X) ID() string          { return bank.FormatE3X.ID }
func (d *E3X) Format() *bank.Format { return bank.FormatE3X }

// Params returns the header parameters of a new bank
func (d *E3X) Params() [3]uint32 {
	return [3]uint32{E3XBankVersion, DefaultTempo, DefaultVoices}
}

// ESI implements the bank.Device interface for the ESI family, whose preset
// table entries are biased absolute offsets
type ESI struct{}

// NewESI creates a new ESI template
func NewESI() *ESI {
	return &ESI{}
}

func (d *ESI) Name() string        { return "ESI-32" }
func (d *ESI) ID() string          { return bank.FormatESI.ID }
func (d *ESI) Format() *bank.Format { return bank.FormatESI }

// Params returns the header parameters of a new bank
func (d *ESI) Params() [3]uint32 {
	return [3]uint32{ESIBankVersion, DefaultTempo, ESIVoices}
}

var registry = map[string]bank.Device{
	bank.FormatE3.ID:  NewE3(),
	bank.FormatE3X.ID: NewE3X(),
	bank.FormatESI.ID: NewESI(),
}

// Lookup returns the template for a device type id
func Lookup(id string) (bank.Device, error) {
	d, ok := registry[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w: device type %q (want one of %s)",
			bank.ErrUnknownFormat, id, strings.Join(IDs(), ", "))
	}
	return d, nil
}

// IDs returns the supported device type ids in sorted order
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every template, sorted by id
func All() []bank.Device {
	var out []bank.Device
	for _, id := range IDs() {
		out = append(out, registry[id])
	}
	return out
}
