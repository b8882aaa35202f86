// Package power reads battery telemetry through the OS battery API.
package power

import (
	"fmt"
	"math"

	"github.com/distatus/battery"

	"battnotify/pkg/model"
)

// Reader provides battery telemetry. A nil sample with a nil error means no
// battery is present; callers treat both nil samples and errors as a
// transient skip.
type Reader interface {
	Read() (*model.BatterySample, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func() (*model.BatterySample, error)

// Read implements Reader.
func (f ReaderFunc) Read() (*model.BatterySample, error) { return f() }

// SystemReader reads the first usable battery reported by the OS.
type SystemReader struct{}

// NewSystemReader returns a Reader backed by the OS battery API.
func NewSystemReader() SystemReader { return SystemReader{} }

// Read implements Reader. Partial read errors are tolerated as long as the
// charge fields are usable; a fatal API error is returned as-is.
func (SystemReader) Read() (*model.BatterySample, error) {
	batteries, err := battery.GetAll()
	if err != nil {
		if fatal, ok := err.(battery.ErrFatal); ok {
			return nil, fmt.Errorf("read batteries: %w", fatal)
		}
	}
	for _, b := range batteries {
		if b == nil || b.Full <= 0 {
			continue
		}
		return FromBattery(b), nil
	}
	return nil, nil
}

// FromBattery converts an OS battery record into a sample. Full counts as
// plugged in; Unknown counts as unplugged.
func FromBattery(b *battery.Battery) *model.BatterySample {
	pct := int(math.Round(b.Current / b.Full * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return &model.BatterySample{
		Percent:  pct,
		Charging: b.State == battery.Charging || b.State == battery.Full,
		State:    b.State.String(),
	}
}
