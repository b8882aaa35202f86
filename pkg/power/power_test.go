package power_test

import (
	"testing"

	"github.com/distatus/battery"
	"github.com/stretchr/testify/assert"

	"battnotify/pkg/model"
	"battnotify/pkg/power"
)

func TestFromBattery_Discharging(t *testing.T) {
	s := power.FromBattery(&battery.Battery{State: battery.Discharging, Current: 423, Full: 1000})
	assert.Equal(t, 42, s.Percent)
	assert.False(t, s.Charging)
	assert.Equal(t, "Discharging", s.State)
}

func TestFromBattery_ChargingStates(t *testing.T) {
	s := power.FromBattery(&battery.Battery{State: battery.Charging, Current: 500, Full: 1000})
	assert.True(t, s.Charging)

	s = power.FromBattery(&battery.Battery{State: battery.Full, Current: 1000, Full: 1000})
	assert.True(t, s.Charging, "a full battery on AC counts as plugged in")
	assert.Equal(t, 100, s.Percent)

	s = power.FromBattery(&battery.Battery{State: battery.Unknown, Current: 500, Full: 1000})
	assert.False(t, s.Charging)
}

func TestFromBattery_ClampsPercent(t *testing.T) {
	s := power.FromBattery(&battery.Battery{State: battery.Discharging, Current: 1100, Full: 1000})
	assert.Equal(t, 100, s.Percent)

	s = power.FromBattery(&battery.Battery{State: battery.Discharging, Current: -5, Full: 1000})
	assert.Equal(t, 0, s.Percent)
}

func TestReaderFunc(t *testing.T) {
	r := power.ReaderFunc(func() (*model.BatterySample, error) {
		return &model.BatterySample{Percent: 50}, nil
	})
	s, err := r.Read()
	assert.NoError(t, err)
	assert.Equal(t, 50, s.Percent)
}
