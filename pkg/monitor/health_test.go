package monitor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"battnotify/pkg/model"
	"battnotify/pkg/monitor"
)

func TestChargeRate(t *testing.T) {
	prev := model.BatterySample{Percent: 80}
	cur := model.BatterySample{Percent: 70}

	rate := monitor.ChargeRate(prev, cur, 30*time.Minute)
	assert.InDelta(t, -20.0, rate, 0.001, "down 10 points in half an hour")

	rate = monitor.ChargeRate(cur, prev, time.Hour)
	assert.InDelta(t, 10.0, rate, 0.001)

	assert.Zero(t, monitor.ChargeRate(prev, cur, 0))
	assert.Zero(t, monitor.ChargeRate(prev, cur, -time.Second))
}

func TestRemainingTime_Discharging(t *testing.T) {
	got := monitor.RemainingTime(50, false, -25.0)
	assert.Equal(t, 2*time.Hour, got)

	assert.Zero(t, monitor.RemainingTime(50, false, 0), "flat rate cannot extrapolate")
	assert.Zero(t, monitor.RemainingTime(50, false, 5.0), "gaining charge while unplugged")
}

func TestRemainingTime_Charging(t *testing.T) {
	got := monitor.RemainingTime(60, true, 20.0)
	assert.Equal(t, 2*time.Hour, got)

	assert.Zero(t, monitor.RemainingTime(60, true, 0))
	assert.Zero(t, monitor.RemainingTime(60, true, -3.0), "draining while plugged in")
}
