package monitor

import (
	"time"

	"battnotify/pkg/model"
)

// ChargeRate computes the signed charge rate in percent per hour between
// two observations. Negative means discharging. A non-positive elapsed time
// yields zero.
func ChargeRate(prev, cur model.BatterySample, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	hours := elapsed.Hours()
	return float64(cur.Percent-prev.Percent) / hours
}

// RemainingTime estimates time to empty (discharging) or time to full
// (charging) from the current percent and a signed rate. It returns zero
// when the rate points the wrong way or is too small to extrapolate from.
func RemainingTime(percent int, charging bool, ratePerHour float64) time.Duration {
	const minRate = 0.01
	if charging {
		if ratePerHour < minRate {
			return 0
		}
		hours := float64(100-percent) / ratePerHour
		return time.Duration(hours * float64(time.Hour))
	}
	if ratePerHour > -minRate {
		return 0
	}
	hours := float64(percent) / -ratePerHour
	return time.Duration(hours * float64(time.Hour))
}
