package bytecode

import (
	"math"
	"time"
)

// daysSince2000 computes DataDaysSince2000: local-time epoch milliseconds
// minus the fixed offset for 2000-01-01T00:00:00Z, divided by a day in
// milliseconds. The fixed offset is always UTC-relative even though the
// clock itself is local time, so this value drifts by the host's UTC
// offset — preserved verbatim from the source rather than corrected, per
// DESIGN.md's Open Questions.
func daysSince2000(now time.Time) float64 {
	const epochOffsetMillis = 946684800000.0
	const millisPerDay = 24.0 * 60.0 * 60.0 * 1000.0
	_, zoneOffsetSeconds := now.Zone()
	localMillis := float64(now.UnixMilli() + int64(zoneOffsetSeconds)*1000)
	return (localMillis - epochOffsetMillis) / millisPerDay
}

// weekdayMondayOne returns the ISO weekday number with Monday=1..Sunday=7.
func weekdayMondayOne(now time.Time) float64 {
	wd := now.Weekday()
	if wd == time.Sunday {
		return 7
	}
	return float64(wd)
}

// sampleRand draws DataRand's result: a uniform real in [min,max) when
// fractional is true, otherwise a uniform integer in [min,max] — both
// built from a single host-supplied uniform [0,1) sample, matching the
// source's js_sys::Math::random()-backed formulas.
func sampleRand(uniform01, min, max float64, fractional bool) float64 {
	if fractional {
		return (uniform01 * (max - min)) + min
	}
	return min + math.Floor(uniform01*((max+1.0)-min))
}
