package domain

import (
	"cmp"
	"slices"
)

// IsLaunchDay reports whether r meets every launch condition.
func IsLaunchDay(r DayRecord) bool {
	return r.Temperature > 1 && r.Temperature < 32 &&
		r.Wind < 11 &&
		r.Humidity < 55 &&
		r.Precipitation == 0 &&
		r.Lightning == LightningNo &&
		r.Clouds != CloudsCumulus && r.Clouds != CloudsNimbus
}

// SelectLaunchDay picks a city's best launch day: the qualifying record with
// the lowest wind, then the lowest humidity. Ties keep input order. It
// returns false when no record qualifies.
func SelectLaunchDay(records []DayRecord) (DayRecord, bool) {
	var (
		best  DayRecord
		found bool
	)
	for _, r := range records {
		if !IsLaunchDay(r) {
			continue
		}
		if !found || compareLaunchDays(r, best) < 0 {
			best, found = r, true
		}
	}
	return best, found
}

func compareLaunchDays(a, b DayRecord) int {
	return cmp.Or(
		cmp.Compare(a.Wind, b.Wind),
		cmp.Compare(a.Humidity, b.Humidity),
	)
}

// SelectCity picks the candidate with the lowest latitude. Equal latitudes
// keep input order. It returns false for an empty slice.
func SelectCity(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return slices.MinFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(a.Latitude, b.Latitude)
	}), true
}
