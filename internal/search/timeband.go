package search

import (
	"fmt"
	"strings"
)

// TimeBand is a named window of departure hours.  Hours are read from the
// scheduled departure timestamp, which is stored in the departure
// airport's local time.
type TimeBand string

const (
	BandMorning   TimeBand = "morning"   // [06:00, 12:00)
	BandAfternoon TimeBand = "afternoon" // [12:00, 18:00)
	BandEvening   TimeBand = "evening"   // [18:00, 24:00)
	BandNight     TimeBand = "night"     // [00:00, 06:00)
)

// ParseTimeBand accepts a band name.  The empty string is the zero band,
// which does not filter.
func ParseTimeBand(s string) (TimeBand, error) {
	switch b := TimeBand(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BandMorning, BandAfternoon, BandEvening, BandNight:
		return b, nil
	}
	return "", fmt.Errorf("unknown time band %q", s)
}

// Hours returns the half-open hour window [from, to) of the band.  ok is
// false for the zero band.
func (b TimeBand) Hours() (from, to int, ok bool) {
	switch b {
	case BandMorning:
		return 6, 12, true
	case BandAfternoon:
		return 12, 18, true
	case BandEvening:
		return 18, 24, true
	case BandNight:
		return 0, 6, true
	}
	return 0, 0, false
}
