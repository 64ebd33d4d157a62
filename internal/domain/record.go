package domain

import (
	"math"
	"time"
)

const (
	// DaysInPeriod is the number of observed days every input file covers.
	DaysInPeriod = 15

	// FieldsPerDay is the number of distinct row labels a file must have.
	FieldsPerDay = 7

	// NotFoundLatitude stands in for a city the geocoder could not resolve.
	NotFoundLatitude = math.MaxFloat64
)

// Lightning values.
const (
	LightningYes = "Yes"
	LightningNo  = "No"
)

// Cloud types.
const (
	CloudsCumulonimbus = "Cumulonimbus"
	CloudsCumulus      = "Cumulus"
	CloudsStratus      = "Stratus"
	CloudsNimbus       = "Nimbus"
	CloudsCirrus       = "Cirrus"
)

// DayRecord is one day of observations for a single city.
type DayRecord struct {
	Day           int    `json:"day"`
	Temperature   int    `json:"temperature"`
	Wind          int    `json:"wind"`
	Humidity      int    `json:"humidity"`
	Precipitation int    `json:"precipitation"`
	Lightning     string `json:"lightning"`
	Clouds        string `json:"clouds"`
}

// Candidate is a city's best launch day together with the place it belongs
// to. It is built once the city name and its latitude are both known.
type Candidate struct {
	Day      DayRecord `json:"day"`
	Location string    `json:"location"`
	Latitude float64   `json:"latitude"`
}

// NewCandidate completes a selected day with its location data.
func NewCandidate(day DayRecord, location string, latitude float64) Candidate {
	return Candidate{Day: day, Location: location, Latitude: latitude}
}

// Resolved reports whether the geocoder found the candidate's city.
func (c Candidate) Resolved() bool {
	return c.Latitude != NotFoundLatitude
}

// Decision is the outcome of a run that produced a winner.
type Decision struct {
	RunID      string    `json:"run_id"`
	Winner     Candidate `json:"winner"`
	Report     string    `json:"report"`
	ReportPath string    `json:"report_path"`
	Cities     int       `json:"cities"`
	Candidates int       `json:"candidates"`
	DecidedAt  time.Time `json:"decided_at"`
}

// NewDecision stamps a winning candidate with its report and the current time.
func NewDecision(runID string, winner Candidate, reportPath string, cities, candidates int) Decision {
	return Decision{
		RunID:      runID,
		Winner:     winner,
		Report:     FormatReport(winner),
		ReportPath: reportPath,
		Cities:     cities,
		Candidates: candidates,
		DecidedAt:  clock.Now().UTC(),
	}
}

// Policy holds the accepted values for the enumerated fields of a day.
// The zero value accepts nothing; use DefaultPolicy or NewPolicy.
type Policy struct {
	lightning map[string]struct{}
	clouds    map[string]struct{}
}

// NewPolicy builds a Policy from the allowed lightning and cloud values.
func NewPolicy(lightning, clouds []string) Policy {
	return Policy{
		lightning: toSet(lightning),
		clouds:    toSet(clouds),
	}
}

// DefaultPolicy accepts Yes/No lightning and the five known cloud types.
func DefaultPolicy() Policy {
	return NewPolicy(
		[]string{LightningYes, LightningNo},
		[]string{CloudsCumulonimbus, CloudsCumulus, CloudsStratus, CloudsNimbus, CloudsCirrus},
	)
}

// AllowsLightning reports whether v is an accepted lightning value.
func (p Policy) AllowsLightning(v string) bool {
	_, ok := p.lightning[v]
	return ok
}

// AllowsClouds reports whether v is an accepted cloud type.
func (p Policy) AllowsClouds(v string) bool {
	_, ok := p.clouds[v]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
