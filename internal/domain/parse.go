package domain

import (
	"strconv"
	"strings"
)

// Field names used in ParseError.
const (
	FieldDay           = "day parameter"
	FieldTemperature   = "temperature"
	FieldWind          = "wind"
	FieldHumidity      = "humidity"
	FieldPrecipitation = "precipitation"
	FieldLightning     = "lightning"
	FieldClouds        = "clouds"
)

// numericFields names the integer columns in positional order.
var numericFields = [...]string{FieldDay, FieldTemperature, FieldWind, FieldHumidity, FieldPrecipitation}

// Table is the label-keyed view of a file: each row label with the values
// collected for it, in the order labels first appeared.
type Table struct {
	labels []string
	values map[string][]string
}

// Labels returns the row labels in first-seen order.
func (t Table) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Values returns the values collected for label.
func (t Table) Values(label string) []string {
	return append([]string(nil), t.values[label]...)
}

// Tabulate splits raw file text into a Table. Values of repeated labels are
// appended in encounter order. Blank lines and empty fields are dropped.
func Tabulate(text string) Table {
	t := Table{values: make(map[string][]string)}

	for _, line := range strings.Split(text, "\n") {
		fields := splitFields(line)
		if len(fields) == 0 {
			continue
		}

		label := fields[0]
		if _, seen := t.values[label]; !seen {
			t.labels = append(t.labels, label)
			t.values[label] = []string{}
		}
		t.values[label] = append(t.values[label], fields[1:]...)
	}

	return t
}

// splitFields splits a line on commas and drops empty fields. Kept fields
// are trimmed afterwards, so a whitespace-only cell survives as "" and fails
// to parse instead of shifting the rest of the row. Whitespace-only lines
// yield no fields.
func splitFields(line string) []string {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	fields := parts[:0]
	for _, p := range parts {
		if p != "" {
			fields = append(fields, strings.TrimSpace(p))
		}
	}
	return fields
}

// day returns the i-th value of every label, skipping labels that are short.
func (t Table) day(i int) []string {
	out := make([]string, 0, len(t.labels))
	for _, label := range t.labels {
		if vals := t.values[label]; i < len(vals) {
			out = append(out, vals[i])
		}
	}
	return out
}

// Parser validates tables against a Policy and builds day records.
type Parser struct {
	policy Policy
}

// NewParser returns a Parser that checks enumerated fields against policy.
func NewParser(policy Policy) *Parser {
	return &Parser{policy: policy}
}

// Parse turns the raw text of one city file into DaysInPeriod records in day order.
func (p *Parser) Parse(text string) ([]DayRecord, error) {
	return p.Build(Tabulate(text))
}

// Build validates the first DaysInPeriod days of t. Any invalid day fails
// the whole table; no partial result is returned.
func (p *Parser) Build(t Table) ([]DayRecord, error) {
	records := make([]DayRecord, 0, DaysInPeriod)
	for i := range DaysInPeriod {
		rec, err := p.buildDay(i, t.day(i))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (p *Parser) buildDay(i int, values []string) (DayRecord, error) {
	if len(values) != FieldsPerDay {
		return DayRecord{}, &SchemaError{Day: i, Got: len(values)}
	}

	var nums [len(numericFields)]int
	for pos, field := range numericFields {
		n, err := strconv.ParseInt(values[pos], 10, 32)
		if err != nil {
			return DayRecord{}, &ParseError{Day: i, Field: field, Value: values[pos], Err: err}
		}
		nums[pos] = int(n)
	}

	lightning, clouds := values[5], values[6]
	if !p.policy.AllowsLightning(lightning) {
		return DayRecord{}, &ParseError{Day: i, Field: FieldLightning, Value: lightning, Err: ErrValueNotAllowed}
	}
	if !p.policy.AllowsClouds(clouds) {
		return DayRecord{}, &ParseError{Day: i, Field: FieldClouds, Value: clouds, Err: ErrValueNotAllowed}
	}

	return DayRecord{
		Day:           nums[0],
		Temperature:   nums[1],
		Wind:          nums[2],
		Humidity:      nums[3],
		Precipitation: nums[4],
		Lightning:     lightning,
		Clouds:        clouds,
	}, nil
}
