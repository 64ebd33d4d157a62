package domain

import "fmt"

// ReportMonth is appended to the day number in the report line.
const ReportMonth = "July"

// FormatReport renders the single report line, e.g. "Sofia, 10 July".
func FormatReport(c Candidate) string {
	return fmt.Sprintf("%s, %d %s", c.Location, c.Day.Day, ReportMonth)
}
