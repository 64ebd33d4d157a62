package domain

import (
	"strconv"
	"strings"
)

// RowLabels are the labels written by RenderDays, one per field in
// positional order. Parsing does not depend on them.
var RowLabels = [FieldsPerDay]string{
	"Day/Parameter",
	"Temperature (C)",
	"Wind (m/s)",
	"Humidity (%)",
	"Precipitation (%)",
	"Lightning",
	"Clouds",
}

// RenderDays writes records in the input file format: one comma-separated
// row per field, one column per day.
func RenderDays(records []DayRecord) string {
	var rows [FieldsPerDay][]string
	for i, label := range RowLabels {
		rows[i] = append(make([]string, 0, len(records)+1), label)
	}
	for _, r := range records {
		rows[0] = append(rows[0], strconv.Itoa(r.Day))
		rows[1] = append(rows[1], strconv.Itoa(r.Temperature))
		rows[2] = append(rows[2], strconv.Itoa(r.Wind))
		rows[3] = append(rows[3], strconv.Itoa(r.Humidity))
		rows[4] = append(rows[4], strconv.Itoa(r.Precipitation))
		rows[5] = append(rows[5], r.Lightning)
		rows[6] = append(rows[6], r.Clouds)
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, ",")
	}
	return strings.Join(lines, "\n")
}
