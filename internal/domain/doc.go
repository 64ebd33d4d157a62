// Package domain models per-city weather observations and the launch-site
// selection rules applied to them.
//
// # Input Format
//
// Each city is one text file named after the city ("Sofia.csv"). Every line
// is a comma-separated row whose first field is a row label and whose
// remaining fields are per-day values:
//
//	Day/Parameter,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15
//	Temperature (C),22,25,...
//	Wind (m/s),4,9,...
//	Humidity (%),40,62,...
//	Precipitation (%),0,0,...
//	Lightning,No,Yes,...
//	Clouds,Cirrus,Cumulus,...
//
// Rows that share a label are concatenated in the order they appear, so a
// long row may be split across lines. Empty fields are dropped, which means
// "a,,b" contributes two values, not three. Labels are positional: the first
// distinct label supplies the day number, the second the temperature, then
// wind, humidity, precipitation, lightning and clouds.
//
// A file must yield exactly seven values for each of the first [DaysInPeriod]
// days. Parsing is all-or-nothing: one bad day rejects the whole file with a
// [*SchemaError] or a [*ParseError].
//
// # Launch Policy
//
// A day qualifies for launch when
//
//	1 < temperature < 32
//	wind < 11
//	humidity < 55
//	precipitation == 0
//	lightning == "No"
//	clouds not in {Cumulus, Nimbus}
//
// The best day of a city has the lowest wind, then the lowest humidity, then
// the earliest position in the file. Across cities the candidate with the
// lowest latitude wins; equal latitudes keep input order. A city the
// geocoder cannot find is given [NotFoundLatitude] and therefore sorts last.
//
// The thresholds are fixed policy and deliberately not configurable.
package domain
