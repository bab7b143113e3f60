// Package mcs contains common constants and the file schema definitions for
// Mars Climate Sounder data products.
package mcs

import "fmt"

// Level is an instrument data processing level.
type Level int

// Available data levels.
const (
	L0 Level = iota + 1
	L1A
	L1B
	L2
)

func (lvl Level) String() string {
	return [...]string{"", "L0", "L1A", "L1B", "L2"}[lvl]
}

// RecordCode returns the data record code used in archive filenames.
func (lvl Level) RecordCode() string {
	return [...]string{"", "EDR", "", "RDR", "DDR"}[lvl]
}

// Suffix returns the filename suffix used in the local directory layout.
func (lvl Level) Suffix() string {
	return [...]string{"", "", "L1A", "L1B", "L2"}[lvl]
}

// ArchiveDigit returns the level digit of the archive volume counter.
func (lvl Level) ArchiveDigit() string {
	return [...]string{"", "0", "", "1", "2"}[lvl]
}

const (
	// NDetectors is the number of detectors per channel.
	NDetectors = 21

	// CommentPrefix starts every header comment line.
	CommentPrefix = "#"
)

// Channels lists the radiometer channel names.
var Channels = []string{"A1", "A2", "A3", "A4", "A5", "A6", "B1", "B2", "B3"}

// missing data sentinels as they appear in the files.
var missingValues = map[string]bool{"-9999": true, "": true}

// IsMissingValue reports whether a raw field is one of the missing data
// sentinels.
func IsMissingValue(field string) bool {
	return missingValues[field]
}

// RadColName returns the radiance column name for a channel and detector,
// e.g. "Rad_A6_11".
func RadColName(channel string, detector int) string {
	return fmt.Sprintf("Rad_%s_%02d", channel, detector)
}

// RadColNames returns the radiance column names of all detectors of one
// channel, in detector order.
func RadColNames(channel string) []string {
	names := make([]string, 0, NDetectors)
	for d := 1; d <= NDetectors; d++ {
		names = append(names, RadColName(channel, d))
	}
	return names
}
