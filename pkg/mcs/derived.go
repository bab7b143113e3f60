package mcs

import (
	"fmt"
	"time"

	"github.com/mars-clim/gomcs/pkg/marstime"
	"github.com/mars-clim/gomcs/pkg/table"
)

// AddDerivedColumns appends the requested derived columns to a parsed
// table: "dt" built from the Date and UTC columns and "MY", the Mars Year
// of each dt. Both require the time columns to be present.
func AddDerivedColumns(tbl *table.Table, addCols []string) error {
	for _, c := range addCols {
		switch c {
		case "dt":
			if err := AddDatetimeColumn(tbl); err != nil {
				return err
			}
		case "MY":
			if err := AddMarsYearColumn(tbl); err != nil {
				return err
			}
		default:
			return fmt.Errorf("mcs: unknown derived column %q", c)
		}
	}
	return nil
}

// AddDatetimeColumn appends a "dt" time column from Date and UTC. Rows
// whose values do not parse stay missing.
func AddDatetimeColumn(tbl *table.Table) error {
	if !tbl.HasColumn("Date") || !tbl.HasColumn("UTC") {
		return fmt.Errorf("mcs: derived column dt needs Date and UTC")
	}
	date, utc := tbl.Col("Date"), tbl.Col("UTC")
	vals := make([]time.Time, tbl.NumRows())
	for i := range vals {
		if date.IsMissing(i) || utc.IsMissing(i) {
			continue
		}
		t, err := ParseDateUTC(date.Str(i), utc.Str(i))
		if err != nil {
			continue
		}
		vals[i] = t
	}
	return tbl.AddTimeColumn("dt", vals)
}

// AddMarsYearColumn appends an "MY" column holding the Mars Year of each
// row's dt, adding dt first if needed. Rows without a dt stay missing.
func AddMarsYearColumn(tbl *table.Table) error {
	if !tbl.HasColumn("dt") {
		if err := AddDatetimeColumn(tbl); err != nil {
			return err
		}
	}
	dt := tbl.Col("dt")
	vals := make([]int64, tbl.NumRows())
	valid := make([]bool, tbl.NumRows())
	for i := range vals {
		if dt.IsMissing(i) {
			continue
		}
		vals[i] = int64(marstime.MarsYear(dt.Time(i)))
		valid[i] = true
	}
	return tbl.AddMaskedIntColumn("MY", vals, valid)
}
