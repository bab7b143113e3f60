// Package pipeline filters and transforms loaded MCS data in common ways:
// value and time windowing, quality flag selection, viewing geometry
// labels. Select operations return a new table; Add operations append a
// column to the given table.
package pipeline

import (
	"fmt"
	"time"

	"github.com/mars-clim/gomcs/pkg/marstime"
	"github.com/mars-clim/gomcs/pkg/table"
)

// SelectRange keeps the rows whose value in col lies in (min, max].
func SelectRange(tbl *table.Table, col string, min, max float64) (*table.Table, error) {
	c := tbl.Col(col)
	if c == nil {
		return nil, fmt.Errorf("pipeline: no column %s", col)
	}
	return tbl.Filter(func(i int) bool {
		if c.IsMissing(i) {
			return false
		}
		var v float64
		switch c.Kind {
		case table.Float:
			v = c.Float(i)
		case table.Int:
			v = float64(c.Int(i))
		default:
			return false
		}
		return v > min && v <= max
	}), nil
}

// SelectTimeRange keeps the rows whose time in dtCol lies in [start, end).
func SelectTimeRange(tbl *table.Table, start, end time.Time, dtCol string) (*table.Table, error) {
	c := tbl.Col(dtCol)
	if c == nil {
		return nil, fmt.Errorf("pipeline: no column %s", dtCol)
	}
	return tbl.Filter(func(i int) bool {
		return !c.IsMissing(i) && !c.Time(i).Before(start) && c.Time(i).Before(end)
	}), nil
}

// SelectFlags keeps the rows whose flag value in col is one of values.
func SelectFlags(tbl *table.Table, col string, values []int64) (*table.Table, error) {
	c := tbl.Col(col)
	if c == nil {
		return nil, fmt.Errorf("pipeline: no column %s", col)
	}
	allowed := make(map[int64]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	return tbl.Filter(func(i int) bool {
		return !c.IsMissing(i) && allowed[c.Int(i)]
	}), nil
}

// Default quality flag selections.
var (
	DefaultGqual   = []int64{0, 5, 6}
	DefaultRolling = []int64{0}
	DefaultMoving  = []int64{0}
)

// SelectGqual keeps rows with an accepted geometry quality flag.
func SelectGqual(tbl *table.Table, values []int64) (*table.Table, error) {
	return SelectFlags(tbl, "Gqual", values)
}

// SelectRolling keeps rows with an accepted Rolling flag.
func SelectRolling(tbl *table.Table, values []int64) (*table.Table, error) {
	return SelectFlags(tbl, "Rolling", values)
}

// SelectMoving keeps rows with an accepted Moving flag.
func SelectMoving(tbl *table.Table, values []int64) (*table.Table, error) {
	return SelectFlags(tbl, "Moving", values)
}

// SelectLimbViews keeps limb views, filtering on the scene altitude.
func SelectLimbViews(tbl *table.Table, minAlt, maxAlt float64) (*table.Table, error) {
	return SelectRange(tbl, "Scene_alt", minAlt, maxAlt)
}

// SelectLimbAngleRange filters on the limb angle.
func SelectLimbAngleRange(tbl *table.Table, minAng, maxAng float64) (*table.Table, error) {
	return SelectRange(tbl, "Limb_ang", minAng, maxAng)
}

// SelectAzimuth filters on the last commanded azimuth angle.
func SelectAzimuth(tbl *table.Table, minAz, maxAz float64) (*table.Table, error) {
	return SelectRange(tbl, "Last_az_cmd", minAz, maxAz)
}

// azimuth ranges labelling the viewing direction.
var azRangeMap = []struct {
	label    string
	min, max float64
}{
	{"in", 170, 190},
	{"left", 80, 100},
	{"right", 260, 280},
	{"aft", 0, 3},
}

// DirectionLabel maps a commanded azimuth to the in-track / cross-track
// label, or "" when the azimuth matches no labelled range.
func DirectionLabel(lastAzCmd float64) string {
	for _, r := range azRangeMap {
		if lastAzCmd >= r.min && lastAzCmd < r.max {
			return r.label
		}
	}
	return ""
}

// AddDirectionColumn labels every row with its viewing direction based on
// the commanded azimuth.
func AddDirectionColumn(tbl *table.Table) (*table.Table, error) {
	az := tbl.Col("Last_az_cmd")
	if az == nil {
		return nil, fmt.Errorf("pipeline: no column Last_az_cmd")
	}
	labels := make([]string, tbl.NumRows())
	for i := range labels {
		if az.IsMissing(i) {
			continue
		}
		labels[i] = DirectionLabel(az.Float(i))
	}
	if err := tbl.AddStringColumn("direction", labels); err != nil {
		return nil, fmt.Errorf("pipeline: %v", err)
	}
	return tbl, nil
}

// SelectDirection keeps the rows with one of the given direction labels.
// AddDirectionColumn must have run before.
func SelectDirection(tbl *table.Table, directions ...string) (*table.Table, error) {
	c := tbl.Col("direction")
	if c == nil {
		return nil, fmt.Errorf("pipeline: no direction column, run AddDirectionColumn first")
	}
	wanted := make(map[string]bool, len(directions))
	for _, d := range directions {
		wanted[d] = true
	}
	return tbl.Filter(func(i int) bool {
		return !c.IsMissing(i) && wanted[c.Str(i)]
	}), nil
}

// AddLTSTColumn adds the local true solar time of every row from the scene
// and subsolar longitudes.
func AddLTSTColumn(tbl *table.Table) (*table.Table, error) {
	scene, solar := tbl.Col("Scene_lon"), tbl.Col("Solar_lon")
	if scene == nil || solar == nil {
		return nil, fmt.Errorf("pipeline: LTST needs Scene_lon and Solar_lon")
	}
	vals := make([]float64, tbl.NumRows())
	for i := range vals {
		vals[i] = marstime.LTST(scene.Float(i), solar.Float(i))
	}
	if err := tbl.AddFloatColumn("LTST", vals); err != nil {
		return nil, fmt.Errorf("pipeline: %v", err)
	}
	return tbl, nil
}
