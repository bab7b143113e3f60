// Package l1b reads MCS Level 1B radiance files. An L1B file is a CSV-like
// table of one row per observation preceded by a commented header, from
// which two scalar values are broadcast onto every row.
package l1b

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/mars-clim/gomcs/pkg/fetch"
	"github.com/mars-clim/gomcs/pkg/mcs"
	"github.com/mars-clim/gomcs/pkg/table"
)

// headerScanLines bounds the header scan for the broadcast values.
const headerScanLines = 40

// Options controls what a read returns beyond the declared schema.
type Options struct {
	// Columns restricts the read to a subset of the declared columns,
	// keeping the declared order. Empty means all columns.
	Columns []string

	// AddCols names derived columns to append: "dt" (combined Date/UTC
	// time) and "MY" (Mars Year).
	AddCols []string
}

// Reader reads single L1B files from disk or the archive.
type Reader struct {
	client *fetch.Client
}

// NewReader returns a Reader using a default archive client.
func NewReader() *Reader {
	return &Reader{client: fetch.NewClient(fetch.Options{})}
}

// NewReaderWithClient returns a Reader fetching remote files through c.
func NewReaderWithClient(c *fetch.Client) *Reader {
	return &Reader{client: c}
}

// Read parses one L1B file into a table. A file whose rows do not match the
// declared column count yields an empty table with the expected columns, so
// a batch over many files can skip one corrupt file.
func (r *Reader) Read(location string, opts Options) (*table.Table, error) {
	lines, err := r.client.Lines(location)
	if err != nil {
		return nil, fmt.Errorf("l1b: read %s: %w", location, err)
	}

	cols := opts.Columns
	if len(cols) == 0 {
		cols = mcs.L1BColumns()
	}
	tbl := table.New(cols, mcs.L1BColumnKinds())

	colIndex, err := fieldIndexes(mcs.L1BColumns(), cols)
	if err != nil {
		return nil, err
	}
	solarDist, lSubS := headerValues(lines)

	seenHeader := false
	for i, line := range lines {
		if strings.HasPrefix(line, mcs.CommentPrefix) {
			continue
		}
		if line == "" {
			continue
		}
		if !seenHeader { // the embedded column-name row
			seenHeader = true
			continue
		}
		fields := splitFields(line)
		if len(fields) != len(mcs.L1BColumns()) {
			log.Printf("l1b: unable to load %s: line %d has %d fields, expected %d columns",
				location, i+1, len(fields), len(mcs.L1BColumns()))
			tbl = table.New(cols, mcs.L1BColumnKinds())
			break
		}
		row := make([]string, 0, len(cols))
		for _, idx := range colIndex {
			row = append(row, fields[idx])
		}
		if err := tbl.AppendRow(row); err != nil {
			return nil, fmt.Errorf("l1b: %s line %d: %v", location, i+1, err)
		}
	}

	if err := tbl.BroadcastFloat(mcs.ColSolarDist, solarDist, !math.IsNaN(solarDist)); err != nil {
		return nil, fmt.Errorf("l1b: %s: %v", location, err)
	}
	if err := tbl.BroadcastFloat(mcs.ColLsubS, lSubS, !math.IsNaN(lSubS)); err != nil {
		return nil, fmt.Errorf("l1b: %s: %v", location, err)
	}

	if err := mcs.AddDerivedColumns(tbl, opts.AddCols); err != nil {
		return nil, fmt.Errorf("l1b: %s: %v", location, err)
	}
	return tbl, nil
}

// headerValues scans the leading comment lines for the solar distance and
// solar longitude entries. A value absent within the scan window stays NaN;
// that is not an error.
func headerValues(lines []string) (solarDist, lSubS float64) {
	solarDist, lSubS = math.NaN(), math.NaN()
	n := headerScanLines
	if len(lines) < n {
		n = len(lines)
	}
	for _, line := range lines[:n] {
		if !strings.HasPrefix(line, mcs.CommentPrefix) {
			break
		}
		switch {
		case strings.Contains(line, "Solar_dist"):
			// e.g. "# Solar_dist = 2.46e+08 (km)"
			val := strings.TrimSpace(line)
			val = val[strings.LastIndex(val, "=")+1:]
			val = strings.TrimSpace(strings.Split(val, "(km)")[0])
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				solarDist = f
			}
		case strings.Contains(line, "L_sub_s"):
			val := strings.TrimSpace(line)
			val = strings.TrimSpace(val[strings.LastIndex(val, "=")+1:])
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				lSubS = f
			}
		}
		if !math.IsNaN(solarDist) && !math.IsNaN(lSubS) {
			break
		}
	}
	return solarDist, lSubS
}

// splitFields comma-splits a data line, strips quotes and whitespace and
// normalizes missing data sentinels to empty fields.
func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		f = strings.TrimSpace(strings.ReplaceAll(f, `"`, ""))
		if mcs.IsMissingValue(f) {
			f = ""
		}
		fields[i] = f
	}
	return fields
}

// fieldIndexes maps the requested columns to their positions in the
// declared column order.
func fieldIndexes(declared, requested []string) ([]int, error) {
	pos := make(map[string]int, len(declared))
	for i, c := range declared {
		pos[c] = i
	}
	idx := make([]int, 0, len(requested))
	for _, c := range requested {
		i, ok := pos[c]
		if !ok {
			return nil, fmt.Errorf("l1b: schema does not declare column %q", c)
		}
		idx = append(idx, i)
	}
	return idx, nil
}
