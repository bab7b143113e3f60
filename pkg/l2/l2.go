// Package l2 reads MCS Level 2 packed profile files. An L2 file interleaves
// up to four data record kinds (DDR1..DDR4) in a fixed repeating stride of
// lines per retrieval profile; reading reconstructs one record kind into a
// table keyed by profile identifier.
package l2

import (
	"fmt"
	"log"
	"strings"

	"github.com/mars-clim/gomcs/pkg/fetch"
	"github.com/mars-clim/gomcs/pkg/mcs"
	"github.com/mars-clim/gomcs/pkg/paths"
	"github.com/mars-clim/gomcs/pkg/table"
)

// ColProfileID is the per-row profile identifier column,
// "{basename}_{profile index}".
const ColProfileID = "Profile_identifier"

// ColLevel is the 0-based in-profile retrieval level column, attached to
// DDR2 tables.
const ColLevel = "level"

// Options controls what a read returns beyond the declared schema.
type Options struct {
	// Columns restricts the read to a subset of the declared columns.
	// Empty means all columns.
	Columns []string

	// AddCols names derived columns to append ("dt", "MY"). They are
	// computed only when the DDR1 time columns are in the projected set.
	AddCols []string
}

// Reader reads single L2 files from disk or the archive.
type Reader struct {
	client  *fetch.Client
	schemas []mcs.RecordSchema
}

// NewReader returns a Reader for the given file variant: the PDS archive
// variant declares DDR1/DDR2 only, the full variant all four record kinds.
func NewReader(pds bool) *Reader {
	return &Reader{client: fetch.NewClient(fetch.Options{}), schemas: mcs.L2Schemas(pds)}
}

// NewReaderWithClient returns a Reader fetching remote files through c.
func NewReaderWithClient(c *fetch.Client, pds bool) *Reader {
	return &Reader{client: c, schemas: mcs.L2Schemas(pds)}
}

// Schemas returns the record schemas the Reader expects, in file order.
func (r *Reader) Schemas() []mcs.RecordSchema { return r.schemas }

// Read parses the requested record kind of one L2 file into a table. A file
// that fetches to zero lines (e.g. not in the archive) yields an empty
// table with the expected columns. A header deviating from the declared
// schema is reported but not fatal; the declared schema stays authoritative.
func (r *Reader) Read(location, record string, opts Options) (*table.Table, error) {
	schema, offset, err := r.recordOffset(record)
	if err != nil {
		return nil, err
	}

	lines, err := r.client.Lines(location)
	if err != nil {
		return nil, fmt.Errorf("l2: read %s: %w", location, err)
	}

	basename, err := paths.BasenameFromPath(location)
	if err != nil {
		return nil, fmt.Errorf("l2: %v", err)
	}

	cols := opts.Columns
	if len(cols) == 0 {
		cols = schema.Columns
	}
	colIndex := make([]int, 0, len(cols))
	for _, c := range cols {
		found := false
		for i, dc := range schema.Columns {
			if dc == c {
				colIndex = append(colIndex, i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("l2: %s does not declare column %q", record, c)
		}
	}

	tbl := table.New(cols, schema.Kinds)

	nComments := countComments(lines)
	dataStart := nComments + len(r.schemas)
	if len(lines) < dataStart {
		if len(lines) > 0 {
			log.Printf("l2: %s: only %d lines, no data records", location, len(lines))
		}
		return r.finish(tbl, schema, record, basename, opts.AddCols, cols)
	}

	r.checkColumnNames(lines[nComments:dataStart], location)

	stride := mcs.ProfileStride(r.schemas)
	for base := dataStart + offset; base < len(lines); base += stride {
		end := base + schema.Lines
		if end > len(lines) {
			end = len(lines)
		}
		for ln := base; ln < end; ln++ {
			fields := splitFields(lines[ln])
			if len(fields) != len(schema.Columns) {
				return nil, fmt.Errorf("l2: %s line %d: got %d fields, %s declares %d columns",
					location, ln+1, len(fields), record, len(schema.Columns))
			}
			row := make([]string, 0, len(cols))
			for _, idx := range colIndex {
				row = append(row, fields[idx])
			}
			if err := tbl.AppendRow(row); err != nil {
				return nil, fmt.Errorf("l2: %s line %d: %v", location, ln+1, err)
			}
		}
	}

	return r.finish(tbl, schema, record, basename, opts.AddCols, cols)
}

// finish attaches the positional identifier columns and any derived
// columns. Profile index and level are pure functions of row position and
// the record's line count.
func (r *Reader) finish(tbl *table.Table, schema mcs.RecordSchema, record, basename string, addCols, projected []string) (*table.Table, error) {
	n := tbl.NumRows()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("%s_%d", basename, i/schema.Lines)
	}
	if err := tbl.AddStringColumn(ColProfileID, ids); err != nil {
		return nil, fmt.Errorf("l2: %v", err)
	}
	if record == mcs.DDR2 {
		levels := make([]int64, n)
		for i := 0; i < n; i++ {
			levels[i] = int64(i % schema.Lines)
		}
		if err := tbl.AddIntColumn(ColLevel, levels); err != nil {
			return nil, fmt.Errorf("l2: %v", err)
		}
	}
	if hasColumn(projected, "Date") && hasColumn(projected, "UTC") {
		if err := mcs.AddDerivedColumns(tbl, addCols); err != nil {
			return nil, fmt.Errorf("l2: %v", err)
		}
	}
	return tbl, nil
}

// recordOffset returns the schema of the requested record kind and its line
// offset within one profile stride.
func (r *Reader) recordOffset(record string) (mcs.RecordSchema, int, error) {
	offset := 0
	for _, s := range r.schemas {
		if s.Name == record {
			return s, offset, nil
		}
		offset += s.Lines
	}
	return mcs.RecordSchema{}, 0, fmt.Errorf("l2: record kind %q not declared for this file variant", record)
}

// checkColumnNames validates the embedded column-header lines, one per
// declared record kind, against the declared schemas. A mismatch is
// reported but parsing proceeds with the declared schema.
func (r *Reader) checkColumnNames(headerLines []string, location string) {
	for i, s := range r.schemas {
		got := splitHeader(headerLines[i])
		if !equalStrings(got, s.Columns) {
			log.Printf("l2: %s: %s column names do not match expected schema (got %d: %v)",
				location, s.Name, len(got), got)
		}
	}
}

func countComments(lines []string) int {
	n := 0
	for _, line := range lines {
		if !strings.HasPrefix(line, mcs.CommentPrefix) {
			break
		}
		n++
	}
	return n
}

// splitHeader comma-splits a column-header line, stripping quotes and
// whitespace.
func splitHeader(line string) []string {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(strings.ReplaceAll(f, `"`, ""))
	}
	return fields
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

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
