package l2

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-clim/gomcs/pkg/mcs"
	"github.com/mars-clim/gomcs/pkg/table"
)

// l2Row builds one data line of the given record kind. DDR1 rows carry a
// per-profile L_s, DDR2 rows a temperature encoding the retrieval level, so
// the tests can check which lines of the stride were extracted.
func l2Row(s mcs.RecordSchema, profile, line int) string {
	fields := make([]string, len(s.Columns))
	for j, c := range s.Columns {
		switch {
		case c == "Date" || strings.HasPrefix(c, "Ref_Date"):
			fields[j] = `"01-AUG-2012"`
		case c == "UTC" || strings.HasPrefix(c, "Ref_UTC"):
			fields[j] = `"16:00:00.000"`
		case c == "L_s":
			fields[j] = fmt.Sprintf("%.2f", 150.0+float64(profile))
		case c == "T":
			fields[j] = fmt.Sprintf("%.1f", 150.0+float64(line))
		case s.Kinds[c] == table.Int:
			fields[j] = "1"
		default:
			fields[j] = "2.5"
		}
	}
	return strings.Join(fields, ",")
}

// writeL2 writes a fixture file with nprofiles full profile strides and
// returns its path. mutate, if non-nil, may edit the assembled lines.
func writeL2(t *testing.T, pds bool, nprofiles int, mutate func(lines []string) []string) string {
	t.Helper()
	schemas := mcs.L2Schemas(pds)

	lines := []string{"# MCS L2 data", "# retrieval version 5"}
	for _, s := range schemas {
		lines = append(lines, strings.Join(s.Columns, ","))
	}
	for p := 0; p < nprofiles; p++ {
		for _, s := range schemas {
			for ln := 0; ln < s.Lines; ln++ {
				lines = append(lines, l2Row(s, p, ln))
			}
		}
	}
	if mutate != nil {
		lines = mutate(lines)
	}
	path := filepath.Join(t.TempDir(), "120801160000.L2")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestReader_Read_DDR1(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, false, 2, nil)

	tbl, err := NewReader(false).Read(path, mcs.DDR1, Options{})
	require.NoError(t, err)

	assert.Equal(2, tbl.NumRows(), "one DDR1 row per profile")
	assert.Len(tbl.ColumnNames(), 78, "declared columns plus the profile identifier")

	assert.Equal("120801160000_0", tbl.Col(ColProfileID).Str(0))
	assert.Equal("120801160000_1", tbl.Col(ColProfileID).Str(1))
	assert.Equal(150.0, tbl.Col("L_s").Float(0))
	assert.Equal(151.0, tbl.Col("L_s").Float(1))
	assert.Equal(int64(1), tbl.Col("Orb_num").Int(0))
	assert.False(tbl.HasColumn(ColLevel), "level is a DDR2 column")
}

func TestReader_Read_DDR2(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, false, 2, nil)

	tbl, err := NewReader(false).Read(path, mcs.DDR2, Options{})
	require.NoError(t, err)

	assert.Equal(210, tbl.NumRows(), "105 retrieval levels per profile")
	assert.Equal("120801160000_0", tbl.Col(ColProfileID).Str(104))
	assert.Equal("120801160000_1", tbl.Col(ColProfileID).Str(105))

	lvl := tbl.Col(ColLevel)
	assert.Equal(int64(0), lvl.Int(0))
	assert.Equal(int64(104), lvl.Int(104))
	assert.Equal(int64(0), lvl.Int(105))

	// T encodes the in-profile line, proving stride extraction hit the
	// right lines of the second profile too
	assert.Equal(150.0, tbl.Col("T").Float(105))
	assert.Equal(254.0, tbl.Col("T").Float(209))
}

func TestReader_Read_DDR3DDR4(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, false, 2, nil)
	r := NewReader(false)

	tbl, err := r.Read(path, mcs.DDR3, Options{})
	require.NoError(t, err)
	assert.Equal(44, tbl.NumRows())
	assert.True(tbl.HasColumn("Rad_A1_calc"))

	tbl, err = r.Read(path, mcs.DDR4, Options{})
	require.NoError(t, err)
	assert.Equal(204, tbl.NumRows())
	assert.Equal(2.5, tbl.Col("T_resid").Float(0))
}

func TestReader_Read_PDSVariant(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, true, 1, nil)
	r := NewReader(true)

	tbl, err := r.Read(path, mcs.DDR2, Options{})
	require.NoError(t, err)
	assert.Equal(105, tbl.NumRows())

	// the archive variant does not pack radiance records
	_, err = r.Read(path, mcs.DDR3, Options{})
	assert.Error(err)
}

func TestReader_Read_ColumnSubset(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, false, 1, nil)
	r := NewReader(false)

	tbl, err := r.Read(path, mcs.DDR1, Options{Columns: []string{"L_s", "Profile_lat"}})
	require.NoError(t, err)
	assert.Equal([]string{"L_s", "Profile_lat", ColProfileID}, tbl.ColumnNames())
	assert.Equal(2.5, tbl.Col("Profile_lat").Float(0))

	_, err = r.Read(path, mcs.DDR1, Options{Columns: []string{"Pres"}})
	assert.Error(err, "Pres is a DDR2 column")
}

func TestReader_Read_DerivedColumns(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, false, 1, nil)
	r := NewReader(false)

	tbl, err := r.Read(path, mcs.DDR1, Options{AddCols: []string{"dt", "MY"}})
	require.NoError(t, err)
	assert.Equal(time.Date(2012, 8, 1, 16, 0, 0, 0, time.UTC), tbl.Col("dt").Time(0))
	assert.Equal(int64(31), tbl.Col("MY").Int(0))

	// derived columns need the time columns in the projection; without
	// them the request is silently inapplicable
	tbl, err = r.Read(path, mcs.DDR1, Options{Columns: []string{"L_s"}, AddCols: []string{"dt"}})
	require.NoError(t, err)
	assert.False(tbl.HasColumn("dt"))
}

func TestReader_Read_HeaderMismatchNotFatal(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, false, 1, func(lines []string) []string {
		lines[2] = "bogus,header,row"
		return lines
	})

	tbl, err := NewReader(false).Read(path, mcs.DDR1, Options{})
	require.NoError(t, err, "the declared schema stays authoritative")
	assert.Equal(1, tbl.NumRows())
}

func TestReader_Read_ShortFile(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, false, 0, nil)

	tbl, err := NewReader(false).Read(path, mcs.DDR2, Options{})
	require.NoError(t, err)
	assert.Equal(0, tbl.NumRows())
	assert.True(tbl.HasColumn(ColProfileID))
	assert.True(tbl.HasColumn(ColLevel))
}

func TestReader_Read_BadFieldCount(t *testing.T) {
	path := writeL2(t, false, 1, func(lines []string) []string {
		lines[len(lines)-1] = "only,three,fields"
		return lines
	})

	_, err := NewReader(false).Read(path, mcs.DDR4, Options{})
	assert.Error(t, err)
}

func TestReader_Read_MissingSentinels(t *testing.T) {
	assert := assert.New(t)
	path := writeL2(t, false, 1, func(lines []string) []string {
		// first DDR2 line, Pres field
		i := 2 + 4 + 1
		fields := strings.Split(lines[i], ",")
		fields[1] = "-9999"
		lines[i] = strings.Join(fields, ",")
		return lines
	})

	tbl, err := NewReader(false).Read(path, mcs.DDR2, Options{})
	require.NoError(t, err)
	assert.True(tbl.Col("Pres").IsMissing(0))
	assert.False(tbl.Col("Pres").IsMissing(1))
}
