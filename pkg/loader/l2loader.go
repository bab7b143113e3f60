package loader

import (
	"fmt"
	"log"
	"time"

	"github.com/mars-clim/gomcs/pkg/l2"
	"github.com/mars-clim/gomcs/pkg/marstime"
	"github.com/mars-clim/gomcs/pkg/mcs"
	"github.com/mars-clim/gomcs/pkg/paths"
	"github.com/mars-clim/gomcs/pkg/table"
)

// lsRangePadding widens the estimated date range of an Ls query before the
// exact trim on the L_s column.
const lsRangePadding = 2 * 24 * time.Hour

// L2Loader loads one L2 data record kind across files.
type L2Loader struct {
	builder *paths.Builder
	reader  *l2.Reader
	pds     bool

	// Parallel parses the files of a batch concurrently.
	Parallel bool
}

// NewL2Loader creates a loader for the backend selected by cfg; the level
// is fixed to L2. The archive backend reads the PDS file variant, which
// declares DDR1/DDR2 only.
func NewL2Loader(cfg paths.Config) (*L2Loader, error) {
	cfg.Level = mcs.L2
	b, err := paths.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	return &L2Loader{builder: b, reader: l2.NewReader(cfg.Archive), pds: cfg.Archive}, nil
}

// Builder exposes the loader's address builder.
func (l *L2Loader) Builder() *paths.Builder { return l.builder }

// Load reads the requested record kind from the selected files and
// concatenates them in sorted filename order.
func (l *L2Loader) Load(sel FileSelector, record string, opts l2.Options) (*table.Table, error) {
	read := func(f string) (*table.Table, error) { return l.reader.Read(f, record, opts) }
	empty := func() (*table.Table, error) { return l.emptyTable(record, opts) }
	return loadFiles(sel, read, empty, l.Parallel)
}

func (l *L2Loader) emptyTable(record string, opts l2.Options) (*table.Table, error) {
	schema, err := mcs.L2Schema(record, l.pds)
	if err != nil {
		return nil, err
	}
	cols := opts.Columns
	if len(cols) == 0 {
		cols = schema.Columns
	}
	tbl := table.New(cols, schema.Kinds)
	if err := tbl.AddStringColumn(l2.ColProfileID, nil); err != nil {
		return nil, err
	}
	if record == mcs.DDR2 {
		if err := tbl.AddIntColumn(l2.ColLevel, nil); err != nil {
			return nil, err
		}
	}
	if tbl.HasColumn("Date") && tbl.HasColumn("UTC") {
		if err := mcs.AddDerivedColumns(tbl, opts.AddCols); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// LoadFromBasename loads one record kind from the single file with the
// given canonical basename.
func (l *L2Loader) LoadFromBasename(basename, record string, opts l2.Options) (*table.Table, error) {
	return l.Load(Single(l.builder.Filename(basename)), record, opts)
}

// LoadProfiles loads one record kind from a single file and keeps only the
// rows of the given 0-based profile indices.
func (l *L2Loader) LoadProfiles(basename string, profiles []int, record string, opts l2.Options) (*table.Table, error) {
	tbl, err := l.LoadFromBasename(basename, record, opts)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		wanted[fmt.Sprintf("%s_%d", basename, p)] = true
	}
	ids := tbl.Col(l2.ColProfileID)
	return tbl.Filter(func(i int) bool { return wanted[ids.Str(i)] }), nil
}

// LoadDateRange loads the record kind over all files spanning [start, end).
// For DDR1 the rows are trimmed to the window on the derived dt column;
// other record kinds carry no time columns and are returned whole.
func (l *L2Loader) LoadDateRange(start, end time.Time, record string, opts l2.Options) (*table.Table, error) {
	log.Printf("loading L2 %s data from %s - %s", record, start.Format(time.RFC3339), end.Format(time.RFC3339))
	dropDt := false
	if record == mcs.DDR1 && !containsString(opts.AddCols, "dt") {
		opts.AddCols = append(opts.AddCols, "dt")
		dropDt = true
	}
	files, err := l.builder.FilenamesFromRange(start, end)
	if err != nil {
		return nil, err
	}
	tbl, err := l.Load(Many(files), record, opts)
	if err != nil {
		return nil, err
	}
	if record == mcs.DDR1 {
		dt := tbl.Col("dt")
		if dt == nil {
			return nil, fmt.Errorf("loader: loaded DDR1 data has no dt column")
		}
		tbl = tbl.Filter(func(i int) bool {
			return !dt.IsMissing(i) && !dt.Time(i).Before(start) && dt.Time(i).Before(end)
		})
		if dropDt {
			return dropColumns(tbl, []string{"dt"})
		}
	}
	return tbl, nil
}

// LoadLsRange loads the record kind over a solar longitude range of one
// Mars Year. The date range is estimated by calendar inversion, padded, and
// for DDR1 trimmed exactly on the L_s column.
func (l *L2Loader) LoadLsRange(my int, startLs, endLs float64, record string, opts l2.Options) (*table.Table, error) {
	log.Printf("determining approximate start/end dates for MY%d, Ls range %g - %g", my, startLs, endLs)
	start, err := marstime.UTCFromMarsYearLs(my, startLs)
	if err != nil {
		return nil, err
	}
	end, err := marstime.UTCFromMarsYearLs(my, endLs)
	if err != nil {
		return nil, err
	}
	tbl, err := l.LoadDateRange(start.Add(-lsRangePadding), end.Add(lsRangePadding), record, opts)
	if err != nil {
		return nil, err
	}
	if record == mcs.DDR1 {
		ls := tbl.Col("L_s")
		if ls == nil {
			return nil, fmt.Errorf("loader: loaded DDR1 data has no L_s column")
		}
		tbl = tbl.Filter(func(i int) bool {
			return !ls.IsMissing(i) && ls.Float(i) >= startLs && ls.Float(i) < endLs
		})
	}
	return tbl, nil
}
