package loader

import (
	"fmt"
	"log"
	"time"

	"github.com/mars-clim/gomcs/pkg/l1b"
	"github.com/mars-clim/gomcs/pkg/mcs"
	"github.com/mars-clim/gomcs/pkg/paths"
	"github.com/mars-clim/gomcs/pkg/table"
)

// L1BLoader loads L1B radiance data across files.
type L1BLoader struct {
	builder *paths.Builder
	reader  *l1b.Reader

	// Parallel parses the files of a batch concurrently. Row order of the
	// concatenated result is unchanged.
	Parallel bool
}

// NewL1BLoader creates a loader for the backend selected by cfg; the level
// is fixed to L1B.
func NewL1BLoader(cfg paths.Config) (*L1BLoader, error) {
	cfg.Level = mcs.L1B
	b, err := paths.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	return &L1BLoader{builder: b, reader: l1b.NewReader()}, nil
}

// Builder exposes the loader's address builder.
func (l *L1BLoader) Builder() *paths.Builder { return l.builder }

// Load reads the selected files and concatenates them in sorted filename
// order.
func (l *L1BLoader) Load(sel FileSelector, opts l1b.Options) (*table.Table, error) {
	read := func(f string) (*table.Table, error) { return l.reader.Read(f, opts) }
	empty := func() (*table.Table, error) { return l.emptyTable(opts) }
	return loadFiles(sel, read, empty, l.Parallel)
}

// emptyTable builds a zero-row table with the columns a read would give.
func (l *L1BLoader) emptyTable(opts l1b.Options) (*table.Table, error) {
	cols := opts.Columns
	if len(cols) == 0 {
		cols = mcs.L1BColumns()
	}
	tbl := table.New(cols, mcs.L1BColumnKinds())
	if err := tbl.BroadcastFloat(mcs.ColSolarDist, 0, false); err != nil {
		return nil, err
	}
	if err := tbl.BroadcastFloat(mcs.ColLsubS, 0, false); err != nil {
		return nil, err
	}
	if err := mcs.AddDerivedColumns(tbl, opts.AddCols); err != nil {
		return nil, err
	}
	return tbl, nil
}

// LoadFromBasename loads the single file with the given canonical basename.
func (l *L1BLoader) LoadFromBasename(basename string, opts l1b.Options) (*table.Table, error) {
	return l.Load(Single(l.builder.Filename(basename)), opts)
}

// LoadDateRange loads all files spanning [start, end) and trims the rows to
// the requested window on the derived dt column.
func (l *L1BLoader) LoadDateRange(start, end time.Time, opts l1b.Options) (*table.Table, error) {
	log.Printf("loading L1B data from %s - %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	dropDt := false
	if !containsString(opts.AddCols, "dt") {
		opts.AddCols = append(opts.AddCols, "dt")
		dropDt = true
	}
	files, err := l.builder.FilenamesFromRange(start, end)
	if err != nil {
		return nil, err
	}
	tbl, err := l.Load(Many(files), opts)
	if err != nil {
		return nil, err
	}
	dt := tbl.Col("dt")
	if dt == nil {
		return nil, fmt.Errorf("loader: loaded L1B data has no dt column")
	}
	tbl = tbl.Filter(func(i int) bool {
		return !dt.IsMissing(i) && !dt.Time(i).Before(start) && dt.Time(i).Before(end)
	})
	if dropDt {
		return dropColumns(tbl, []string{"dt"})
	}
	return tbl, nil
}

// LoadAroundTime loads the files of the epoch containing t and the n epochs
// on either side, skipping files absent from disk.
func (l *L1BLoader) LoadAroundTime(t time.Time, n int, opts l1b.Options) (*table.Table, error) {
	present, _, err := l.builder.FindAround(t, n)
	if err != nil {
		return nil, err
	}
	return l.Load(Many(present), opts)
}
