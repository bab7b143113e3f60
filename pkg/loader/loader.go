// Package loader orchestrates multi-file loads: it expands a requested time
// or Mars-calendar range into file addresses, parses each file and
// concatenates the results. Per-file problems are skipped, never fatal for
// a batch.
package loader

import (
	"log"
	"sort"
	"sync"

	"github.com/mars-clim/gomcs/pkg/table"
)

// A FileSelector names the files of one load: a single location, an
// ordered list, or none at all.
type FileSelector interface {
	selectorFiles() []string
	isSingle() bool
}

// Single selects exactly one file; read errors are returned to the caller.
type Single string

func (s Single) selectorFiles() []string { return []string{string(s)} }
func (s Single) isSingle() bool          { return true }

// Many selects a batch of files, loaded in sorted order. A file that cannot
// be read is logged and skipped.
type Many []string

func (m Many) selectorFiles() []string {
	files := append([]string{}, m...)
	sort.Strings(files)
	return files
}
func (m Many) isSingle() bool { return false }

// None selects no files; a load yields an empty table with the expected
// columns.
type None struct{}

func (None) selectorFiles() []string { return nil }
func (None) isSingle() bool          { return false }

// readFunc parses one file into a table.
type readFunc func(location string) (*table.Table, error)

// loadFiles runs a selector through read and concatenates the per-file
// tables. With parallel set, files are parsed concurrently and joined in
// selector order; each parse owns its table, so no locking is needed.
func loadFiles(sel FileSelector, read readFunc, empty func() (*table.Table, error), parallel bool) (*table.Table, error) {
	files := sel.selectorFiles()
	if sel.isSingle() {
		return read(files[0])
	}
	if len(files) == 0 {
		return empty()
	}

	pieces := make([]*table.Table, len(files))
	if parallel {
		var wg sync.WaitGroup
		for i, f := range files {
			wg.Add(1)
			go func(i int, f string) {
				defer wg.Done()
				tbl, err := read(f)
				if err != nil {
					log.Printf("loader: skipping %s: %v", f, err)
					return
				}
				pieces[i] = tbl
			}(i, f)
		}
		wg.Wait()
	} else {
		for i, f := range files {
			tbl, err := read(f)
			if err != nil {
				log.Printf("loader: skipping %s: %v", f, err)
				continue
			}
			pieces[i] = tbl
		}
	}

	loaded := make([]*table.Table, 0, len(pieces))
	for _, p := range pieces {
		if p != nil {
			loaded = append(loaded, p)
		}
	}
	if len(loaded) == 0 {
		return empty()
	}
	return table.Concat(loaded...)
}

// dropColumns returns tbl without the named columns.
func dropColumns(tbl *table.Table, names []string) (*table.Table, error) {
	if len(names) == 0 {
		return tbl, nil
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []string
	for _, n := range tbl.ColumnNames() {
		if !drop[n] {
			keep = append(keep, n)
		}
	}
	return tbl.Select(keep)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
