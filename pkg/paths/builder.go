package paths

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mars-clim/gomcs/pkg/mcs"
)

// problemFiles lists known-bad files that are silently dropped from result
// sets and never reported missing.
// TODO: generalize to a configurable exclusion list if a second entry ever
// shows up.
var problemFiles = map[string]bool{"150826040000.L1B": true}

// Config selects the storage backend of a Builder. Exactly one backend
// applies: the PDS archive, or a local directory tree rooted at DataDir
// (empty DataDir falls back to the MCS_DATA_DIR_BASE environment variable).
type Config struct {
	Level   mcs.Level
	Archive bool
	DataDir string
}

// Builder turns time ranges into file locations for one data level and one
// storage backend.
type Builder struct {
	scheme Scheme
}

// NewBuilder creates a Builder from cfg. Selecting the archive and a data
// directory at once is a contract violation.
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.Archive && cfg.DataDir != "" {
		return nil, fmt.Errorf("%w: both archive and data directory selected", ErrInvalidArgument)
	}
	var (
		scheme Scheme
		err    error
	)
	if cfg.Archive {
		scheme, err = NewArchiveScheme(cfg.Level)
	} else {
		scheme, err = NewDirectoryScheme(cfg.Level, cfg.DataDir)
	}
	if err != nil {
		return nil, err
	}
	return &Builder{scheme: scheme}, nil
}

// Scheme returns the underlying addressing scheme.
func (b *Builder) Scheme() Scheme { return b.scheme }

// Filename resolves a canonical basename to a location.
func (b *Builder) Filename(basename string) string {
	return b.scheme.Resolve(basename)
}

// FilenameForTime resolves the file containing t, rounding down to the
// epoch start.
func (b *Builder) FilenameForTime(t time.Time) string {
	start, _ := RoundToEpoch(t, EpochHours, true, false)
	return b.scheme.Resolve(Basename(start))
}

// BasenamesFromRange returns the basenames of every epoch spanning
// [start, end): start is floored and end is ceiled to the cadence, the end
// epoch itself excluded. An empty range yields no basenames.
func BasenamesFromRange(start, end time.Time) ([]string, error) {
	first, err := RoundToEpoch(start, EpochHours, true, false)
	if err != nil {
		return nil, err
	}
	last, err := RoundToEpoch(end, EpochHours, false, true)
	if err != nil {
		return nil, err
	}
	var basenames []string
	for t := first; t.Before(last); t = t.Add(EpochHours * time.Hour) {
		basenames = append(basenames, Basename(t))
	}
	return basenames, nil
}

// FilenamesFromRange resolves every epoch spanning [start, end) to a
// location, in chronological order.
func (b *Builder) FilenamesFromRange(start, end time.Time) ([]string, error) {
	basenames, err := BasenamesFromRange(start, end)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(basenames))
	for _, bn := range basenames {
		files = append(files, b.scheme.Resolve(bn))
	}
	return files, nil
}

// FindInRange partitions the locations spanning [start, end) into files
// present on disk and files missing. It applies to the directory scheme
// only; the archive is not probed.
func (b *Builder) FindInRange(start, end time.Time) (present, missing []string, err error) {
	if _, ok := b.scheme.(*DirectoryScheme); !ok {
		return nil, nil, fmt.Errorf("%w: existence checks need the directory scheme", ErrInvalidArgument)
	}
	files, err := b.FilenamesFromRange(start, end)
	if err != nil {
		return nil, nil, err
	}
	return checkForFiles(files)
}

// FindAround partitions the locations of the epoch containing t plus the n
// epochs before and after it, chronologically ordered.
func (b *Builder) FindAround(t time.Time, n int) (present, missing []string, err error) {
	containing, err := RoundToEpoch(t, EpochHours, true, false)
	if err != nil {
		return nil, nil, err
	}
	start := containing.Add(-time.Duration(n*EpochHours) * time.Hour)
	end := containing.Add(time.Duration((n+1)*EpochHours) * time.Hour)
	return b.FindInRange(start, end)
}

func checkForFiles(expected []string) (present, missing []string, err error) {
	for _, f := range expected {
		if problemFiles[filepath.Base(f)] {
			log.Printf("ignoring known-bad file %s", f)
			continue
		}
		if _, err := os.Stat(f); err != nil {
			missing = append(missing, f)
		} else {
			present = append(present, f)
		}
	}
	if len(missing) > 0 {
		log.Printf("%d of %d expected files not found", len(missing), len(expected))
	}
	return present, missing, nil
}
