// Package paths maps between UTC times, canonical MCS file basenames and
// storage locations. Data files come in a fixed 4-hour cadence; a basename
// is the 12-digit YYMMDDHHMMSS start time of its epoch. Two interchangeable
// schemes resolve a basename to a location: a local directory layout and the
// PDS archive URL layout.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/mars-clim/gomcs/pkg/mcs"
)

const (
	// EpochHours is the file cadence of the instrument.
	EpochHours = 4

	// basenameTimeFormat is the time format of the 12-digit file basename.
	basenameTimeFormat = "060102150405"

	// archiveTimeFormat is the time format used in PDS archive filenames.
	archiveTimeFormat = "2006010215"

	// ArchiveBase is the URL base of the PDS atmospheres node.
	ArchiveBase = "https://atmos.nmsu.edu/PDS/data"
)

// errors
var (
	// ErrInvalidArgument is returned for contradictory construction or
	// rounding parameters.
	ErrInvalidArgument = errors.New("paths: invalid argument")

	// ErrNoConfig is returned when the data directory root is given neither
	// explicitly nor by the environment.
	ErrNoConfig = errors.New("paths: no data directory configured")
)

// Environment variables configuring the directory scheme.
const (
	EnvDataDirBase = "MCS_DATA_DIR_BASE"
	EnvL1ASubdir   = "MCS_LEVEL_1A_SUBDIR"
	EnvL1BSubdir   = "MCS_LEVEL_1B_SUBDIR"
	EnvL2Subdir    = "MCS_LEVEL_2_SUBDIR"
)

var defaultSubdirs = map[mcs.Level]string{
	mcs.L1A: "level_1a",
	mcs.L1B: "level_1b",
	mcs.L2:  "level_2_2d",
}

var subdirEnvVars = map[mcs.Level]string{
	mcs.L1A: EnvL1ASubdir,
	mcs.L1B: EnvL1BSubdir,
	mcs.L2:  EnvL2Subdir,
}

// RoundToEpoch rounds t to the file cadence boundary. With neither force
// flag set it rounds to the nearest boundary, the midpoint rounding up.
// forceDown truncates to the epoch start, forceUp advances to the next
// boundary unless t already is one. Setting both flags is a contract
// violation.
func RoundToEpoch(t time.Time, hours int, forceDown, forceUp bool) (time.Time, error) {
	if forceDown && forceUp {
		return time.Time{}, fmt.Errorf("%w: cannot force rounding both down and up", ErrInvalidArgument)
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), (t.Hour()/hours)*hours, 0, 0, 0, t.Location())
	up := t.Hour()%hours >= hours/2
	if forceDown {
		up = false
	} else if forceUp {
		up = !start.Equal(t)
	}
	if up {
		start = start.Add(time.Duration(hours) * time.Hour)
	}
	return start, nil
}

// Basename formats a time as the canonical 12-digit file basename. The time
// should already be rounded to an epoch boundary, otherwise the basename
// will not correspond to an existing file.
func Basename(t time.Time) string {
	return t.UTC().Format(basenameTimeFormat)
}

// ParseBasename converts a 12-digit file basename back to its UTC time.
func ParseBasename(basename string) (time.Time, error) {
	t, err := time.Parse(basenameTimeFormat, basename)
	if err != nil {
		return time.Time{}, fmt.Errorf("paths: parse basename %q: %v", basename, err)
	}
	return t, nil
}

// BasenameFromPath extracts the canonical basename from a resolved
// location. Archive URLs carry a YYYYMMDDHH filename which is converted
// back to the 12-digit form; for local paths the filename stem is taken
// as-is.
func BasenameFromPath(location string) (string, error) {
	base := filepath.Base(location)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.IndexByte(base, '_'); i >= 0 { // archive: YYYYMMDDHH_DDR
		t, err := time.Parse(archiveTimeFormat, base[:i])
		if err != nil {
			return "", fmt.Errorf("paths: parse archive filename %q: %v", base, err)
		}
		return Basename(t), nil
	}
	return base, nil
}

// A Scheme resolves canonical basenames to storage locations.
type Scheme interface {
	// Resolve returns the location of the file with the given basename.
	Resolve(basename string) string

	// Level returns the data level the scheme serves.
	Level() mcs.Level
}

// use a single instance of Validate, it caches struct info
var validate = validator.New()

// DirectoryScheme resolves basenames within a local directory tree laid out
// as {root}/{level_subdir}/{YYMM}/{basename}.{suffix}.
type DirectoryScheme struct {
	Root   string    `validate:"required"`
	Subdir string    `validate:"required"`
	Lvl    mcs.Level `validate:"required"`
}

// NewDirectoryScheme creates the directory scheme for a level. An empty root
// falls back to the MCS_DATA_DIR_BASE environment variable, loaded through a
// .env file if present. The level subdirectory likewise honors its
// environment override.
func NewDirectoryScheme(level mcs.Level, root string) (*DirectoryScheme, error) {
	godotenv.Load()
	if root == "" {
		root = os.Getenv(EnvDataDirBase)
		if root == "" {
			return nil, fmt.Errorf("%w: set %s or pass a root", ErrNoConfig, EnvDataDirBase)
		}
	}
	subdir := os.Getenv(subdirEnvVars[level])
	if subdir == "" {
		subdir = defaultSubdirs[level]
	}
	s := &DirectoryScheme{Root: root, Subdir: subdir, Lvl: level}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return s, nil
}

// Resolve returns the local path of the file with the given basename.
func (s *DirectoryScheme) Resolve(basename string) string {
	return filepath.Join(s.Root, s.Subdir, basename[:4], basename+"."+s.Lvl.Suffix())
}

// Level returns the data level the scheme serves.
func (s *DirectoryScheme) Level() mcs.Level { return s.Lvl }

// ArchiveScheme resolves basenames to PDS archive URLs keyed by the derived
// MROM volume counter.
type ArchiveScheme struct {
	Base string    `validate:"required,url"`
	Lvl  mcs.Level `validate:"required"`
}

// NewArchiveScheme creates the PDS archive scheme for a level.
func NewArchiveScheme(level mcs.Level) (*ArchiveScheme, error) {
	s := &ArchiveScheme{Base: ArchiveBase, Lvl: level}
	if level.RecordCode() == "" {
		return nil, fmt.Errorf("%w: no archive record code for level %s", ErrInvalidArgument, level)
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return s, nil
}

// MROMCounter derives the archive volume name for a level and date, e.g.
// "MROM_2001". Volume 001 is September 2006; the counter increments by
// calendar month.
func MROMCounter(level mcs.Level, date time.Time) string {
	var seq int
	if date.Month() >= 9 {
		seq = (date.Year()-2006)*12 + int(date.Month()) - 8
	} else {
		seq = (date.Year()-2007)*12 + 4 + int(date.Month())
	}
	return fmt.Sprintf("MROM_%s%03d", level.ArchiveDigit(), seq)
}

// Resolve returns the archive URL of the file with the given basename.
func (s *ArchiveScheme) Resolve(basename string) string {
	date, err := ParseBasename(basename)
	if err != nil {
		return ""
	}
	y := date.Format("2006")
	ym := date.Format("200601")
	ymd := date.Format("20060102")
	parts := []string{
		s.Base,
		MROMCounter(s.Lvl, date),
		"DATA", y, ym, ymd,
		date.Format(archiveTimeFormat) + "_" + s.Lvl.RecordCode() + ".TAB",
	}
	return strings.Join(parts, "/")
}

// Level returns the data level the scheme serves.
func (s *ArchiveScheme) Level() mcs.Level { return s.Lvl }
