// The persisted data model: one RunRecord per run directory (run.json) and one Index per pass
// (index.json).  The web front end reads exactly these shapes.

package record

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
	"time"

	"hplcollect/hpldat"
	"hplcollect/hplout"
	"hplcollect/sbatch"
)

var (
	ErrBadIdentity = errors.New("Bad run identity")
)

// Names of the files and directories of the published tree.
const (
	DataDir       = "data"
	RawDir        = "raw"
	RunsDir       = "runs"
	RunFilename   = "run.json"
	IndexFilename = "index.json"
)

type Identity struct {
	Suite string `json:"suite"`
	Group string `json:"group"`
	Run   string `json:"run"`
}

// "suite/group/run", with forward slashes on every OS.
func (id Identity) ID() string {
	return id.Suite + "/" + id.Group + "/" + id.Run
}

// Every component must be a single nonempty path element.
func (id Identity) Validate() error {
	for _, c := range []string{id.Suite, id.Group, id.Run} {
		if !ValidComponent(c) {
			return ErrBadIdentity
		}
	}
	return nil
}

func ValidComponent(c string) bool {
	return c != "" && c != "." && c != ".." && !strings.ContainsAny(c, `/\`)
}

// The web path of a published raw file, eg /raw/HPL/teamA/run1/HPL.dat.
func (id Identity) RawWebPath(filename string) string {
	return "/" + path.Join(RawDir, id.Suite, id.Group, id.Run, filename)
}

// The file system path of a published raw file under the output root.
func (id Identity) RawPath(outputDir, filename string) string {
	return filepath.Join(outputDir, RawDir, id.Suite, id.Group, id.Run, filename)
}

// The file system path of the run's run.json under the output root.
func (id Identity) RunPath(outputDir string) string {
	return filepath.Join(outputDir, DataDir, RunsDir, id.Suite, id.Group, id.Run, RunFilename)
}

func IndexPath(outputDir string) string {
	return filepath.Join(outputDir, DataDir, IndexFilename)
}

// A section is nil when its file is absent or empty.  Identity must be the first field, the API's
// schema links go through reflect.StructOf, which rejects embedded types with methods elsewhere.

type RunRecord struct {
	Identity
	ID    string        `json:"id"`
	Dat   *DatSection   `json:"dat"`
	Job   *JobSection   `json:"job"`
	Out   *OutSection   `json:"out"`
	Err   *ErrSection   `json:"err"`
	Best  *hplout.Best  `json:"best"`
	Stats *hplout.Stats `json:"stats"`
}

type DatSection struct {
	Filename string           `json:"filename"`
	Raw      string           `json:"raw"`
	Parsed   *hpldat.Settings `json:"parsed"`
	Path     string           `json:"path"`
}

type JobSection struct {
	Filename  string            `json:"filename"`
	Raw       string            `json:"raw"`
	Sbatch    sbatch.Directives `json:"sbatch"`
	Resources []sbatch.Resource `json:"resources"`
	Path      string            `json:"path"`
}

// The parsed log is inlined next to the file information.

type OutSection struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	hplout.Result
}

type ErrSection struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int    `json:"size"`
}

type IndexEntry struct {
	Identity
	ID         string              `json:"id"`
	Best       *hplout.Best        `json:"best"`
	OutSummary *hplout.TestSummary `json:"outSummary"`
	HasErr     bool                `json:"hasErr"`
}

type Index struct {
	GeneratedAt string       `json:"generatedAt"`
	Runs        []IndexEntry `json:"runs"`
}

// The summary of a record for the index.
func (r *RunRecord) IndexEntry(hasErr bool) IndexEntry {
	e := IndexEntry{
		ID:       r.ID,
		Identity: r.Identity,
		Best:     r.Best,
		HasErr:   hasErr,
	}
	if r.Out != nil {
		summary := r.Out.Summary
		e.OutSummary = &summary
	}
	return e
}

// ISO-8601 UTC with millisecond precision, eg 2025-03-07T10:00:01.123Z.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
