// The ingestion pass.  The source tree is laid out as <source>/<suite>/<group>/<run>/ with the files
// of one benchmark run in each run directory.  For every run we publish a copy of its files under
// <output>/raw, write <output>/data/runs/<suite>/<group>/<run>/run.json, and finally write
// <output>/data/index.json summarizing all runs.
//
// Processing is sequential and every pass rewrites everything.  Problems with individual files do
// not stop the pass, they are returned as warnings in the Report.  Failure to list a directory or to
// write a record does stop it.

package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "hplcollect/common"
	"hplcollect/hpldat"
	"hplcollect/hplout"
	"hplcollect/record"
	"hplcollect/sbatch"
	"hplcollect/utils/filesys"
)

// A secondary destination for records, in addition to the JSON tree.

type Sink interface {
	PutRun(ctx context.Context, r *record.RunRecord) error
	PutIndex(ctx context.Context, index *record.Index) error
}

type Config struct {
	SourceDir string
	OutputDir string
	Suites    []Suite
	Sinks     []Sink

	// For testing; if nil then time.Now is used.
	Now func() time.Time
}

type Collector struct {
	cfg Config
}

func NewCollector(cfg Config) (*Collector, error) {
	var err error
	if cfg.SourceDir == "" {
		err = errors.Join(err, errors.New("Required source directory"))
	}
	if cfg.OutputDir == "" {
		err = errors.Join(err, errors.New("Required output directory"))
	}
	if len(cfg.Suites) == 0 {
		err = errors.Join(err, ErrNoSuites)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Collector{cfg: cfg}, nil
}

// A problem that did not stop the pass.

type Warning struct {
	Role Role
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %v", w.Role, w.Path, w.Err)
}

type Report struct {
	Runs     int
	Index    *record.Index
	Warnings []Warning
}

func (r *Report) warn(role Role, path string, err error) {
	r.Warnings = append(r.Warnings, Warning{role, path, err})
}

// Run one full pass.  Cancelling the context abandons the pass before the next run.
func (c *Collector) Run(ctx context.Context) (*Report, error) {
	for _, d := range []string{
		filepath.Join(c.cfg.OutputDir, record.DataDir),
		filepath.Join(c.cfg.OutputDir, record.RawDir),
	} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, err
		}
	}

	report := new(Report)
	entries := make([]record.IndexEntry, 0)
	for _, suite := range c.cfg.Suites {
		suiteEntries, err := c.processSuite(ctx, suite, report)
		if err != nil {
			return nil, err
		}
		entries = append(entries, suiteEntries...)
	}

	index := BuildIndex(entries, c.cfg.Now())
	if err := writeJSON(record.IndexPath(c.cfg.OutputDir), index); err != nil {
		return nil, err
	}
	for _, s := range c.cfg.Sinks {
		if err := s.PutIndex(ctx, index); err != nil {
			report.warn(RoleSink, record.IndexFilename, err)
		}
	}

	report.Runs = len(entries)
	report.Index = index
	for _, w := range report.Warnings {
		Log.Warning(w.String())
	}
	Log.Infof("Collected %d runs -> %s", report.Runs, c.cfg.OutputDir)
	return report, nil
}

// A missing suite directory is not an error, the suite simply has no runs.
func (c *Collector) processSuite(ctx context.Context, suite Suite, report *Report) ([]record.IndexEntry, error) {
	suiteDir := filepath.Join(c.cfg.SourceDir, suite.Name)
	if info, err := os.Stat(suiteDir); err != nil || !info.IsDir() {
		Log.Infof("No directory for suite %s", suite.Name)
		return nil, nil
	}
	groups, err := filesys.ListDirs(suiteDir)
	if err != nil {
		return nil, err
	}
	var entries []record.IndexEntry
	for _, group := range groups {
		runs, err := filesys.ListDirs(filepath.Join(suiteDir, group))
		if err != nil {
			return nil, err
		}
		for _, run := range runs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			id := record.Identity{Suite: suite.Name, Group: group, Run: run}
			e, err := c.processRun(ctx, id, suite.Dialect, report)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (c *Collector) processRun(
	ctx context.Context,
	id record.Identity,
	dialect hplout.Dialect,
	report *Report,
) (record.IndexEntry, error) {
	runDir := filepath.Join(c.cfg.SourceDir, id.Suite, id.Group, id.Run)
	files, err := filesys.ListFiles(runDir)
	if err != nil {
		return record.IndexEntry{}, err
	}
	roles := assignRoles(files)

	// Publish, then read.  Contents are nil for absent, unreadable, or empty files.
	contents := make(map[Role]*string)
	for _, rp := range rolePatterns {
		name, found := roles[rp.role]
		if !found {
			continue
		}
		from := filepath.Join(runDir, name)
		if err := filesys.CopyFile(from, id.RawPath(c.cfg.OutputDir, name)); err != nil {
			report.warn(rp.role, from, err)
		}
		bs, err := os.ReadFile(from)
		if err != nil {
			report.warn(rp.role, from, err)
			continue
		}
		if len(bs) > 0 {
			s := string(bs)
			contents[rp.role] = &s
		}
	}

	r := BuildRecord(id, dialect, roles, contents)
	if err := writeJSON(id.RunPath(c.cfg.OutputDir), r); err != nil {
		return record.IndexEntry{}, err
	}
	for _, s := range c.cfg.Sinks {
		if err := s.PutRun(ctx, r); err != nil {
			report.warn(RoleSink, r.ID, err)
		}
	}
	Log.Debugf("Published %s", r.ID)

	hasErr := contents[RoleErr] != nil && strings.TrimSpace(*contents[RoleErr]) != ""
	return r.IndexEntry(hasErr), nil
}

// Assemble the record from the file names and contents by role.  This is where the parsers are
// applied; the log parser is chosen by the dialect.
func BuildRecord(
	id record.Identity,
	dialect hplout.Dialect,
	names map[Role]string,
	contents map[Role]*string,
) *record.RunRecord {
	r := &record.RunRecord{
		ID:       id.ID(),
		Identity: id,
	}
	if raw := contents[RoleDat]; raw != nil {
		name := names[RoleDat]
		r.Dat = &record.DatSection{
			Filename: name,
			Raw:      *raw,
			Parsed:   hpldat.Parse(*raw),
			Path:     id.RawWebPath(name),
		}
	}
	if raw := contents[RoleScript]; raw != nil {
		name := names[RoleScript]
		directives := sbatch.Parse(*raw)
		resources, dropped := sbatch.Resources(directives)
		if len(dropped) > 0 {
			Log.Infof("%s: ignored TRES elements %v", id.ID(), dropped)
		}
		r.Job = &record.JobSection{
			Filename:  name,
			Raw:       *raw,
			Sbatch:    directives,
			Resources: resources,
			Path:      id.RawWebPath(name),
		}
	}
	if raw := contents[RoleOut]; raw != nil {
		name := names[RoleOut]
		parsed := hplout.Parse(dialect, *raw)
		r.Out = &record.OutSection{
			Filename: name,
			Path:     id.RawWebPath(name),
			Result:   *parsed,
		}
		r.Best = hplout.BestOf(parsed.Runs)
		r.Stats = hplout.ComputeStats(parsed.Runs)
	}
	if raw := contents[RoleErr]; raw != nil {
		name := names[RoleErr]
		r.Err = &record.ErrSection{
			Filename: name,
			Path:     id.RawWebPath(name),
			Size:     len(*raw),
		}
	}
	return r
}

func writeJSON(filename string, v any) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := filesys.WriteFileAtomic(filename, bs); err != nil {
		return fmt.Errorf("Failed to write %s: %w", filename, err)
	}
	return nil
}
