// `hplcollect export` - load an already published tree into Postgres.

package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	. "hplcollect/cmd"
	. "hplcollect/common"
	"hplcollect/record"
	"hplcollect/store"
)

type ExportCommand struct {
	ConfigFileArgs
	OutputDirArgs
	DatabaseArgs
	VerboseArgs
}

var _ Command = (*ExportCommand)(nil)
var _ InterruptibleAPI = (*ExportCommand)(nil)

func (_ *ExportCommand) Interruptible() {}

func (ec *ExportCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Store every run listed in the published index in a Postgres database.

The tree must have been written by 'hplcollect collect'.  Existing rows for a run are replaced.
`)
}

func (ec *ExportCommand) Add(fs *CLI) {
	ec.ConfigFileArgs.Add(fs)
	ec.OutputDirArgs.Add(fs)
	ec.DatabaseArgs.Add(fs)
	ec.VerboseArgs.Add(fs)
}

func (ec *ExportCommand) Validate() error {
	if err := ec.ConfigFileArgs.Validate(); err != nil {
		return err
	}
	var e1 error
	e2 := ec.DatabaseArgs.Validate()
	if ec.DatabaseURI == "" {
		e1 = errors.New("-database-uri is required")
	}
	return errors.Join(
		e1,
		e2,
		ec.OutputDirArgs.Validate(),
		ec.VerboseArgs.Validate(),
	)
}

func (ec *ExportCommand) Perform(ctx context.Context, _ io.Reader, stdout, _ io.Writer) error {
	ps, err := store.OpenPostgres(ctx, ec.DatabaseURI)
	if err != nil {
		return err
	}
	defer ps.Close()
	if err := ps.CreateSchema(ctx); err != nil {
		return fmt.Errorf("Failed to create schema: %w", err)
	}
	n, err := Export(ctx, ec.OutputDir, ps)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %d runs\n", n)
	return nil
}

type sink interface {
	PutRun(ctx context.Context, r *record.RunRecord) error
	PutIndex(ctx context.Context, index *record.Index) error
}

// Read the index and every run record it lists under outputDir and hand them to s, runs first.
// Returns the number of runs stored.
func Export(ctx context.Context, outputDir string, s sink) (int, error) {
	index := new(record.Index)
	if err := readJSON(record.IndexPath(outputDir), index); err != nil {
		return 0, err
	}
	var n int
	for _, entry := range index.Runs {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := entry.Identity.Validate(); err != nil {
			return n, fmt.Errorf("Index entry %q: %w", entry.ID, err)
		}
		r := new(record.RunRecord)
		if err := readJSON(entry.Identity.RunPath(outputDir), r); err != nil {
			return n, err
		}
		if err := s.PutRun(ctx, r); err != nil {
			return n, fmt.Errorf("Failed to store %s: %w", entry.ID, err)
		}
		Log.Infof("Stored %s", entry.ID)
		n++
	}
	if err := s.PutIndex(ctx, index); err != nil {
		return n, fmt.Errorf("Failed to store index: %w", err)
	}
	return n, nil
}

func readJSON(filename string, v any) error {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bs, v); err != nil {
		return fmt.Errorf("Bad JSON in %s: %w", filename, err)
	}
	return nil
}
