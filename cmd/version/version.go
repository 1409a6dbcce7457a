package version

import (
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	. "hplcollect/cmd"
)

type VersionCommand struct {
	VerboseArgs
}

var _ Command = (*VersionCommand)(nil)

func (vc *VersionCommand) Add(fs *CLI) {
	vc.VerboseArgs.Add(fs)
}

func (vc *VersionCommand) Validate() error {
	return vc.VerboseArgs.Validate()
}

func (vc *VersionCommand) Summary(out io.Writer) {
	fmt.Fprintf(out, "Display the version number.\n")
}

// The version data are version,description
// They are newest-first; we always want the first line.
//
//go:embed version.csv
var versionData string

func Version() string {
	version := "0.0.0"
	rdr := csv.NewReader(strings.NewReader(versionData))
	rdr.FieldsPerRecord = -1
	fields, err := rdr.Read()
	if err == nil && len(fields) >= 1 {
		version = fields[0]
	}
	return version
}

func (_ *VersionCommand) Perform(_ context.Context, _ io.Reader, stdout, _ io.Writer) error {
	fmt.Fprintf(stdout, "hplcollect version(%s)\n", Version())
	return nil
}
