// `hplcollect parse` - parse one file and print the result as JSON, for checking the parsers
// against new inputs.

package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	. "hplcollect/cmd"
	"hplcollect/hpldat"
	"hplcollect/hplout"
	"hplcollect/sbatch"
)

const (
	kindDat    = "dat"
	kindSbatch = "sbatch"
)

// MT: Constant after initialization; immutable
var kinds = []string{kindDat, kindSbatch, string(hplout.DialectCPU), string(hplout.DialectAccelerator)}

type ParseCommand struct {
	VerboseArgs
	Kind  string
	Files []string
}

var _ Command = (*ParseCommand)(nil)
var _ SetRestArgumentsAPI = (*ParseCommand)(nil)

func (pc *ParseCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Parse one input file and print the parsed form as JSON.

The file is read from stdin if no file is given.
`)
}

func (pc *ParseCommand) Add(fs *CLI) {
	fs.Group("operation-selection")
	fs.StringVar(&pc.Kind, "kind", "",
		"The `kind` of input: dat, sbatch, cpu or accelerator (required)")
	pc.VerboseArgs.Add(fs)
}

func (pc *ParseCommand) SetRestArguments(args []string) {
	pc.Files = args
}

func (pc *ParseCommand) Validate() error {
	if !slices.Contains(kinds, pc.Kind) {
		return fmt.Errorf("Bad -kind %q", pc.Kind)
	}
	if len(pc.Files) > 1 {
		return fmt.Errorf("At most one file")
	}
	return pc.VerboseArgs.Validate()
}

type jobScript struct {
	Sbatch    sbatch.Directives `json:"sbatch"`
	Resources []sbatch.Resource `json:"resources"`
}

func (pc *ParseCommand) Perform(_ context.Context, stdin io.Reader, stdout, _ io.Writer) error {
	input := stdin
	if len(pc.Files) == 1 {
		f, err := os.Open(pc.Files[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}
	bs, err := io.ReadAll(input)
	if err != nil {
		return err
	}
	raw := string(bs)

	var result any
	switch pc.Kind {
	case kindDat:
		result = hpldat.Parse(raw)
	case kindSbatch:
		d := sbatch.Parse(raw)
		resources, _ := sbatch.Resources(d)
		result = &jobScript{d, resources}
	default:
		dialect, _ := hplout.ParseDialect(pc.Kind)
		result = hplout.Parse(dialect, raw)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
