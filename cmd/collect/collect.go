// `hplcollect collect` - run one ingestion pass over the source tree.

package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	. "hplcollect/cmd"
	pipeline "hplcollect/collect"
	. "hplcollect/common"
	"hplcollect/store"
)

type CollectCommand struct {
	ConfigFileArgs
	SourceDirArgs
	OutputDirArgs
	SuitesArgs
	KafkaArgs
	DatabaseArgs
	VerboseArgs
}

var _ Command = (*CollectCommand)(nil)
var _ InterruptibleAPI = (*CollectCommand)(nil)

func (_ *CollectCommand) Interruptible() {}

func (cc *CollectCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Collect HPL benchmark runs into a tree of JSON records for the web front end.

The source directory has <suite>/<group>/<run>/ subdirectories.  For every run the HPL.dat, job
script, output log and error stream are copied to <output>/raw/ and parsed into
<output>/data/runs/<suite>/<group>/<run>/run.json, and <output>/data/index.json lists all runs.
Records can also be published to Kafka and stored in Postgres.
`)
}

func (cc *CollectCommand) Add(fs *CLI) {
	cc.ConfigFileArgs.Add(fs)
	cc.SourceDirArgs.Add(fs)
	cc.OutputDirArgs.Add(fs)
	cc.SuitesArgs.Add(fs)
	cc.KafkaArgs.Add(fs)
	cc.DatabaseArgs.Add(fs)
	cc.VerboseArgs.Add(fs)
}

func (cc *CollectCommand) Validate() error {
	if err := cc.ConfigFileArgs.Validate(); err != nil {
		return err
	}
	return errors.Join(
		cc.SourceDirArgs.Validate(),
		cc.OutputDirArgs.Validate(),
		cc.SuitesArgs.Validate(),
		cc.KafkaArgs.Validate(),
		cc.DatabaseArgs.Validate(),
		cc.VerboseArgs.Validate(),
	)
}

func (cc *CollectCommand) Perform(ctx context.Context, _ io.Reader, stdout, _ io.Writer) error {
	var sinks []pipeline.Sink
	if cc.KafkaBroker != "" {
		hostname, _ := os.Hostname()
		ks, err := store.NewKafkaSink(cc.KafkaOptions("hplcollect", hostname))
		if err != nil {
			return err
		}
		defer ks.Close()
		sinks = append(sinks, ks)
	}
	if cc.DatabaseURI != "" {
		ps, err := store.OpenPostgres(ctx, cc.DatabaseURI)
		if err != nil {
			return err
		}
		defer ps.Close()
		if err := ps.CreateSchema(ctx); err != nil {
			return fmt.Errorf("Failed to create schema: %w", err)
		}
		sinks = append(sinks, ps)
	}

	c, err := pipeline.NewCollector(pipeline.Config{
		SourceDir: cc.SourceDir,
		OutputDir: cc.OutputDir,
		Suites:    cc.Suites,
		Sinks:     sinks,
	})
	if err != nil {
		return err
	}
	report, err := c.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Collected data -> %s\n", cc.OutputDir)
	if n := len(report.Warnings); n > 0 {
		Log.Warningf("%d runs collected with %d warnings", report.Runs, n)
	}
	return nil
}
