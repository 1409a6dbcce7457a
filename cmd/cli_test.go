package cmd

import (
	"context"
	"flag"
	"io"
	"strings"
	"testing"
)

type testCommand struct {
	OutputDirArgs
	VerboseArgs
	files []string
}

func (tc *testCommand) Summary(out io.Writer) {
	io.WriteString(out, "A test command.\n")
}

func (tc *testCommand) Add(fs *CLI) {
	tc.VerboseArgs.Add(fs)
	tc.OutputDirArgs.Add(fs)
}

func (tc *testCommand) Validate() error {
	return nil
}

func (tc *testCommand) SetRestArguments(args []string) {
	tc.files = args
}

func (tc *testCommand) Perform(_ context.Context, _ io.Reader, _, _ io.Writer) error {
	return nil
}

func TestGroupedUsage(t *testing.T) {
	var out strings.Builder
	tc := new(testCommand)
	cli := NewCLI("test", tc, "hplcollect", &out, flag.ContinueOnError)
	tc.Add(cli)
	cli.Usage()
	text := out.String()
	if !strings.HasPrefix(text, "Usage: hplcollect test [options] [file]\n\nA test command.\n") {
		t.Fatal(text)
	}
	target := strings.Index(text, "data-target options:")
	dev := strings.Index(text, "development options:")
	if target == -1 || dev == -1 || target > dev {
		t.Fatal("Groups out of order", text)
	}
	if opt := strings.Index(text, "-output-dir"); opt < target || opt > dev {
		t.Fatal("-output-dir in wrong group", text)
	}
}

func TestParseFlags(t *testing.T) {
	tc := new(testCommand)
	cli := NewCLI("test", tc, "hplcollect", io.Discard, flag.ContinueOnError)
	tc.Add(cli)
	if err := cli.Parse([]string{"-v", "-output-dir", "/x/y", "a", "b"}); err != nil {
		t.Fatal(err)
	}
	if !tc.VerboseFlag() || tc.OutputDir != "/x/y" || len(cli.Args()) != 2 {
		t.Fatal(tc)
	}
}

func TestUngroupedOptionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("No panic")
		}
	}()
	cli := NewCLI("test", new(testCommand), "hplcollect", io.Discard, flag.ContinueOnError)
	var b bool
	cli.BoolVar(&b, "stray", false, "stray option")
}
