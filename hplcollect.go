// `hplcollect` -- Collect HPL benchmark results into a tree of JSON records
//
// Run `hplcollect help` for brief help, and `hplcollect <verb> -h` for the options of a verb.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	. "hplcollect/cmd"
	"hplcollect/cmd/collect"
	"hplcollect/cmd/export"
	"hplcollect/cmd/parse"
	"hplcollect/cmd/serve"
	"hplcollect/cmd/version"
	. "hplcollect/common"
	"hplcollect/utils/status"
)

func main() {
	os.Exit(hplcollect(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func hplcollect(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(stderr, "Required operation missing, try `%s help`\n", args[0])
		return 2
	}

	verb := args[1]
	command := commandForVerb(verb)
	if command == nil {
		switch verb {
		case "help", "-h", "--help":
			usage(stdout, args[0])
			return 0
		default:
			fmt.Fprintf(stderr, "Unknown operation %s, try `%s help`\n", verb, args[0])
			return 2
		}
	}

	fs := NewCLI(verb, command, args[0], stderr, flag.ExitOnError)
	command.Add(fs)
	fs.Parse(args[2:])

	if rest := fs.Args(); len(rest) > 0 {
		if rc, ok := command.(SetRestArgumentsAPI); ok {
			rc.SetRestArguments(rest)
		} else {
			fmt.Fprintf(stderr, "Rest arguments not accepted by `%s`.\n", verb)
			return 2
		}
	}

	if err := command.Validate(); err != nil {
		fmt.Fprintf(stderr, "Bad arguments, try -h\n%v\n", err)
		return 2
	}

	if command.VerboseFlag() {
		Log.LowerLevelTo(status.LogLevelInfo)
	}

	// Interrupting a collection pass abandons it between runs and stops the server in order.
	ctx := context.Background()
	if _, ok := command.(InterruptibleAPI); ok {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	if err := command.Perform(ctx, stdin, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func commandForVerb(verb string) Command {
	switch verb {
	case "collect":
		return new(collect.CollectCommand)
	case "parse":
		return new(parse.ParseCommand)
	case "serve":
		return new(serve.ServeCommand)
	case "export":
		return new(export.ExportCommand)
	case "version":
		return new(version.VersionCommand)
	default:
		return nil
	}
}

func usage(out io.Writer, name string) {
	fmt.Fprintf(out, "Usage: %s command [options]\n", name)
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  collect - collect benchmark runs into the published tree\n")
	fmt.Fprintf(out, "  parse   - parse one input file and print it as JSON\n")
	fmt.Fprintf(out, "  serve   - serve the published tree over HTTP\n")
	fmt.Fprintf(out, "  export  - store the published tree in Postgres\n")
	fmt.Fprintf(out, "  version - print information about the program\n")
	fmt.Fprintf(out, "  help    - print this message\n")
	fmt.Fprintf(out, "Each command accepts -h to further explain options.\n")
}
