package cmd

import (
	"context"
	"io"
)

// Every verb implements Command.  Add and Validate must also handle the shared argument blocks the
// command embeds.

type Command interface {
	// Documentation, with formatting and line breaks
	Summary(out io.Writer)

	// Add all arguments including shared arguments
	Add(fs *CLI)

	// Validate all arguments including shared arguments.  Defaults from the ini file are applied
	// here.
	Validate() error

	// The -v flag
	VerboseFlag() bool

	Perform(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error
}

type SetRestArgumentsAPI interface {
	// Install any left-over arguments into the arguments object
	SetRestArguments(args []string)
}

type InterruptibleAPI interface {
	// Perform returns promptly when its context is cancelled.  Only for these commands does an
	// interrupt cancel the context; other commands are killed by it as usual.
	Interruptible()
}
