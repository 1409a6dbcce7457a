package process

import (
	"context"
	"os"
	"os/signal"
)

// Block until one of the signals arrives or ctx is done.  Returns the signal, or nil if ctx ended
// the wait.
func WaitForSignal(ctx context.Context, signals ...os.Signal) os.Signal {
	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, signals...)
	defer signal.Stop(stopSignal)
	select {
	case s := <-stopSignal:
		return s
	case <-ctx.Done():
		return nil
	}
}
