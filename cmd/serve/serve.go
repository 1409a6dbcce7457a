// `hplcollect serve` - HTTP server for the published tree.
//
// The server answers GET /index, GET /runs/{suite}/{group}/{run} and
// GET /raw/{suite}/{group}/{run}/{filename} from the output directory, and the OpenAPI document
// is at /openapi.json.  The tree is read on every request, so a concurrent `hplcollect collect`
// is picked up without a restart.
//
// With -password-file every request must carry HTTP basic authentication matching a line of the
// file, which has username:password lines.
//
// Sending SIGHUP, SIGTERM or SIGINT to the server shuts it down in an orderly manner.  The exit
// code is non-zero if the server failed to start or errored out.

package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"syscall"

	"hplcollect/api"
	. "hplcollect/cmd"
	. "hplcollect/common"
	"hplcollect/utils/auth"
	"hplcollect/utils/httpsrv"
	"hplcollect/utils/options"
	"hplcollect/utils/process"
	"hplcollect/utils/status"
)

const (
	logTag    = "hplcollect/serve"
	authRealm = "HPL results"
)

type ServeCommand struct {
	ConfigFileArgs
	OutputDirArgs
	VerboseArgs
	Port         uint
	Syslog       bool
	PasswordFile string

	authenticator *auth.Authenticator
}

var _ Command = (*ServeCommand)(nil)
var _ InterruptibleAPI = (*ServeCommand)(nil)

func (_ *ServeCommand) Interruptible() {}

func (sc *ServeCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Serve the published tree over HTTP as a JSON API.
`)
}

func (sc *ServeCommand) Add(fs *CLI) {
	sc.ConfigFileArgs.Add(fs)
	sc.OutputDirArgs.Add(fs)
	fs.Group("server")
	fs.UintVar(&sc.Port, "port", 0,
		fmt.Sprintf("Listen for connections on `port` [default: %d]", DefaultListenPort))
	fs.BoolVar(&sc.Syslog, "syslog", false, "Also log to the syslog")
	fs.StringVar(&sc.PasswordFile, "password-file", "",
		"Require HTTP basic authentication against the username:password lines in `filename`")
	sc.VerboseArgs.Add(fs)
}

func (sc *ServeCommand) Validate() error {
	if err := sc.ConfigFileArgs.Validate(); err != nil {
		return err
	}
	var e1, e2, e3 error
	if !ApplyDefaultUint(&sc.Port, ServerPort) && sc.Port == 0 {
		sc.Port = DefaultListenPort
	}
	if sc.Port > 65535 {
		e1 = errors.New("Bad -port")
	}
	ApplyDefault(&sc.PasswordFile, ServerPasswordFile)
	if sc.PasswordFile != "" {
		sc.authenticator, e2 = auth.ReadPasswords(sc.PasswordFile)
		if e2 != nil {
			e2 = fmt.Errorf("Failed to read password file: %w", e2)
		}
	}
	if e3 = sc.OutputDirArgs.Validate(); e3 == nil {
		// The tree need not be populated yet, but its root must exist.
		sc.OutputDir, e3 = options.RequireDirectory(sc.OutputDir, "-output-dir")
	}
	return errors.Join(e1, e2, e3, sc.VerboseArgs.Validate())
}

func (sc *ServeCommand) Perform(ctx context.Context, _ io.Reader, _, _ io.Writer) error {
	if sc.Syslog {
		if err := status.StartSyslog(logTag); err != nil {
			return fmt.Errorf("Failed to open syslog: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var programFailed atomic.Bool
	handler := api.NewHandler(sc.OutputDir)
	if sc.authenticator != nil {
		handler = httpsrv.RequireAuth(Log, handler, sc.authenticator, authRealm)
	}
	s := httpsrv.New(Log, int(sc.Port), handler, func(err error) {
		programFailed.Store(true)
		cancel()
	})
	go s.Start()

	// Wait here until we're stopped by SIGHUP (manual) or SIGTERM (from OS during shutdown), or the
	// context is cancelled (SIGINT) or the server fails.
	process.WaitForSignal(ctx, syscall.SIGHUP, syscall.SIGTERM)
	s.Stop()

	if programFailed.Load() {
		return errors.New("HTTP server failed to start, or errored out")
	}
	return nil
}
