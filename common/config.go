package common

// Built-in defaults, overridden by the ini file and then by command line flags.

const (
	// Relative to the working directory, this is where the benchmark harness leaves its output.
	DefaultSourceDir = "src/output"

	// The tree consumed by the web front end.
	DefaultOutputDir = "/tmp/hpl-web-data"

	// Suite names and the log dialect of each.
	DefaultSuites = "HPL=cpu,HPL_NVIDIA=accelerator"

	DefaultListenPort = 8088

	DefaultTopicPrefix = ""

	IniFilename = ".hplcollect"
)
