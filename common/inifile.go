package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ini "github.com/lars-t-hansen/ini"
)

// The ini file supplies defaults for command line options:
//
//	[paths]
//	source-dir = ...
//	output-dir = ...
//
//	[suites]
//	list = HPL=cpu,HPL_NVIDIA=accelerator
//
//	[kafka]
//	broker = host:port
//	topic-prefix = ...
//	sasl-user = ...
//	sasl-password = ...
//	ca-file = ...
//
//	[database]
//	uri = postgres://...
//
//	[server]
//	port = 8088
//	password-file = ...
//
// Environment variables in string values are expanded when the value is applied.

// MT: Constant after initialization
var (
	p     = ini.NewParser()
	store *ini.Store

	paths          = p.AddSection("paths")
	PathsSourceDir = paths.AddString("source-dir")
	PathsOutputDir = paths.AddString("output-dir")

	suites     = p.AddSection("suites")
	SuitesList = suites.AddString("list")

	kafka             = p.AddSection("kafka")
	KafkaBroker       = kafka.AddString("broker")
	KafkaTopicPrefix  = kafka.AddString("topic-prefix")
	KafkaSaslUser     = kafka.AddString("sasl-user")
	KafkaSaslPassword = kafka.AddString("sasl-password")
	KafkaCaFile       = kafka.AddString("ca-file")

	database    = p.AddSection("database")
	DatabaseURI = database.AddString("uri")

	server             = p.AddSection("server")
	ServerPort         = server.AddUint64("port")
	ServerPasswordFile = server.AddString("password-file")
)

// The per-user defaults file, "" if $HOME is not set.
func DefaultIniFile() string {
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return filepath.Join(filepath.Clean(home), IniFilename)
}

// Read defaults from `filename`.  If `optional` is set then a nonexistent file is not an error.  A
// successful read replaces any previously read defaults.
func ReadDefaults(filename string, optional bool) error {
	input, err := os.Open(filename)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("Error in trying to open %s: %w", filename, err)
	}
	defer input.Close()
	s, err := p.Parse(input)
	if err != nil {
		return fmt.Errorf("Error in trying to parse %s: %w", filename, err)
	}
	store = s
	return nil
}

// Forget any defaults that have been read.
func ClearDefaults() {
	store = nil
}

func HasDefault(f *ini.Field) bool {
	return store != nil && f.Present(store)
}

// Set *sp from the field if *sp is "" and the field is present.
func ApplyDefault(sp *string, f *ini.Field) bool {
	if *sp != "" || !HasDefault(f) {
		return false
	}
	*sp = os.ExpandEnv(strings.TrimSpace(f.StringVal(store)))
	return true
}

// Set *up from the field if *up is zero and the field is present.
func ApplyDefaultUint(up *uint, f *ini.Field) bool {
	if *up != 0 || !HasDefault(f) {
		return false
	}
	v := f.Uint64Val(store)
	if strconv.IntSize == 32 && v > 0xFFFFFFFF {
		return false
	}
	*up = uint(v)
	return true
}
