package cmd

import (
	"errors"
	"path/filepath"

	. "hplcollect/common"
	"hplcollect/collect"
	"hplcollect/store"
)

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// -v

type VerboseArgs struct {
	Verbose bool
}

func (va *VerboseArgs) Add(fs *CLI) {
	fs.Group("development")
	fs.BoolVar(&va.Verbose, "v", false, "Print verbose diagnostics to stderr")
	fs.BoolVar(&va.Verbose, "verbose", false, "Print verbose diagnostics to stderr")
}

func (va *VerboseArgs) Validate() error {
	return nil
}

func (va *VerboseArgs) VerboseFlag() bool {
	return va.Verbose
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// The ini file supplies defaults for other options, so this must be validated first.

type ConfigFileArgs struct {
	ConfigFile string
}

func (cf *ConfigFileArgs) Add(fs *CLI) {
	fs.Group("application-control")
	fs.StringVar(&cf.ConfigFile, "config-file", "",
		"Read option defaults from `filename` [default: $HOME/"+IniFilename+" if it exists]")
}

func (cf *ConfigFileArgs) Validate() error {
	if cf.ConfigFile != "" {
		return ReadDefaults(cf.ConfigFile, false)
	}
	if fn := DefaultIniFile(); fn != "" {
		return ReadDefaults(fn, true)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// -source-dir

type SourceDirArgs struct {
	SourceDir string
}

func (sd *SourceDirArgs) Add(fs *CLI) {
	fs.Group("data-source")
	fs.StringVar(&sd.SourceDir, "source-dir", "",
		"Read benchmark output from the suite directories under `directory` [default: "+
			DefaultSourceDir+"]")
}

func (sd *SourceDirArgs) Validate() error {
	if !ApplyDefault(&sd.SourceDir, PathsSourceDir) && sd.SourceDir == "" {
		sd.SourceDir = DefaultSourceDir
	}
	sd.SourceDir = filepath.Clean(sd.SourceDir)
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// -output-dir

type OutputDirArgs struct {
	OutputDir string
}

func (od *OutputDirArgs) Add(fs *CLI) {
	fs.Group("data-target")
	fs.StringVar(&od.OutputDir, "output-dir", "",
		"The published tree is rooted at `directory` [default: "+DefaultOutputDir+"]")
}

func (od *OutputDirArgs) Validate() error {
	if !ApplyDefault(&od.OutputDir, PathsOutputDir) && od.OutputDir == "" {
		od.OutputDir = DefaultOutputDir
	}
	od.OutputDir = filepath.Clean(od.OutputDir)
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// -suites

type SuitesArgs struct {
	SuitesSpec string
	Suites     []collect.Suite
}

func (sa *SuitesArgs) Add(fs *CLI) {
	fs.Group("data-source")
	fs.StringVar(&sa.SuitesSpec, "suites", "",
		"Process the suites in `list`, NAME=cpu or NAME=accelerator comma-separated [default: "+
			DefaultSuites+"]")
}

func (sa *SuitesArgs) Validate() (err error) {
	if !ApplyDefault(&sa.SuitesSpec, SuitesList) && sa.SuitesSpec == "" {
		sa.SuitesSpec = DefaultSuites
	}
	sa.Suites, err = collect.ParseSuites(sa.SuitesSpec)
	return
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Kafka producer.  Without a broker there is no Kafka sink.

type KafkaArgs struct {
	KafkaBroker  string
	TopicPrefix  string
	SaslUser     string
	SaslPassword string
	CaFile       string
}

func (ka *KafkaArgs) Add(fs *CLI) {
	fs.Group("sinks")
	fs.StringVar(&ka.KafkaBroker, "kafka-broker", "",
		"Also publish records to the Kafka broker at `host:port`")
	fs.StringVar(&ka.TopicPrefix, "topic-prefix", "",
		"Prefix Kafka topic names with `prefix`")
	fs.StringVar(&ka.SaslUser, "kafka-sasl-user", "", "SASL `user` for the Kafka broker")
	fs.StringVar(&ka.SaslPassword, "kafka-sasl-password", "",
		"SASL `password` for the Kafka broker (better placed in the config file)")
	fs.StringVar(&ka.CaFile, "kafka-ca-file", "",
		"Use TLS with the CA certificate in `filename`")
}

func (ka *KafkaArgs) Validate() error {
	ApplyDefault(&ka.KafkaBroker, KafkaBroker)
	ApplyDefault(&ka.TopicPrefix, KafkaTopicPrefix)
	ApplyDefault(&ka.SaslUser, KafkaSaslUser)
	ApplyDefault(&ka.SaslPassword, KafkaSaslPassword)
	ApplyDefault(&ka.CaFile, KafkaCaFile)
	if ka.KafkaBroker == "" && (ka.SaslUser != "" || ka.CaFile != "" || ka.TopicPrefix != "") {
		return errors.New("Kafka options without -kafka-broker")
	}
	return nil
}

func (ka *KafkaArgs) KafkaOptions(clientID, originator string) store.KafkaOptions {
	return store.KafkaOptions{
		Broker:       ka.KafkaBroker,
		TopicPrefix:  ka.TopicPrefix,
		ClientID:     clientID,
		SaslUser:     ka.SaslUser,
		SaslPassword: ka.SaslPassword,
		CaFile:       ka.CaFile,
		Originator:   originator,
	}
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// -database-uri

type DatabaseArgs struct {
	DatabaseURI string
}

func (da *DatabaseArgs) Add(fs *CLI) {
	fs.Group("sinks")
	fs.StringVar(&da.DatabaseURI, "database-uri", "",
		"Also store records in the Postgres database at `uri`")
}

func (da *DatabaseArgs) Validate() error {
	ApplyDefault(&da.DatabaseURI, DatabaseURI)
	return nil
}
