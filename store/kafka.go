package store

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"

	"hplcollect/record"
)

const (
	runTopic   = "hpl.run"
	indexTopic = "hpl.index"
)

type KafkaOptions struct {
	Broker       string
	TopicPrefix  string
	ClientID     string
	SaslUser     string
	SaslPassword string
	CaFile       string

	// Recorded in the Originator header of every record, typically the host name.
	Originator string
}

// The part of *kgo.Client we use.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Publishes every run record to <prefix>hpl.run keyed by the run id, and every index to
// <prefix>hpl.index keyed by its generation time.  Production is synchronous so that the pass
// knows about failures.

type KafkaSink struct {
	p          producer
	topicRun   string
	topicIndex string
	originator string
}

func NewKafkaSink(opts KafkaOptions) (*KafkaSink, error) {
	if opts.Broker == "" {
		return nil, errors.New("Required Kafka broker")
	}
	kopts := []kgo.Opt{
		kgo.SeedBrokers(opts.Broker),
	}
	if opts.ClientID != "" {
		kopts = append(kopts, kgo.ClientID(opts.ClientID))
	}
	if opts.SaslUser != "" || opts.SaslPassword != "" {
		kopts = append(kopts, kgo.SASL(plain.Auth{
			User: opts.SaslUser,
			Pass: opts.SaslPassword,
		}.AsMechanism()))
	}
	if opts.CaFile != "" {
		caCert, err := os.ReadFile(opts.CaFile)
		if err != nil {
			return nil, fmt.Errorf("Failed to read CA file: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("No certificates in CA file %s", opts.CaFile)
		}
		kopts = append(kopts, kgo.DialTLSConfig(&tls.Config{RootCAs: caCertPool}))
	}
	cl, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, fmt.Errorf("Failed to create Kafka client: %w", err)
	}
	return newKafkaSink(cl, opts), nil
}

func newKafkaSink(p producer, opts KafkaOptions) *KafkaSink {
	return &KafkaSink{
		p:          p,
		topicRun:   opts.TopicPrefix + runTopic,
		topicIndex: opts.TopicPrefix + indexTopic,
		originator: opts.Originator,
	}
}

func (ks *KafkaSink) PutRun(ctx context.Context, r *record.RunRecord) error {
	return ks.produce(ctx, ks.topicRun, r.ID, r)
}

func (ks *KafkaSink) PutIndex(ctx context.Context, index *record.Index) error {
	return ks.produce(ctx, ks.topicIndex, index.GeneratedAt, index)
}

func (ks *KafkaSink) produce(ctx context.Context, topic, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	rec := &kgo.Record{
		Key:   []byte(key),
		Topic: topic,
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "Originator", Value: []byte(ks.originator)},
		},
	}
	if err := ks.p.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("Failed to produce %s to %s: %w", key, topic, err)
	}
	return nil
}

func (ks *KafkaSink) Close() error {
	ks.p.Close()
	return nil
}
