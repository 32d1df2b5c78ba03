package messaging

import (
	"cargo-tracking-service/internal/platform/logger"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"
)

const clientID = "cargo-tracking-service"

// NewKafkaClient builds a producer client, or a consumer-group client when
// group is set.
func NewKafkaClient(brokers []string, group string, topics []string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if group != "" {
		opts = append(opts,
			kgo.ConsumerGroup(group),
			kgo.ConsumeTopics(topics...),
			kgo.DisableAutoCommit(),
		)
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka: new client: %w", err)
	}
	return client, nil
}

// EnsureTopics creates missing topics. Existing topics are left untouched.
func EnsureTopics(ctx context.Context, client *kgo.Client, partitions int32, replication int16, topics ...string) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, topics...)
	if err != nil {
		return fmt.Errorf("kafka: create topics: %w", err)
	}
	for topic, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("kafka: create topic %s: %w", topic, r.Err)
		}
	}
	return nil
}

// KafkaPublisher publishes synchronously, so a nil error means the brokers
// acknowledged the record.
type KafkaPublisher struct {
	client *kgo.Client
}

func NewKafkaPublisher(client *kgo.Client) *KafkaPublisher {
	return &KafkaPublisher{client: client}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	rec := &kgo.Record{Topic: msg.Topic, Key: []byte(msg.Key), Value: msg.Value}
	for k, v := range msg.Headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("kafka: produce to %s: %w", msg.Topic, err)
	}
	return nil
}

// KafkaConsumer feeds a consumer group's records to a Dispatcher. Partitions
// are processed concurrently, records within a partition in order. Offsets
// are committed only for dispatched records.
type KafkaConsumer struct {
	client      *kgo.Client
	dispatcher  *Dispatcher
	concurrency int
}

func NewKafkaConsumer(client *kgo.Client, dispatcher *Dispatcher, concurrency int) *KafkaConsumer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &KafkaConsumer{client: client, dispatcher: dispatcher, concurrency: concurrency}
}

// Run polls until ctx is done. It fails when a record can be neither
// handled nor dead-lettered; the uncommitted record is redelivered to the
// next group member.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			log.Warn("kafka fetch error", "topic", topic, "partition", partition, "err", err)
		})

		var (
			mu   sync.Mutex
			done []*kgo.Record
		)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)

		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			g.Go(func() error {
				for _, rec := range p.Records {
					if err := c.dispatcher.Dispatch(gctx, fromRecord(rec)); err != nil {
						return fmt.Errorf("kafka: %s[%d]@%d: %w", rec.Topic, rec.Partition, rec.Offset, err)
					}
					mu.Lock()
					done = append(done, rec)
					mu.Unlock()
				}
				return nil
			})
		})
		runErr := g.Wait()

		if len(done) > 0 {
			if err := c.client.CommitRecords(context.WithoutCancel(ctx), done...); err != nil {
				log.Warn("kafka commit failed", "records", len(done), "err", err)
			}
		}
		if runErr != nil {
			if ctx.Err() != nil {
				return nil
			}
			return runErr
		}
	}
}

func fromRecord(rec *kgo.Record) Message {
	msg := Message{Topic: rec.Topic, Key: string(rec.Key), Value: rec.Value}
	if len(rec.Headers) > 0 {
		msg.Headers = make(map[string]string, len(rec.Headers))
		for _, h := range rec.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}
	}
	return msg
}
