package publisher

import (
	"context"

	kafka "github.com/segmentio/kafka-go"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
)

// Bus is the narrow interface the publisher drives the message bus
// through, mirroring FluvioManager's use of just TopicProducer and
// PartitionConsumer rather than the full client surface.
type Bus interface {
	// Produce appends value to the topic's partition 0.
	Produce(ctx context.Context, value []byte) error
	// FetchLatest returns the most recently produced message on
	// partition 0, or found=false if the topic is empty.
	FetchLatest(ctx context.Context) (value []byte, found bool, err error)
	Close() error
}

// kafkaBus is the default Bus backed by a single-partition kafka-go
// writer/connection pair.
type kafkaBus struct {
	addr   string
	topic  string
	writer *kafka.Writer
}

// NewKafkaBus dials addr and targets topic's partition 0.
func NewKafkaBus(addr, topic string) Bus {
	return &kafkaBus{
		addr:  addr,
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(addr),
			Topic:        topic,
			Balancer:     kafka.BalancerFunc(func(kafka.Message, ...int) int { return 0 }),
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (b *kafkaBus) Produce(ctx context.Context, value []byte) error {
	err := b.writer.WriteMessages(ctx, kafka.Message{
		Partition: 0,
		Value:     value,
	})
	if err != nil {
		return cdcerr.WrapBusClient(err, "producing to topic %s", b.topic)
	}
	return nil
}

func (b *kafkaBus) FetchLatest(ctx context.Context) ([]byte, bool, error) {
	conn, err := kafka.DialLeader(ctx, "tcp", b.addr, b.topic, 0)
	if err != nil {
		return nil, false, cdcerr.WrapBusClient(err, "dialing topic %s", b.topic)
	}
	defer conn.Close()

	lastOffset, err := conn.ReadLastOffset()
	if err != nil {
		return nil, false, cdcerr.WrapBusClient(err, "reading last offset of topic %s", b.topic)
	}
	if lastOffset <= 0 {
		return nil, false, nil
	}

	if _, err := conn.Seek(lastOffset-1, kafka.SeekAbsolute); err != nil {
		return nil, false, cdcerr.WrapBusClient(err, "seeking topic %s to offset %d", b.topic, lastOffset-1)
	}

	batch := conn.ReadBatch(1, 1<<20)
	defer batch.Close()

	msg, err := batch.ReadMessage()
	if err != nil {
		return nil, false, cdcerr.WrapBusClient(err, "reading latest record of topic %s", b.topic)
	}

	return msg.Value, true, nil
}

func (b *kafkaBus) Close() error {
	return b.writer.Close()
}
