package publisher

import (
	"context"

	kafka "github.com/segmentio/kafka-go"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
)

// Reader streams messages off the bus in order, starting from a
// previously persisted offset.
type Reader interface {
	ReadMessage(ctx context.Context) (value []byte, offset uint64, err error)
	Close() error
}

type kafkaReader struct {
	topic  string
	reader *kafka.Reader
}

// NewKafkaReader opens a single-partition reader on topic positioned at
// startOffset, so a restarted consumer resumes exactly where its Offset
// Store left off.
func NewKafkaReader(addr, topic string, startOffset uint64) (Reader, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{addr},
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	if err := reader.SetOffset(int64(startOffset)); err != nil {
		reader.Close()
		return nil, cdcerr.WrapBusClient(err, "seeking topic %s to offset %d", topic, startOffset)
	}
	return &kafkaReader{topic: topic, reader: reader}, nil
}

func (r *kafkaReader) ReadMessage(ctx context.Context) ([]byte, uint64, error) {
	msg, err := r.reader.ReadMessage(ctx)
	if err != nil {
		return nil, 0, cdcerr.WrapBusClient(err, "reading from topic %s", r.topic)
	}
	return msg.Value, uint64(msg.Offset), nil
}

func (r *kafkaReader) Close() error {
	return r.reader.Close()
}
