package publisher

import "context"

// noopBus discards every message, backing the producer's
// -skip-fluvio diagnostic mode: the follower and DDL catalog still
// run, but nothing reaches the bus; the sequence counter starts at zero
// (the topic always reads as empty) and advances only in memory.
type noopBus struct{}

// NewNoopBus returns a Bus that accepts writes without sending them
// anywhere and reports an always-empty topic.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Produce(ctx context.Context, value []byte) error { return nil }

func (noopBus) FetchLatest(ctx context.Context) ([]byte, bool, error) { return nil, false, nil }

func (noopBus) Close() error { return nil }
