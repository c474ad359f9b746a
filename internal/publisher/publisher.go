// Package publisher wraps inbound envelopes with a monotonic per-topic
// sequence number, writes them to the bus, and advances the Resume
// store only once the bus has accepted the message.
package publisher

import (
	"context"
	"encoding/json"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/resume"
	"github.com/samsarahq/fluvio-mysql-cdc/logger"
)

type Publisher struct {
	bus      Bus
	resume   *resume.Resume
	sequence uint64
	log      logger.Logger
}

// New recovers the sequence counter from the bus's latest record (last
// sequence + 1, or 0 if the topic is empty) and returns a ready
// Publisher. The recovered record's bn_file is informational only;
// Resume remains the source of truth for where the follower resumes.
func New(ctx context.Context, bus Bus, res *resume.Resume, log logger.Logger) (*Publisher, error) {
	p := &Publisher{bus: bus, resume: res, log: log}

	raw, found, err := bus.FetchLatest(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		p.sequence = 0
		return p, nil
	}

	var last cdcmsg.FluvioMessage
	if err := json.Unmarshal(raw, &last); err != nil {
		return nil, cdcerr.WrapJSON(err, "decoding last bus record")
	}
	p.sequence = last.Sequence + 1

	return p, nil
}

// Publish wraps envelope with the current sequence, sends it, and on
// success advances the sequence counter and the Resume marker, in that
// order, so that a crash between the two can only replay the boundary
// event, never skip it.
func (p *Publisher) Publish(ctx context.Context, envelope cdcmsg.EventEnvelope) error {
	msg := cdcmsg.NewFluvioMessage(envelope, p.sequence)

	data, err := json.Marshal(msg)
	if err != nil {
		return cdcerr.WrapJSON(err, "encoding message sequence=%d", p.sequence)
	}

	if err := p.bus.Produce(ctx, data); err != nil {
		return err
	}

	p.sequence++

	if err := p.resume.Update(envelope.BnFile); err != nil {
		p.log.Warn("publisher: failed to persist resume marker", "error", err.Error())
		return err
	}

	return nil
}
