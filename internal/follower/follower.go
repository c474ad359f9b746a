// Package follower orchestrates the binlog file/index watch loop: it
// decides which file is current, re-parses it as it grows, picks up new
// files as the index rotates, and emits encoded events to a channel for
// the publisher.
package follower

import (
	"context"
	"fmt"
	"time"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/binlogfile"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/catalog"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/resume"
	"github.com/samsarahq/fluvio-mysql-cdc/logger"
)

// DelayMin is the floor on the poll sleep between ticks, regardless of
// the configured frequency.
const DelayMin = 500 * time.Millisecond

// Follower is the producer-side file watcher + event encoder. It owns
// the schema catalog, the current/index binlog file handles, and the
// producer end of the events channel; nothing else touches them.
type Follower struct {
	baseDir      string
	filters      *cdcmsg.Filters
	index        *binlogfile.Index
	current      *binlogfile.File
	catalog      *catalog.Catalog
	resume       *resume.Resume
	resourceName string
	events       chan<- cdcmsg.EventEnvelope
	log          logger.Logger

	ctx context.Context
}

// New builds a Follower watching the binlog files under baseDir, whose
// rotation order is listed in the index file at indexPath.
func New(
	baseDir, indexPath string,
	filters *cdcmsg.Filters,
	cat *catalog.Catalog,
	res *resume.Resume,
	resourceName string,
	events chan<- cdcmsg.EventEnvelope,
	log logger.Logger,
) (*Follower, error) {
	idx, err := binlogfile.NewIndex(indexPath)
	if err != nil {
		return nil, err
	}

	return &Follower{
		baseDir:      baseDir,
		filters:      filters,
		index:        idx,
		catalog:      cat,
		resume:       res,
		resourceName: resourceName,
		events:       events,
		log:          log,
	}, nil
}

// Run ticks until ctx is cancelled, sleeping at least DelayMin (and at
// least pollFrequency, whichever is larger) between ticks.
func (f *Follower) Run(ctx context.Context, pollFrequency time.Duration) error {
	f.ctx = ctx
	init := true

	for {
		if err := f.tick(init); err != nil {
			f.log.Warn("follower tick failed", "error", err.Error())
		}
		init = false

		sleep := pollFrequency
		if sleep < DelayMin {
			sleep = DelayMin
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(sleep):
		}
	}
}

func (f *Follower) tick(init bool) error {
	if init {
		if err := f.setCurrentFile(); err != nil {
			return err
		}
		if err := f.sendCurrentFileRecords(); err != nil {
			return err
		}
		return f.sendAllFilesRecords()
	}

	if changed, err := f.current.HasChanged(); err == nil && changed {
		if err := f.sendCurrentFileRecords(); err != nil {
			return err
		}
	}

	if changed, err := f.index.HasChanged(); err == nil && changed {
		if err := f.sendAllFilesRecords(); err != nil {
			return err
		}
	}

	return nil
}

func (f *Follower) setCurrentFile() error {
	var name string
	var offset *uint64

	if f.resume.IsEmpty() {
		files, err := f.index.BinLogFiles()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return cdcerr.WrapBinlogFile(fmt.Errorf("index file is empty"), "starting follower")
		}
		name = files[0]
	} else {
		name = f.resume.BnFile.FileName
		offset = f.resume.BnFile.Offset
	}

	file, err := binlogfile.New(f.baseDir, name, offset)
	if err != nil {
		return err
	}
	f.current = file
	return nil
}

func (f *Follower) sendCurrentFileRecords() error {
	hasOffset := f.current.Offset() != nil
	var startOffset uint64
	if hasOffset {
		startOffset = *f.current.Offset()
	}

	newOffset, err := parseRecordsFromFile(
		f.current.Path(), f.current.FileName(), startOffset, hasOffset,
		f.filters, f.catalog, f.resourceName, f.log, f.handleEnvelope,
	)
	if err != nil {
		return err
	}

	f.current.SetOffset(newOffset)
	return nil
}

func (f *Follower) sendAllFilesRecords() error {
	files, err := f.index.BinLogFiles()
	if err != nil {
		return err
	}

	for _, name := range files {
		if f.current != nil && binlogfile.FileID(name) <= f.current.FileID() {
			continue
		}

		file, err := binlogfile.New(f.baseDir, name, nil)
		if err != nil {
			return err
		}
		f.current = file

		if err := f.sendCurrentFileRecords(); err != nil {
			return err
		}
	}

	return nil
}

func (f *Follower) handleEnvelope(envelope cdcmsg.EventEnvelope) error {
	select {
	case f.events <- envelope:
		return nil
	case <-f.ctx.Done():
		return f.ctx.Err()
	}
}
