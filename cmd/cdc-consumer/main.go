// Command cdc-consumer reads change events off the bus and replays
// them against a target MySQL database in order, one at a time.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/applier"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/config"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/offsetstore"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/publisher"
	"github.com/samsarahq/fluvio-mysql-cdc/logger"
)

func main() {
	profilePath := flag.String("profile", "", "path to the consumer TOML profile")
	flag.Parse()

	log := logger.New()

	if *profilePath == "" {
		fmt.Fprintln(os.Stderr, "missing required -profile flag")
		os.Exit(1)
	}

	if err := run(*profilePath, log); err != nil {
		log.Error("consumer exiting", "error", err.Error())
		os.Exit(1)
	}
}

func run(profilePath string, log logger.Logger) error {
	profile, err := config.LoadConsumerProfile(profilePath)
	if err != nil {
		return err
	}

	offset, err := offsetstore.Init(profile.Data.LastOffsetFile)
	if err != nil {
		return err
	}

	fmt.Println("Connecting to mysql database...")
	apl, err := applier.New(context.Background(), profile.DSN, offset, log)
	if err != nil {
		return err
	}
	defer apl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A fresh consumer (no prior offset) starts at the bus's earliest
	// record; a resuming one starts just past the last applied offset.
	var startAt uint64
	if lastOffset, ok := offset.Offset(); ok {
		startAt = lastOffset + 1
	}

	reader, err := publisher.NewKafkaReader(profile.BrokerAddr(), profile.Topic(), startAt)
	if err != nil {
		return err
	}
	defer reader.Close()

	type received struct {
		value  []byte
		offset uint64
	}
	messages := make(chan received, 100)
	readErrs := make(chan error, 1)

	go func() {
		for {
			value, msgOffset, err := reader.ReadMessage(ctx)
			if err != nil {
				readErrs <- err
				return
			}
			select {
			case messages <- received{value: value, offset: msgOffset}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case msg := <-messages:
			if err := apl.Apply(ctx, msg.value, msg.offset); err != nil {
				return err
			}

		case err := <-readErrs:
			if ctx.Err() != nil {
				continue
			}
			return err

		case <-ctx.Done():
			fmt.Println()
			fmt.Println("Exited by user")
			return nil
		}
	}
}
