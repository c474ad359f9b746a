// Command cdc-producer tails a MySQL binlog and publishes change events
// to the bus, resuming from wherever it last left off.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/catalog"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/config"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/follower"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/publisher"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/resume"
	"github.com/samsarahq/fluvio-mysql-cdc/logger"
)

const eventChannelCapacity = 100

func main() {
	profilePath := flag.String("profile", "", "path to the producer TOML profile")
	skipFluvio := flag.Bool("skip-fluvio", false, "run the follower without publishing to the bus")
	flag.Parse()

	log := logger.New()

	if *profilePath == "" {
		fmt.Fprintln(os.Stderr, "missing required -profile flag")
		os.Exit(1)
	}

	if err := run(*profilePath, *skipFluvio, log); err != nil {
		log.Error("producer exiting", "error", err.Error())
		os.Exit(1)
	}
}

func run(profilePath string, skipFluvio bool, log logger.Logger) error {
	profile, err := config.LoadProducerProfile(profilePath)
	if err != nil {
		return err
	}

	cat, err := catalog.Load(profile.Data.LocalStoreFile)
	if err != nil {
		return err
	}

	res, err := resume.Load(profile.Data.ResumeOffsetFile)
	if err != nil {
		return err
	}
	if res.IsEmpty() {
		fmt.Println("Resuming from start")
	} else {
		fmt.Printf("Resuming from %+v\n", res.BnFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bus publisher.Bus
	if !skipFluvio {
		bus = publisher.NewKafkaBus(profile.BrokerAddr(), profile.Topic())
	} else {
		bus = publisher.NewNoopBus()
	}
	defer bus.Close()

	pub, err := publisher.New(ctx, bus, res, log)
	if err != nil {
		return err
	}

	events := make(chan cdcmsg.EventEnvelope, eventChannelCapacity)

	flw, err := follower.New(profile.Data.BasePath, profile.Data.BinlogIndexFile, profile.Filters, cat, res, profile.MysqlResourceName, events, log)
	if err != nil {
		return err
	}

	go flw.Run(ctx, 0)

	for {
		select {
		case envelope := <-events:
			if err := pub.Publish(ctx, envelope); err != nil {
				return err
			}

		case <-ctx.Done():
			fmt.Println()
			fmt.Println("Exited by user")
			return nil
		}
	}
}
