// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/pkg/profile"
	"github.com/projectdiscovery/goflags"

	"github.com/mbeat-io/mbeat-go/pkg/config"
	"github.com/mbeat-io/mbeat-go/pkg/endpoint"
	"github.com/mbeat-io/mbeat-go/pkg/events"
	"github.com/mbeat-io/mbeat-go/pkg/sink"
	"github.com/mbeat-io/mbeat-go/pkg/subscribe"
)

// flags carry the raw command line values. Unset flags keep their zero
// value, so the profile and the built-in defaults can fill them in.
type flags struct {
	endpoints  goflags.StringSlice
	port       int
	bufferSize int
	key        string
	offset     string
	expect     string
	timeout    string
	raw        bool
	unbuffered bool
	failFast   bool

	configPath string
	logLevel   string
	logJSON    bool
	pprof      bool
}

func parseFlags() (*flags, error) {
	f := &flags{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`msub subscribes to multicast endpoints and writes one record per received heartbeat datagram to stdout.`)

	flagSet.CreateGroup("endpoints", "Endpoints",
		flagSet.StringSliceVarP(&f.endpoints, "endpoint", "e", nil, "endpoint as iface=group or plain group (comma separated or repeated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.IntVarP(&f.port, "port", "p", 0, "UDP port of all endpoints (default 22999)"),
		flagSet.IntVarP(&f.bufferSize, "buffer-size", "b", 0, "socket receive buffer in bytes"),
	)

	flagSet.CreateGroup("filters", "Filters",
		flagSet.StringVarP(&f.key, "key", "k", "", "accept only beats with this run key (default all)"),
		flagSet.StringVarP(&f.offset, "offset", "o", "", "subtract this offset from sequence numbers, dropping beats below it"),
	)

	flagSet.CreateGroup("run", "Run",
		flagSet.StringVarP(&f.expect, "expect", "n", "", "stop after this many accepted beats"),
		flagSet.StringVarP(&f.timeout, "timeout", "w", "", "stop after this wall-clock time"),
		flagSet.BoolVar(&f.failFast, "fail-fast", false, "abort on the first receive error"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&f.raw, "raw", "r", false, "write binary records instead of text"),
		flagSet.BoolVarP(&f.unbuffered, "unbuffered", "u", false, "flush every record immediately"),
	)

	flagSet.CreateGroup("diagnostics", "Diagnostics",
		flagSet.StringVar(&f.configPath, "config", "", "TOML profile path"),
		flagSet.StringVar(&f.logLevel, "log-level", "", "logging level"),
		flagSet.BoolVar(&f.logJSON, "log-json", false, "log as JSON"),
		flagSet.BoolVar(&f.pprof, "pprof", false, "write a CPU profile to the working directory"),
	)

	if err := flagSet.Parse(); err != nil {
		return nil, err
	}
	return f, nil
}

func run(f *flags) error {
	if f.pprof {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	prof, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	config.SetupLogging(
		config.Merge(f.logLevel, prof.Common.LogLevel, ""),
		config.MergeBool(f.logJSON, prof.Common.LogJSON))

	key, err := config.MergeUint(f.key, prof.Subscribe.Key, 0, "key")
	if err != nil {
		return err
	}
	offset, err := config.MergeUint(f.offset, prof.Subscribe.Offset, 0, "offset")
	if err != nil {
		return err
	}
	expect, err := config.MergeUint(f.expect, prof.Subscribe.Expect, 0, "expect")
	if err != nil {
		return err
	}
	timeout, err := config.MergeDuration(f.timeout, prof.Subscribe.Timeout, 0)
	if err != nil {
		return err
	}
	if timeout < 0 {
		return fmt.Errorf("timeout %v is negative", timeout)
	}

	specs, err := endpoint.ParseSpecs(config.MergeStrings(f.endpoints, prof.Common.Endpoints))
	if err != nil {
		return err
	}
	eps, err := endpoint.Build(specs, config.Merge(f.port, prof.Common.Port, config.DefaultPort))
	if err != nil {
		return err
	}

	defer func() {
		if err := endpoint.CloseAll(eps); err != nil {
			log.WithError(err).Error("Failed to close the subscriber sockets")
		}
	}()

	rcvbuf := config.Merge(f.bufferSize, prof.Subscribe.BufferSize, 0)
	for _, ep := range eps {
		if err := ep.ListenSubscriber(rcvbuf); err != nil {
			return err
		}
	}

	queue, err := events.New()
	if err != nil {
		return err
	}
	defer queue.Close()

	term, err := events.NewTerminator(timeout)
	if err != nil {
		return err
	}
	defer term.Close()

	unbuffered := config.MergeBool(f.unbuffered, prof.Subscribe.Unbuffered)
	var out sink.Sink
	if config.MergeBool(f.raw, prof.Subscribe.Raw) {
		out = sink.NewRaw(os.Stdout, unbuffered)
	} else {
		if out, err = sink.NewTable(os.Stdout, unbuffered); err != nil {
			return err
		}
	}
	defer func() {
		if err := out.Flush(); err != nil {
			log.WithError(err).Error("Failed to flush the output")
		}
	}()

	opts := subscribe.Options{
		Key:      key,
		Offset:   offset,
		Expect:   expect,
		FailFast: config.MergeBool(f.failFast, prof.Common.FailFast),
	}

	recv, err := subscribe.New(queue, eps, term, out, opts)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"endpoints": len(eps),
		"key":       opts.Key,
		"offset":    opts.Offset,
		"expect":    opts.Expect,
		"timeout":   timeout,
	}).Info("Listening for beats")

	if _, err := recv.Run(); err != nil {
		return err
	}

	log.WithField("received", recv.Accepted()).Info("Receiver finished")

	if opts.Expect > 0 && recv.Accepted() < opts.Expect {
		return fmt.Errorf("received %d of %d expected beats", recv.Accepted(), opts.Expect)
	}
	return nil
}

func main() {
	f, err := parseFlags()
	if err != nil {
		log.WithError(err).Fatal("Failed to parse the command line")
	}

	if err := run(f); err != nil {
		log.WithError(err).Fatal("Subscribing failed")
	}
}
