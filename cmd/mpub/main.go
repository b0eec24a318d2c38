// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/pkg/profile"
	"github.com/projectdiscovery/goflags"

	"github.com/mbeat-io/mbeat-go/pkg/beat"
	"github.com/mbeat-io/mbeat-go/pkg/config"
	"github.com/mbeat-io/mbeat-go/pkg/endpoint"
	"github.com/mbeat-io/mbeat-go/pkg/publish"
)

// flags carry the raw command line values. Unset flags keep their zero
// value, so the profile and the built-in defaults can fill them in.
type flags struct {
	endpoints  goflags.StringSlice
	port       int
	count      int
	interval   string
	key        string
	seqStart   string
	failFast   bool
	ttl        int
	loop       bool
	bufferSize int

	configPath string
	logLevel   string
	logJSON    bool
	pprof      bool
}

func parseFlags() (*flags, error) {
	f := &flags{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`mpub publishes heartbeat datagrams to multicast endpoints, one beat per endpoint per round.`)

	flagSet.CreateGroup("endpoints", "Endpoints",
		flagSet.StringSliceVarP(&f.endpoints, "endpoint", "e", nil, "endpoint as iface=group or plain group (comma separated or repeated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.IntVarP(&f.port, "port", "p", 0, "UDP port of all endpoints (default 22999)"),
	)

	flagSet.CreateGroup("run", "Run",
		flagSet.IntVarP(&f.count, "count", "c", 0, "beats per endpoint (default 5)"),
		flagSet.StringVarP(&f.interval, "interval", "i", "", "pause between rounds (default 1s)"),
		flagSet.StringVarP(&f.key, "key", "k", "", "run key stamped into every beat (default random)"),
		flagSet.StringVarP(&f.seqStart, "seq-start", "o", "", "first sequence number (default 0)"),
		flagSet.BoolVar(&f.failFast, "fail-fast", false, "abort on the first send error"),
	)

	flagSet.CreateGroup("socket", "Socket",
		flagSet.IntVarP(&f.ttl, "ttl", "t", 0, "Time-To-Live of outgoing datagrams (default 1)"),
		flagSet.BoolVarP(&f.loop, "loop", "l", false, "deliver copies to listeners on this host"),
		flagSet.IntVarP(&f.bufferSize, "buffer-size", "b", 0, "socket send buffer in bytes"),
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

// mergeKey resolves the run key: the flag, then the profile, then a fresh
// random one. An explicit zero turns the subscriber-side filtering off.
func mergeKey(flag string, prof uint64) (uint64, error) {
	if flag != "" {
		key, err := strconv.ParseUint(flag, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing key %q: %w", flag, err)
		}
		return key, nil
	}

	if prof != 0 {
		return prof, nil
	}
	return beat.RandomKey(), nil
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

	key, err := mergeKey(f.key, prof.Publish.Key)
	if err != nil {
		return err
	}
	seqStart, err := config.MergeUint(f.seqStart, prof.Publish.SeqStart, 0, "seq-start")
	if err != nil {
		return err
	}
	interval, err := config.MergeDuration(f.interval, prof.Publish.Interval, config.DefaultInterval)
	if err != nil {
		return err
	}
	if interval < 0 {
		return fmt.Errorf("interval %v is negative", interval)
	}

	ttl := config.Merge(f.ttl, prof.Publish.TTL, config.DefaultTTL)
	if ttl < 1 || ttl > 255 {
		return fmt.Errorf("Time-To-Live %d is outside the valid range", ttl)
	}

	count := config.Merge(f.count, int(prof.Publish.Count), config.DefaultCount)
	if count < 1 {
		return fmt.Errorf("count %d is not a positive number", count)
	}

	specs, err := endpoint.ParseSpecs(config.MergeStrings(f.endpoints, prof.Common.Endpoints))
	if err != nil {
		return err
	}
	eps, err := endpoint.Build(specs, config.Merge(f.port, prof.Common.Port, config.DefaultPort))
	if err != nil {
		return err
	}

	sockOpts := endpoint.PubOptions{
		TTL:    ttl,
		Loop:   config.MergeBool(f.loop, prof.Publish.Loop),
		SndBuf: config.Merge(f.bufferSize, prof.Publish.BufferSize, 0),
	}

	conns := make([]*endpoint.PubConn, 0, len(eps))
	defer func() {
		if err := endpoint.CloseConns(conns); err != nil {
			log.WithError(err).Error("Failed to close the publisher sockets")
		}
	}()

	for _, ep := range eps {
		pc, err := ep.DialPublisher(sockOpts)
		if err != nil {
			return err
		}
		conns = append(conns, pc)
	}

	opts := publish.Options{
		Count:    uint64(count),
		Interval: interval,
		Key:      key,
		TTL:      uint8(ttl),
		SeqStart: seqStart,
		FailFast: config.MergeBool(f.failFast, prof.Common.FailFast),
	}

	pub, err := publish.New(conns, opts)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"endpoints": len(conns),
		"count":     opts.Count,
		"interval":  opts.Interval,
		"key":       opts.Key,
	}).Info("Publishing beats")

	if err := pub.Run(); err != nil {
		return err
	}

	log.WithField("sent", pub.Sent()).Info("All beats published")
	return nil
}

func main() {
	f, err := parseFlags()
	if err != nil {
		log.WithError(err).Fatal("Failed to parse the command line")
	}

	if err := run(f); err != nil {
		log.WithError(err).Fatal("Publishing failed")
	}
}
