// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package config

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// SetupLogging applies the resolved logging level and format to the
// process-wide logger. Diagnostics go to stderr; stdout stays reserved for
// the subscriber's records.
func SetupLogging(level string, json bool) {
	if level != "" {
		if lvl, err := log.ParseLevel(level); err != nil {
			log.WithFields(log.Fields{
				"level":    level,
				"error":    err,
				"provided": "panic,fatal,error,warn,info,debug,trace",
			}).Warn("Failed to set log level. Please select one of the provided ones")
		} else {
			log.SetLevel(lvl)
		}
	}

	if json {
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
	}
}
