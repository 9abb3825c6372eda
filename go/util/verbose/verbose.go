// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

// Package verbose owns the process wide logging switches: the -v/--verbose flag and the level
// and format applied to the logrus standard logger.
package verbose

import (
	"strings"

	"github.com/attic-labs/kingpin"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"
)

const (
	TextFormat = "text"
	JSONFormat = "json"
)

var ErrUnknownLogFormat = errors.NewKind("unknown log format '%s', expected text or json")

var (
	verbose bool
	quiet   bool
)

// RegisterVerboseFlags adds --verbose/-v and --quiet/-q to app. The flags only record their
// values; call Apply after parsing.
func RegisterVerboseFlags(app *kingpin.Application) {
	app.Flag("verbose", "show more").Short('v').BoolVar(&verbose)
	app.Flag("quiet", "show nothing but errors").Short('q').BoolVar(&quiet)
}

// Verbose returns True if verbose logging is enabled.
func Verbose() bool {
	return verbose
}

// Quiet returns True if only errors should be logged.
func Quiet() bool {
	return quiet
}

func SetVerbose(v bool) {
	verbose = v
	Apply()
}

func SetQuiet(q bool) {
	quiet = q
	Apply()
}

// Apply sets the standard logger's level from the verbosity switches. Verbose wins over quiet.
func Apply() {
	switch {
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

// Configure applies a level name ("trace", "debug", "info", ...) and a format ("text" or
// "json") to the standard logger. Empty strings leave the current setting alone. The
// verbosity switches are applied afterwards, so -v overrides a configured level.
func Configure(level, format string) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	}

	switch strings.ToLower(format) {
	case "":
	case TextFormat:
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case JSONFormat:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return ErrUnknownLogFormat.New(format)
	}

	Apply()
	return nil
}

// Log writes a debug entry when verbose logging is enabled.
func Log(format string, args ...interface{}) {
	if Verbose() {
		logrus.Debugf(format, args...)
	}
}
