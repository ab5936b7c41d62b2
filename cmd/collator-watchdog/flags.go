// Copyright 2026 The collator-watchdog Authors
// This file is part of the collator-watchdog library.
//
// The collator-watchdog library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The collator-watchdog library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the collator-watchdog library. If not, see <http://www.gnu.org/licenses/>.

package main

import "github.com/urfave/cli/v2"

var flagLogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"verbosity"},
	Usage:   "log level: error, warn, info, debug, trace",
	Value:   "info",
	EnvVars: []string{"COLLATOR_LOG_LEVEL"},
}

var flagConfigPath = &cli.StringFlag{
	Name:    "config",
	Usage:   "path to config.toml",
	Value:   "config.toml",
	EnvVars: []string{"COLLATOR_CONFIG"},
}

var flagLogFile = &cli.StringFlag{
	Name:  "log-file",
	Usage: "rotate logs to this path instead of stderr",
}

var flagInterval = &cli.DurationFlag{
	Name:  "interval",
	Usage: "time between scans; defaults to check_interval_secs from config",
}

var flagOnce = &cli.BoolFlag{
	Name:  "once",
	Usage: "run exactly one scan then exit, like check, but under the watch exit-code contract",
}

var globalFlags = []cli.Flag{flagLogLevel, flagConfigPath, flagLogFile}
