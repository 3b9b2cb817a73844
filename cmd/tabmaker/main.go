/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command tabmaker converts chord sheets and ChordPro files into ChordPro,
// plain text, RTF, PDF and JSON, and indexes songbook directories.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"tabmaker/internal/config"
	"tabmaker/internal/crash"
	applog "tabmaker/internal/log"
	"tabmaker/internal/song"
)

// CLI defines the command-line interface.
type CLI struct {
	ConfigFile string `name:"config-file" help:"Config file to use instead of the per-user one." type:"path"`

	Convert  ConvertCmd  `cmd:"" help:"Convert a song between formats."`
	ChordPro ChordProCmd `cmd:"" name:"chordpro" help:"Convert a chord sheet to ChordPro."`
	Cho2RTF  Cho2RTFCmd  `cmd:"" name:"cho2rtf" help:"Convert a ChordPro file to two-line RTF."`
	Export   ExportCmd   `cmd:"" help:"Export several songs with a preset."`
	Index    IndexCmd    `cmd:"" help:"Index a songbook directory."`
	Search   SearchCmd   `cmd:"" help:"Search an indexed songbook."`
	Schema   SchemaCmd   `cmd:"" help:"Print the JSON schema of song documents."`
	Cfg      ConfigGroup `cmd:"" name:"config" help:"Show, locate or create the configuration."`
	Version  VersionCmd  `cmd:"" help:"Print version information."`
}

// env carries what commands need besides their flags.
type env struct {
	cfg        config.AppConfig
	configFile string // --config-file, empty for the per-user file
	stdin      io.Reader
	stdout     io.Writer
}

// exitError carries a specific exit code out of run.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

func main() {
	defer crash.Recover("")
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the exit code:
// 0 on success, 2 for usage and metadata errors, 1 otherwise.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("tabmaker"),
		kong.Description("Chord sheet and ChordPro converter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitError{c}) }),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(exitError)
			if !ok {
				panic(r)
			}
			code = e.code
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\nRun 'tabmaker --help' for usage.\n", err)
		return 2
	}

	cfg, cfgErr := loadConfig(cli.ConfigFile)
	opts := cfg.Logging.LogOptions()
	opts.Writer = stderr
	applog.Init(opts)
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}
	l.Debug("start", slog.String("command", kctx.Command()))

	if err := kctx.Run(&env{cfg: cfg, configFile: cli.ConfigFile, stdin: stdin, stdout: stdout}); err != nil {
		l.Debug("command failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		if errors.Is(err, song.ErrInvalidMetadata) {
			return 2
		}
		return 1
	}
	return 0
}

func loadConfig(path string) (config.AppConfig, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
