/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"tabmaker/internal/chordpro"
	"tabmaker/internal/config"
	"tabmaker/internal/crash"
	"tabmaker/internal/export"
	"tabmaker/internal/render"
	"tabmaker/internal/rtf"
	"tabmaker/internal/sheet"
	"tabmaker/internal/song"
	"tabmaker/internal/songjson"
	"tabmaker/internal/storage"
	"tabmaker/internal/version"
)

// metaFlags are the metadata overrides shared by the converting commands.
type metaFlags struct {
	Title  string   `help:"Set the song title."`
	Artist string   `help:"Set the artist."`
	Album  string   `help:"Set the album."`
	Key    string   `help:"Set the musical key."`
	Meta   []string `short:"m" sep:"none" placeholder:"KEY=VALUE" help:"Extra metadata; repeatable."`
}

// apply fills configured default metadata the song lacks, then applies the
// flags. Flags win over values parsed from the source.
func (m metaFlags) apply(s *song.Song, defaults map[string]string) error {
	if err := fillDefaults(s, defaults); err != nil {
		return err
	}
	items := make([]string, 0, 4+len(m.Meta))
	for _, kv := range [][2]string{{"title", m.Title}, {"artist", m.Artist}, {"album", m.Album}, {"key", m.Key}} {
		if kv[1] != "" {
			items = append(items, kv[0]+"="+kv[1])
		}
	}
	items = append(items, m.Meta...)
	return s.ApplyOverrides(items)
}

func fillDefaults(s *song.Song, defaults map[string]string) error {
	for k, v := range defaults {
		if _, ok := s.Metadata[k]; !ok {
			if err := s.SetMeta(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ConvertCmd converts one song.
type ConvertCmd struct {
	Src      string `arg:"" optional:"" default:"-" help:"Source file; - reads stdin."`
	Out      string `short:"o" help:"Output file; - or empty writes stdout." type:"path"`
	From     string `default:"auto" enum:"auto,sheet,chordpro,json" help:"Source format (${enum})."`
	To       string `help:"Output format: chordpro, text, twoline, rtf, rtf-plain, json or pdf. Defaults to the output extension, then the configured format."`
	PageSize string `name:"page-size" help:"PDF page size."`

	Overrides metaFlags `embed:""`
}

func (c *ConvertCmd) Run(e *env) error {
	name, data, err := readSource(c.Src, e.stdin)
	if err != nil {
		return err
	}
	src := storage.Detect(name, data)
	if c.From != "auto" {
		if src, err = storage.ParseFormat(c.From); err != nil {
			return err
		}
	}
	s, err := storage.Decode(src, data)
	if err != nil {
		return err
	}
	if err := c.Overrides.apply(&s, e.cfg.Render.Metadata); err != nil {
		return err
	}
	to, err := outputFormat(c.To, c.Out, e.cfg.Render.DefaultFormat)
	if err != nil {
		return err
	}
	pdf, err := pdfOptions(e.cfg.PDF)
	if err != nil {
		return err
	}
	if c.PageSize != "" {
		pdf.PageSize = c.PageSize
	}
	out, err := export.Encode(s, to, pdf)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, out, e.stdout)
}

// ChordProCmd converts a chord sheet to ChordPro.
type ChordProCmd struct {
	Src string `arg:"" optional:"" default:"-" help:"Chord sheet file; - reads stdin."`
	Out string `short:"o" help:"Output file; - or empty writes stdout." type:"path"`

	Overrides metaFlags `embed:""`
}

func (c *ChordProCmd) Run(e *env) error {
	_, data, err := readSource(c.Src, e.stdin)
	if err != nil {
		return err
	}
	s := sheet.Parse(string(data))
	if err := c.Overrides.apply(&s, e.cfg.Render.Metadata); err != nil {
		return err
	}
	return writeOutput(c.Out, []byte(chordpro.Render(s)), e.stdout)
}

// Cho2RTFCmd converts ChordPro to the two-line RTF layout.
type Cho2RTFCmd struct {
	Src string `arg:"" optional:"" default:"-" help:"ChordPro file; - reads stdin."`
	Out string `short:"o" help:"Output file; - or empty writes stdout." type:"path"`

	Overrides metaFlags `embed:""`
}

func (c *Cho2RTFCmd) Run(e *env) error {
	_, data, err := readSource(c.Src, e.stdin)
	if err != nil {
		return err
	}
	s := chordpro.Parse(string(data))
	if err := c.Overrides.apply(&s, e.cfg.Render.Metadata); err != nil {
		return err
	}
	return writeOutput(c.Out, []byte(rtf.FromSegments(render.Segments(s))), e.stdout)
}

// ExportCmd writes several songs with a preset.
type ExportCmd struct {
	Srcs   []string `arg:"" name:"src" help:"Song files." type:"existingfile"`
	OutDir string   `name:"out-dir" short:"d" required:"" help:"Output directory." type:"path"`
	Preset string   `default:"print" enum:"print,word,share" help:"Export preset (${enum})."`
	To     []string `help:"Formats to write instead of the preset's."`
}

func (c *ExportCmd) Run(e *env) error {
	pdf, err := pdfOptions(e.cfg.PDF)
	if err != nil {
		return err
	}
	opt := export.BatchOptions{Preset: export.PresetName(c.Preset), OutDir: c.OutDir, PDF: pdf}
	for _, t := range c.To {
		f, err := export.ParseFormat(t)
		if err != nil {
			return err
		}
		opt.Formats = append(opt.Formats, f)
	}
	items := make([]export.Item, 0, len(c.Srcs))
	for _, p := range c.Srcs {
		s, _, err := storage.LoadSong(p)
		if err != nil {
			return err
		}
		if err := fillDefaults(&s, e.cfg.Render.Metadata); err != nil {
			return err
		}
		base := filepath.Base(p)
		items = append(items, export.Item{Name: strings.TrimSuffix(base, filepath.Ext(base)), Song: s})
	}
	written, err := export.BatchExport(items, opt)
	for _, p := range written {
		_, _ = fmt.Fprintln(e.stdout, p)
	}
	return err
}

// IndexCmd (re)builds a songbook index.
type IndexCmd struct {
	Dir   string `arg:"" optional:"" help:"Songbook directory; defaults to the configured library." type:"path"`
	Check bool   `help:"Only rebuild when the existing index is damaged."`
}

func (c *IndexCmd) Run(e *env) error {
	dir := libraryDir(c.Dir, e.cfg)
	defer crash.Recover(dir)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if c.Check {
		rebuilt, err := storage.DetectAndRebuildIndex(ctx, dir)
		if err != nil {
			return err
		}
		if rebuilt {
			_, _ = fmt.Fprintln(e.stdout, "index rebuilt")
		} else {
			_, _ = fmt.Fprintln(e.stdout, "index ok")
		}
		return nil
	}
	st, err := storage.IndexDir(ctx, dir)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "indexed %d songs, skipped %d\n", st.Indexed, st.Skipped)
	return nil
}

// SearchCmd queries a songbook index.
type SearchCmd struct {
	Dir    string `arg:"" help:"Songbook directory." type:"path"`
	Query  string `arg:"" optional:"" help:"Full-text query over lyrics and section names."`
	Artist string `help:"Only songs whose artist contains this text."`
	Key    string `help:"Only songs in this key."`
	Limit  int    `default:"20" help:"Maximum number of results."`
	Offset int    `help:"Results to skip."`
}

func (c *SearchCmd) Run(e *env) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := storage.Search(ctx, libraryDir(c.Dir, e.cfg), storage.SearchQuery{
		Text: c.Query, Artist: c.Artist, Key: c.Key, Limit: c.Limit, Offset: c.Offset,
	})
	if err != nil {
		return err
	}
	for _, r := range res {
		line := fmt.Sprintf("%s\t%s\t%s\t%s", r.Path, r.Title, r.Artist, r.Key)
		if r.Snippet != "" {
			line += "\t" + r.Snippet
		}
		_, _ = fmt.Fprintln(e.stdout, line)
	}
	return nil
}

// ConfigGroup shows and creates configuration.
type ConfigGroup struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Print the effective configuration as YAML."`
	Path ConfigPathCmd `cmd:"" help:"Print the config file path."`
	Init ConfigInitCmd `cmd:"" help:"Write a config file with the default settings."`
}

type ConfigShowCmd struct{}

func (ConfigShowCmd) Run(e *env) error {
	data, err := yaml.Marshal(e.cfg)
	if err != nil {
		return err
	}
	if _, err := e.stdout.Write(data); err != nil {
		return err
	}
	keys := []string{"render.default_format", "pdf.page_size", "pdf.font_size", "library.root",
		"logging.level", "logging.format", "logging.source", "logging.file"}
	sort.Strings(keys)
	for _, k := range keys {
		if envName, ok := config.EnvOverrideFor(k); ok {
			_, _ = fmt.Fprintf(e.stdout, "# %s overridden by %s\n", k, envName)
		}
	}
	return nil
}

type ConfigPathCmd struct{}

func (ConfigPathCmd) Run(e *env) error {
	p, err := configFilePath(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, p)
	return err
}

// ConfigInitCmd writes the defaults to the config file.
type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(e *env) error {
	p, err := configFilePath(e)
	if err != nil {
		return err
	}
	if _, err := os.Stat(p); err == nil && !c.Force {
		return fmt.Errorf("%s already exists; use --force to overwrite", p)
	}
	if e.configFile != "" {
		err = config.SaveTo(p, config.Defaults())
	} else {
		err = config.Save(config.Defaults())
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	_, err = fmt.Fprintln(e.stdout, p)
	return err
}

func configFilePath(e *env) (string, error) {
	if e.configFile != "" {
		return e.configFile, nil
	}
	return config.ConfigPath()
}

// SchemaCmd prints the JSON schema that json sources must satisfy.
type SchemaCmd struct{}

func (SchemaCmd) Run(e *env) error {
	_, err := e.stdout.Write(songjson.Schema())
	return err
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (VersionCmd) Run(e *env) error {
	_, err := fmt.Fprintln(e.stdout, "tabmaker", version.String())
	return err
}

// readSource reads a file, or stdin for "-" and "". The returned name is
// empty for stdin so format detection falls back to sniffing.
func readSource(src string, stdin io.Reader) (string, []byte, error) {
	if src == "" || src == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "", data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", nil, fmt.Errorf("read source: %w", err)
	}
	return src, data, nil
}

func writeOutput(out string, data []byte, stdout io.Writer) error {
	if out == "" || out == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return storage.WriteFileAtomic(out, data)
}

// outputFormat picks the explicit format, else the one matching the output
// file extension, else the configured default.
func outputFormat(to, out, def string) (export.Format, error) {
	if to != "" {
		return export.ParseFormat(to)
	}
	if f, ok := formatForOutput(out); ok {
		return f, nil
	}
	if def == "" {
		def = string(export.FormatChordPro)
	}
	return export.ParseFormat(def)
}

// formatForOutput matches the longest known extension so ".plain.rtf" wins over ".rtf".
func formatForOutput(out string) (export.Format, bool) {
	lower := strings.ToLower(out)
	var best export.Format
	for _, f := range export.Formats {
		ext := f.Extension()
		if strings.HasSuffix(lower, ext) && len(ext) > len(best.Extension()) {
			best = f
		}
	}
	return best, best != ""
}

func pdfOptions(c config.PDFConfig) (export.PDFOptions, error) {
	color, err := export.ParseColor(c.ChordColor)
	if err != nil {
		return export.PDFOptions{}, err
	}
	return export.PDFOptions{PageSize: c.PageSize, FontSize: c.FontSize, ChordColor: color}, nil
}

func libraryDir(dir string, cfg config.AppConfig) string {
	if dir != "" {
		return dir
	}
	return cfg.Library.Root
}
