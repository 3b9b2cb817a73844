/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	applog "tabmaker/internal/log"
	"tabmaker/internal/song"
	"tabmaker/internal/storage"
)

// ErrDuplicateName is returned by BatchExport when two items would write the same files.
var ErrDuplicateName = errors.New("duplicate output name")

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetPrint produces PDF sheets.
	PresetPrint PresetName = "print"
	// PresetWord produces RTF documents for word processors.
	PresetWord PresetName = "word"
	// PresetShare produces ChordPro and JSON for other tools.
	PresetShare PresetName = "share"
)

// Item is one song of a batch. Name is the output file name without extension
// and may contain slashes to place the result in a subdirectory.
type Item struct {
	Name string
	Song song.Song
}

// BatchOptions controls a batch export.
//
// Outputs are written to <OutDir>/<format>/<Name><ext>. Formats overrides the
// preset's formats when set.
type BatchOptions struct {
	Preset  PresetName
	Formats []Format
	OutDir  string
	PDF     PDFOptions
}

// PresetFormats returns the formats a preset writes.
func PresetFormats(p PresetName) ([]Format, error) {
	switch p {
	case PresetPrint, "":
		return []Format{FormatPDF}, nil
	case PresetWord:
		return []Format{FormatRTF}, nil
	case PresetShare:
		return []Format{FormatChordPro, FormatJSON}, nil
	default:
		return nil, fmt.Errorf("unknown preset %q", p)
	}
}

// BatchExport writes every item in every requested format and returns the
// written paths in order. It stops at the first failure. Items whose names
// map to the same output path are rejected before anything is written.
func BatchExport(items []Item, opt BatchOptions) ([]string, error) {
	if strings.TrimSpace(opt.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		var err error
		if formats, err = PresetFormats(opt.Preset); err != nil {
			return nil, err
		}
	}
	// names are compared case-insensitively for case-folding file systems
	seen := make(map[string]string, len(items))
	for _, it := range items {
		key := strings.ToLower(filepath.ToSlash(filepath.Clean(filepath.FromSlash(it.Name))))
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrDuplicateName, prev, it.Name)
		}
		seen[key] = it.Name
	}
	l := applog.WithOperation(applog.WithComponent("export"), "batch")

	var out []string
	for _, it := range items {
		for _, f := range formats {
			data, err := Encode(it.Song, f, opt.PDF)
			if err != nil {
				return out, fmt.Errorf("%s %s: %w", it.Name, f, err)
			}
			p := filepath.Join(opt.OutDir, string(f), filepath.FromSlash(it.Name)+f.Extension())
			if err := storage.WriteFileAtomic(p, data); err != nil {
				return out, fmt.Errorf("%s %s: %w", it.Name, f, err)
			}
			out = append(out, p)
		}
	}
	l.Info("batch export done", slog.Int("songs", len(items)), slog.Int("files", len(out)))
	return out, nil
}
