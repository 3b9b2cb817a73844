/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"tabmaker/internal/chord"
	"tabmaker/internal/chordpro"
	"tabmaker/internal/sheet"
	"tabmaker/internal/song"
	"tabmaker/internal/songjson"
)

// Format names a song source format.
type Format string

const (
	FormatSheet    Format = "sheet"
	FormatChordPro Format = "chordpro"
	FormatJSON     Format = "json"
)

var extFormats = map[string]Format{
	".txt":      FormatSheet,
	".crd":      FormatSheet,
	".cho":      FormatChordPro,
	".chopro":   FormatChordPro,
	".chordpro": FormatChordPro,
	".json":     FormatJSON,
}

var (
	reDirectiveLine = regexp.MustCompile(`^\{[^:{}]+:.*\}$`)
	reBracket       = regexp.MustCompile(`\[([^\]\s]+)\]`)
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSheet, FormatChordPro, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown source format %q", s)
}

// FormatForPath maps a file extension to its source format.
func FormatForPath(path string) (Format, bool) {
	f, ok := extFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Sniff guesses the format of data. A JSON object is FormatJSON; any directive
// line or inline chord annotation makes it FormatChordPro; anything else is a
// chord sheet. Section headers such as "[Verse]" do not count as chords.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed) {
		return FormatJSON
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if reDirectiveLine.MatchString(line) {
			return FormatChordPro
		}
		for _, m := range reBracket.FindAllStringSubmatch(line, -1) {
			if m[0] != line && chord.IsChord(m[1]) {
				return FormatChordPro
			}
		}
	}
	return FormatSheet
}

// Detect picks the format for a named input: by extension when known,
// otherwise by content.
func Detect(name string, data []byte) Format {
	if f, ok := FormatForPath(name); ok {
		return f
	}
	return Sniff(data)
}

// Decode parses data in the given format.
// Only JSON documents can fail; both text parsers accept any input.
func Decode(f Format, data []byte) (song.Song, error) {
	switch f {
	case FormatSheet:
		return sheet.Parse(string(data)), nil
	case FormatChordPro:
		return chordpro.Parse(string(data)), nil
	case FormatJSON:
		return songjson.Unmarshal(data)
	default:
		return song.Song{}, fmt.Errorf("unknown source format %q", f)
	}
}

// LoadSong reads and parses the song file at path.
func LoadSong(path string) (song.Song, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return song.Song{}, "", fmt.Errorf("read song: %w", err)
	}
	f := Detect(path, data)
	s, err := Decode(f, data)
	if err != nil {
		return song.Song{}, f, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, f, nil
}
