/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package songjson is the JSON interchange format of the song model.
// Documents are validated against an embedded JSON schema before decoding.
package songjson

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"tabmaker/internal/song"
)

// Version is the document format version written by Marshal.
const Version = 1

// ErrInvalidDocument is returned by Unmarshal for input that is not a valid song document.
var ErrInvalidDocument = errors.New("invalid song document")

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema song documents must conform to.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

type document struct {
	Version  int               `json:"version"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Sections []section         `json:"sections"`
}

type section struct {
	Name  string            `json:"name,omitempty"`
	Named bool              `json:"named,omitempty"`
	Lines []json.RawMessage `json:"lines"`
}

type blankLine struct {
	Kind string `json:"kind"`
}

type lyricLine struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type chordsLine struct {
	Kind   string   `json:"kind"`
	Chords []string `json:"chords"`
	Raw    string   `json:"raw,omitempty"`
}

type chordLyricLine struct {
	Kind       string           `json:"kind"`
	Lyrics     string           `json:"lyrics"`
	Placements []song.Placement `json:"placements"`
}

// wireLine decodes any line kind.
type wireLine struct {
	Kind       string           `json:"kind"`
	Text       string           `json:"text"`
	Chords     []string         `json:"chords"`
	Raw        string           `json:"raw"`
	Lyrics     string           `json:"lyrics"`
	Placements []song.Placement `json:"placements"`
}

// Marshal encodes s as an indented JSON document terminated by a newline.
func Marshal(s song.Song) ([]byte, error) {
	doc := document{Version: Version, Sections: make([]section, 0, len(s.Sections))}
	if len(s.Metadata) > 0 {
		doc.Metadata = s.Metadata
	}
	for _, sec := range s.Sections {
		out := section{Name: sec.Name, Named: sec.HasName, Lines: make([]json.RawMessage, 0, len(sec.Lines))}
		for _, l := range sec.Lines {
			raw, err := json.Marshal(encodeLine(l))
			if err != nil {
				return nil, fmt.Errorf("marshal %s line: %w", l.Kind(), err)
			}
			out.Lines = append(out.Lines, raw)
		}
		doc.Sections = append(doc.Sections, out)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal song: %w", err)
	}
	return append(data, '\n'), nil
}

func encodeLine(l song.Line) any {
	switch v := l.(type) {
	case song.Blank:
		return blankLine{Kind: song.KindBlank.String()}
	case song.Lyric:
		return lyricLine{Kind: song.KindLyric.String(), Text: v.Text}
	case song.ChordsOnly:
		chords := v.Chords
		if chords == nil {
			chords = []string{}
		}
		return chordsLine{Kind: song.KindChords.String(), Chords: chords, Raw: v.Raw}
	case song.ChordLyric:
		ps := v.Placements
		if ps == nil {
			ps = []song.Placement{}
		}
		return chordLyricLine{Kind: song.KindChordLyric.String(), Lyrics: v.Lyrics, Placements: ps}
	default:
		song.Unreachable(l)
		return nil
	}
}

// Unmarshal validates data against the song schema and decodes it.
// Metadata keys are lower-cased; sections with neither a name nor lines are dropped.
func Unmarshal(data []byte) (song.Song, error) {
	schema, err := compiled()
	if err != nil {
		return song.Song{}, fmt.Errorf("compile song schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return song.Song{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return song.Song{}, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return song.Song{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	b := song.NewBuilder()
	for k, v := range doc.Metadata {
		b.SetMeta(k, v)
	}
	for i, sec := range doc.Sections {
		if sec.Named || sec.Name != "" {
			b.StartSection(sec.Name)
		} else if i > 0 {
			// an anonymous section after another one still starts fresh
			b.StartAnonymous()
		}
		for j, raw := range sec.Lines {
			var w wireLine
			if err := json.Unmarshal(raw, &w); err != nil {
				return song.Song{}, fmt.Errorf("%w: section %d line %d: %v", ErrInvalidDocument, i, j, err)
			}
			b.Append(decodeLine(w))
		}
	}
	return b.Song(), nil
}

func decodeLine(w wireLine) song.Line {
	switch w.Kind {
	case "lyric":
		return song.Lyric{Text: w.Text}
	case "chords":
		return song.ChordsOnly{Chords: w.Chords, Raw: w.Raw}
	case "chord_lyric":
		return song.ChordLyric{Lyrics: w.Lyrics, Placements: w.Placements}
	default:
		return song.Blank{}
	}
}
