/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package song holds the canonical song model shared by every parser and renderer.
// Parsers build a Song in one pass; renderers read it in one pass. Nothing mutates
// a Song after construction except metadata overrides applied by the caller.
package song

import "fmt"

// Placement anchors a chord at a rune column of the lyric it is attached to.
type Placement struct {
	Chord  string `json:"chord"`
	Column int    `json:"column"`
}

// LineKind identifies the variant of a Line.
type LineKind int

const (
	KindBlank LineKind = iota
	KindLyric
	KindChords
	KindChordLyric
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindLyric:
		return "lyric"
	case KindChords:
		return "chords"
	case KindChordLyric:
		return "chord_lyric"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Line is one of Blank, Lyric, ChordsOnly or ChordLyric. The set is closed:
// the marker method is unexported so no other package can add variants.
type Line interface {
	Kind() LineKind
	line()
}

// Blank is a vertical gap.
type Blank struct{}

// Lyric is a line of text without chords.
type Lyric struct {
	Text string
}

// ChordsOnly is a chord line with no lyric under it. Raw keeps the source
// text so the original spacing survives a round trip.
type ChordsOnly struct {
	Chords []string
	Raw    string
}

// ChordLyric is a lyric with chords placed on its columns.
type ChordLyric struct {
	Lyrics     string
	Placements []Placement
}

func (Blank) Kind() LineKind      { return KindBlank }
func (Lyric) Kind() LineKind      { return KindLyric }
func (ChordsOnly) Kind() LineKind { return KindChords }
func (ChordLyric) Kind() LineKind { return KindChordLyric }

func (Blank) line()      {}
func (Lyric) line()      {}
func (ChordsOnly) line() {}
func (ChordLyric) line() {}

// Section is a named or anonymous run of lines.
type Section struct {
	Name    string
	HasName bool
	Lines   []Line
}

// Empty reports whether the section has neither a name nor lines.
// Empty sections are never stored in a Song.
func (s Section) Empty() bool { return !s.HasName && len(s.Lines) == 0 }

// Song is the canonical representation of a chord sheet.
// Metadata keys are lower-case.
type Song struct {
	Sections []Section
	Metadata map[string]string
}
