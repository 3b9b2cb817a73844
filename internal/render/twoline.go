/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"strings"
	"unicode"

	"tabmaker/internal/song"
)

// SegmentKind tags a Segment with its role in the layout.
type SegmentKind string

const (
	KindMetadata SegmentKind = "metadata"
	KindSection  SegmentKind = "section"
	KindChord    SegmentKind = "chord"
	KindLyric    SegmentKind = "lyric"
	KindBlank    SegmentKind = "blank"
	KindOther    SegmentKind = "other"
)

// Segment is one output line of the two-line layout, tagged with its kind so
// that styled renderers (RTF, PDF) can format chords and lyrics differently.
type Segment struct {
	Kind SegmentKind
	Text string
}

// ChordLine rebuilds the chord line of l. Chords are written onto a row of
// spaces at their columns in recorded order, so on collision the later chord
// overwrites the earlier one. Trailing spaces are removed.
func ChordLine(l song.ChordLyric) string {
	width := len([]rune(l.Lyrics))
	for _, p := range l.Placements {
		width = max(width, max(p.Column, 0)+len([]rune(p.Chord)))
	}
	if width == 0 {
		return ""
	}
	row := []rune(strings.Repeat(" ", width))
	for _, p := range l.Placements {
		copy(row[max(p.Column, 0):], []rune(p.Chord))
	}
	return strings.TrimRight(string(row), " ")
}

// LineSegments lays out a chord-over-lyric line: a chord segment (omitted when
// the chord line is empty) followed by the lyric segment.
func LineSegments(l song.ChordLyric) []Segment {
	var out []Segment
	if cl := ChordLine(l); cl != "" {
		out = append(out, Segment{Kind: KindChord, Text: cl})
	}
	return append(out, Segment{Kind: KindLyric, Text: trimRight(l.Lyrics)})
}

// Segments renders the whole song in the two-line layout.
// Title and artist come first as "Title: ..." and "Artist: ...", then every other
// metadata key as "Display Key: value" in priority order, then a blank line.
// Sections are separated by a single blank segment.
func Segments(s song.Song) []Segment {
	var out []Segment
	for _, k := range []string{"title", "artist"} {
		if v, ok := s.Metadata[k]; ok {
			out = append(out, Segment{Kind: KindMetadata, Text: song.DisplayKey(k) + ": " + v})
		}
	}
	for _, e := range song.OrderedMetadata(s) {
		if e.Key == "title" || e.Key == "artist" {
			continue
		}
		out = append(out, Segment{Kind: KindMetadata, Text: song.DisplayKey(e.Key) + ": " + e.Value})
	}
	if len(out) > 0 {
		out = append(out, Segment{Kind: KindBlank})
	}

	for i, sec := range s.Sections {
		if sec.Name != "" {
			out = append(out, Segment{Kind: KindSection, Text: sec.Name})
		}
		for _, l := range sec.Lines {
			switch v := l.(type) {
			case song.Blank:
				out = append(out, Segment{Kind: KindBlank})
			case song.ChordLyric:
				out = append(out, LineSegments(v)...)
			case song.Lyric:
				out = append(out, Segment{Kind: KindLyric, Text: trimRight(v.Text)})
			case song.ChordsOnly:
				out = append(out, Segment{Kind: KindChord, Text: trimRight(chordsText(v))})
			default:
				song.Unreachable(l)
			}
		}
		if i != len(s.Sections)-1 {
			out = append(out, Segment{Kind: KindBlank})
		}
	}
	return out
}

// TwoLineText returns the segment texts, one output line each.
func TwoLineText(s song.Song) []string {
	segs := Segments(s)
	out := make([]string, len(segs))
	for i, sg := range segs {
		out[i] = sg.Text
	}
	return out
}

// chordsText is the raw text of a chords-only line, or the chords joined by a
// space when the raw text was not recorded.
func chordsText(l song.ChordsOnly) string {
	if l.Raw != "" {
		return l.Raw
	}
	return strings.Join(l.Chords, " ")
}

func trimRight(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }
