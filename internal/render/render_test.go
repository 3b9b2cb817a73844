/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render_test

import (
	"reflect"
	"testing"

	"tabmaker/internal/chordpro"
	"tabmaker/internal/render"
	"tabmaker/internal/sheet"
	"tabmaker/internal/song"
)

func TestMergeInline(t *testing.T) {
	cases := []struct {
		name string
		in   song.ChordLyric
		want string
	}{
		{"basic", song.ChordLyric{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "C", Column: 0}, {Chord: "G", Column: 6}}}, "[C]Hello [G]world"},
		{"unsorted", song.ChordLyric{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "G", Column: 6}, {Chord: "C", Column: 0}}}, "[C]Hello [G]world"},
		{"past end", song.ChordLyric{Lyrics: "Hi", Placements: []song.Placement{{Chord: "C", Column: 0}, {Chord: "G", Column: 5}}}, "[C]Hi   [G]"},
		{"empty lyric", song.ChordLyric{Placements: []song.Placement{{Chord: "A", Column: 0}, {Chord: "B", Column: 3}}}, "[A]   [B]"},
		{"same column keeps order", song.ChordLyric{Lyrics: "go", Placements: []song.Placement{{Chord: "D", Column: 1}, {Chord: "E", Column: 1}}}, "g[D][E]o"},
		{"unicode", song.ChordLyric{Lyrics: "Grüße dich", Placements: []song.Placement{{Chord: "Am", Column: 6}}}, "Grüße [Am]dich"},
	}
	for _, tc := range cases {
		if got := render.MergeInline(tc.in); got != tc.want {
			t.Errorf("%s: MergeInline = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestChordLine(t *testing.T) {
	l := song.ChordLyric{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "C", Column: 0}, {Chord: "G", Column: 6}}}
	if got := render.ChordLine(l); got != "C     G" {
		t.Fatalf("ChordLine = %q", got)
	}
}

func TestChordLineCollisionLastWriteWins(t *testing.T) {
	l := song.ChordLyric{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "Am", Column: 0}, {Chord: "F", Column: 1}}}
	if got := render.ChordLine(l); got != "AF" {
		t.Fatalf("ChordLine = %q, want %q", got, "AF")
	}
}

func TestChordLineExtendsPastLyric(t *testing.T) {
	l := song.ChordLyric{Lyrics: "Hi", Placements: []song.Placement{{Chord: "Gsus4", Column: 4}}}
	if got := render.ChordLine(l); got != "    Gsus4" {
		t.Fatalf("ChordLine = %q", got)
	}
}

func TestLineSegmentsOmitsEmptyChordLine(t *testing.T) {
	segs := render.LineSegments(song.ChordLyric{Lyrics: "words  "})
	if want := []render.Segment{{Kind: render.KindLyric, Text: "words"}}; !reflect.DeepEqual(segs, want) {
		t.Fatalf("segments = %#v", segs)
	}
}

func sample() song.Song {
	return song.Song{
		Metadata: map[string]string{"title": "T", "artist": "A", "key": "G", "zeta": "z"},
		Sections: []song.Section{
			{Name: "Verse", HasName: true, Lines: []song.Line{
				song.ChordLyric{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "C", Column: 0}, {Chord: "G", Column: 6}}},
				song.Lyric{Text: "Plain  "},
			}},
			{Lines: []song.Line{song.ChordsOnly{Chords: []string{"C", "G"}}}},
		},
	}
}

func TestSegments(t *testing.T) {
	want := []render.Segment{
		{Kind: render.KindMetadata, Text: "Title: T"},
		{Kind: render.KindMetadata, Text: "Artist: A"},
		{Kind: render.KindMetadata, Text: "Key: G"},
		{Kind: render.KindMetadata, Text: "Zeta: z"},
		{Kind: render.KindBlank},
		{Kind: render.KindSection, Text: "Verse"},
		{Kind: render.KindChord, Text: "C     G"},
		{Kind: render.KindLyric, Text: "Hello world"},
		{Kind: render.KindLyric, Text: "Plain"},
		{Kind: render.KindBlank},
		{Kind: render.KindChord, Text: "C G"},
	}
	if got := render.Segments(sample()); !reflect.DeepEqual(got, want) {
		t.Fatalf("Segments = %#v\nwant       %#v", got, want)
	}
}

func TestSegmentsArtistBeforeOtherKeys(t *testing.T) {
	s := song.Song{Metadata: map[string]string{"album": "X", "artist": "A"}}
	if got, want := render.TwoLineText(s), []string{"Artist: A", "Album: X", ""}; !reflect.DeepEqual(got, want) {
		t.Fatalf("TwoLineText = %q, want %q", got, want)
	}
}

func TestSegmentsEmptySong(t *testing.T) {
	if got := render.Segments(song.Song{}); len(got) != 0 {
		t.Fatalf("Segments(empty) = %#v", got)
	}
}

func TestPlainLines(t *testing.T) {
	want := []string{
		"Title: T", "Artist: A", "Key: G", "Zeta: z", "",
		"Verse", "[C]Hello [G]world", "Plain  ",
		"",
		"C G",
	}
	if got := render.PlainLines(sample()); !reflect.DeepEqual(got, want) {
		t.Fatalf("PlainLines = %q, want %q", got, want)
	}
}

func TestPlainLinesUsesRawChordText(t *testing.T) {
	s := song.Song{Sections: []song.Section{{Lines: []song.Line{
		song.ChordsOnly{Chords: []string{"C", "G"}, Raw: "C   G"},
		song.Blank{},
	}}}}
	if got, want := render.PlainLines(s), []string{"C   G", ""}; !reflect.DeepEqual(got, want) {
		t.Fatalf("PlainLines = %q, want %q", got, want)
	}
}

func TestChordLineRoundTripsThroughSheetParser(t *testing.T) {
	lines := []song.ChordLyric{
		{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "C", Column: 0}, {Chord: "G", Column: 6}}},
		{Lyrics: "Über alles", Placements: []song.Placement{{Chord: "Am7", Column: 2}, {Chord: "D/F#", Column: 9}}},
		{Lyrics: "x", Placements: []song.Placement{{Chord: "E", Column: 12}}},
	}
	for _, l := range lines {
		got, ok := sheet.ChordLine(render.ChordLine(l))
		if !ok {
			t.Fatalf("%q: reconstructed chord line not recognized", l.Lyrics)
		}
		if !reflect.DeepEqual(got, l.Placements) {
			t.Errorf("%q: placements = %v, want %v", l.Lyrics, got, l.Placements)
		}
	}
}

func TestMergeInlineRoundTripsThroughChordPro(t *testing.T) {
	lines := []song.ChordLyric{
		{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "C", Column: 0}, {Chord: "G", Column: 6}}},
		{Lyrics: "Grüße", Placements: []song.Placement{{Chord: "F", Column: 3}}},
	}
	for _, l := range lines {
		if got := chordpro.ParseLine(render.MergeInline(l)); !reflect.DeepEqual(got, song.Line(l)) {
			t.Errorf("%q: round trip = %#v", l.Lyrics, got)
		}
	}
}

func TestSheetParseThenSegmentsPreservesColumns(t *testing.T) {
	s := sheet.Parse("[Verse]\nC     G\nHello world\n")
	if got, want := render.TwoLineText(s), []string{"Verse", "C     G", "Hello world"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("TwoLineText = %q, want %q", got, want)
	}
}
