/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package rtf

import (
	"strings"
	"testing"

	"tabmaker/internal/render"
	"tabmaker/internal/song"
)

func TestEscape(t *testing.T) {
	cases := map[string]string{`a\b{c}`: `a\\b\{c\}`, "plain": "plain"}
	for in, want := range cases {
		if got := Escape(in); got != want {
			t.Errorf("Escape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromLines(t *testing.T) {
	got := FromLines([]string{"Hello {x}", ""})
	want := header + "\n" + `Hello \{x\}\par` + "\n" + `\par` + "\n" + footer
	if got != want {
		t.Fatalf("FromLines = %q, want %q", got, want)
	}
}

func TestEmptyInputStillHasParagraph(t *testing.T) {
	want := header + "\n" + `\par` + "\n" + footer
	if got := FromLines(nil); got != want {
		t.Errorf("FromLines(nil) = %q, want %q", got, want)
	}
	if got := FromSegments(nil); got != want {
		t.Errorf("FromSegments(nil) = %q, want %q", got, want)
	}
}

func TestFromSegmentsCombinesChordAndLyric(t *testing.T) {
	segs := []render.Segment{
		{Kind: render.KindSection, Text: "Verse"},
		{Kind: render.KindChord, Text: "C     G"},
		{Kind: render.KindLyric, Text: "Hello world"},
		{Kind: render.KindChord, Text: "Am"},
		{Kind: render.KindBlank},
		{Kind: render.KindLyric, Text: "bare"},
	}
	want := strings.Join([]string{
		header,
		`Verse\par`,
		`\b C     G\b0\line Hello world`,
		`\par`,
		`\b Am\b0\par`,
		`\par`,
		`bare\par`,
		footer,
	}, "\n")
	if got := FromSegments(segs); got != want {
		t.Fatalf("FromSegments = %q\nwant           %q", got, want)
	}
}

func TestFromSegmentsHeaderBlock(t *testing.T) {
	segs := []render.Segment{
		{Kind: render.KindMetadata, Text: "Artist: Me"},
		{Kind: render.KindMetadata, Text: "TITLE: {Song}"},
		{Kind: render.KindMetadata, Text: "Key: G"},
		{Kind: render.KindBlank},
		{Kind: render.KindLyric, Text: "la"},
	}
	want := strings.Join([]string{
		header,
		titleStyle + `\{Song\}\par`,
		titleStyle + `Me\par`,
		bodyStyle,
		`Key: G\par`,
		`\par`,
		`la\par`,
		footer,
	}, "\n")
	if got := FromSegments(segs); got != want {
		t.Fatalf("FromSegments = %q\nwant           %q", got, want)
	}
}

func TestFromSegmentsEmptyTitleStaysInBody(t *testing.T) {
	segs := []render.Segment{{Kind: render.KindMetadata, Text: "Title:  "}}
	want := header + "\n" + `Title:  \par` + "\n" + footer
	if got := FromSegments(segs); got != want {
		t.Fatalf("FromSegments = %q, want %q", got, want)
	}
}

func TestFromSegmentsOfRenderedSong(t *testing.T) {
	s := song.Song{
		Metadata: map[string]string{"title": "T"},
		Sections: []song.Section{{Lines: []song.Line{
			song.ChordLyric{Lyrics: "go", Placements: []song.Placement{{Chord: "D", Column: 0}}},
		}}},
	}
	out := FromSegments(render.Segments(s))
	if !strings.HasPrefix(out, header) || !strings.HasSuffix(out, footer) {
		t.Fatalf("document not framed by header and footer: %q", out)
	}
	for _, part := range []string{titleStyle + `T\par`, `\b D\b0\line go`} {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q: %q", part, out)
		}
	}
}
