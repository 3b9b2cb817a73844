/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(" " + strings.ToUpper(string(f)) + " ")
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%s) = %q, %v", f, got, err)
		}
		if f.Extension() == "" {
			t.Fatalf("no extension for %s", f)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestEncodeTextFormats(t *testing.T) {
	s := sampleSong()
	cases := map[Format]string{
		FormatChordPro: "{title: Grüße}\n{artist: Ann}\n{key: G}\n{comment: Verse}\n[C]Hello [G]world\n\nla {la}\n",
		FormatText:     "Title: Grüße\nArtist: Ann\nKey: G\n\nVerse\n[C]Hello [G]world\n\nla {la}\n",
		FormatTwoLine:  "Title: Grüße\nArtist: Ann\nKey: G\n\nVerse\nC     G\nHello world\n\nla {la}\n",
	}
	for f, want := range cases {
		got, err := Encode(s, f, PDFOptions{})
		if err != nil {
			t.Fatalf("Encode %s: %v", f, err)
		}
		if string(got) != want {
			t.Fatalf("Encode %s:\n got %q\nwant %q", f, got, want)
		}
	}
}

func TestEncodeRTFEscapesBraces(t *testing.T) {
	for _, f := range []Format{FormatRTF, FormatRTFPlain} {
		got, err := Encode(sampleSong(), f, PDFOptions{})
		if err != nil {
			t.Fatalf("Encode %s: %v", f, err)
		}
		if !strings.Contains(string(got), `la \{la\}\par`) {
			t.Fatalf("%s output not escaped:\n%s", f, got)
		}
	}
}

func TestEncodeJSON(t *testing.T) {
	got, err := Encode(sampleSong(), FormatJSON, PDFOptions{})
	if err != nil {
		t.Fatalf("Encode json: %v", err)
	}
	if !strings.Contains(string(got), `"chord_lyric"`) {
		t.Fatalf("unexpected json: %s", got)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1a2B3c")
	if err != nil || c != (Color{R: 0x1a, G: 0x2b, B: 0x3c}) {
		t.Fatalf("ParseColor = %+v, %v", c, err)
	}
	if c, err := ParseColor(""); err != nil || c != (Color{}) {
		t.Fatalf("empty colour = %+v, %v", c, err)
	}
	for _, bad := range []string{"#12345", "zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestHeaderText(t *testing.T) {
	cases := []struct {
		meta map[string]string
		want string
	}{
		{map[string]string{"title": "T", "artist": "A"}, "T - A"},
		{map[string]string{"title": "T"}, "T"},
		{map[string]string{"artist": "A"}, "A"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := headerText(tc.meta); got != tc.want {
			t.Fatalf("headerText(%v) = %q, want %q", tc.meta, got, tc.want)
		}
	}
}
