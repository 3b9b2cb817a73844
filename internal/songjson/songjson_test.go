/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package songjson

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"tabmaker/internal/song"
)

func sample() song.Song {
	return song.Song{
		Metadata: map[string]string{"title": "T", "tuning": "drop D"},
		Sections: []song.Section{
			{Lines: []song.Line{song.Lyric{Text: "intro"}}},
			{Name: "Verse", HasName: true, Lines: []song.Line{
				song.ChordsOnly{Chords: []string{"C", "G"}, Raw: "C  G"},
				song.ChordLyric{Lyrics: "Hello world", Placements: []song.Placement{{Chord: "C", Column: 0}, {Chord: "G", Column: 6}}},
				song.Blank{},
				song.Lyric{Text: ""},
			}},
			{Lines: []song.Line{song.Lyric{Text: "outro"}}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Fatalf("round trip = %#v\nwant         %#v", got, sample())
	}
}

func TestMarshalConformsToSchema(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(Schema()), gojsonschema.NewBytesLoader(data))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, e := range res.Errors() {
		t.Errorf("schema error: %s", e)
	}
}

func TestMarshalEmptySong(t *testing.T) {
	data, err := Marshal(song.Song{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if want := map[string]any{"version": float64(1), "sections": []any{}}; !reflect.DeepEqual(doc, want) {
		t.Fatalf("document = %v, want %v", doc, want)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Sections) != 0 || len(got.Metadata) != 0 {
		t.Fatalf("expected empty song, got %#v", got)
	}
}

func TestUnmarshalNormalizesKeysAndDropsEmptySections(t *testing.T) {
	got, err := Unmarshal([]byte(`{"version":1,"metadata":{"Title":"X"},"sections":[{"lines":[]},{"name":"Verse","lines":[{"kind":"blank"}]}]}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if want := map[string]string{"title": "X"}; !reflect.DeepEqual(got.Metadata, want) {
		t.Fatalf("metadata = %v, want %v", got.Metadata, want)
	}
	if len(got.Sections) != 1 || got.Sections[0].Name != "Verse" || !got.Sections[0].HasName {
		t.Fatalf("sections = %#v", got.Sections)
	}
}

func TestUnmarshalRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"wrong version":   `{"version":2,"sections":[]}`,
		"missing section": `{"version":1}`,
		"unknown kind":    `{"version":1,"sections":[{"lines":[{"kind":"tab"}]}]}`,
		"negative column": `{"version":1,"sections":[{"lines":[{"kind":"chord_lyric","lyrics":"x","placements":[{"chord":"C","column":-1}]}]}]}`,
		"lyric no text":   `{"version":1,"sections":[{"lines":[{"kind":"lyric"}]}]}`,
		"empty meta key":  `{"version":1,"metadata":{"":"x"},"sections":[]}`,
		"extra field":     `{"version":1,"sections":[],"extra":true}`,
	}
	for name, in := range cases {
		if _, err := Unmarshal([]byte(in)); !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("%s: err = %v, want ErrInvalidDocument", name, err)
		}
	}
}
